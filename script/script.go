// Package script runs Lua register scripts against a register window.
//
// Scripts see the following globals, on top of the Lua standard library:
//
//	reg_write32(addr, value)     store a 32-bit value
//	reg_read32(addr) -> value    load a 32-bit value
//	fft_pack(re, im) -> value    encode a complex sample as a lane value
//	FFT_WRITE_LANE_0..3          write lane addresses
//	FFT_READ_LANE_0..3           read lane addresses
//
// A failed register access aborts the script.
package script

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"fftio/hw/fft"
	"fftio/log"
)

type Window interface {
	Read32(addr uint64) (uint32, error)
	Write32(addr uint64, val uint32) error
}

type runner struct {
	w Window

	// last access error raised into Lua, so it can be returned wrapped
	accessErr error
}

// Run executes the Lua chunk src. name is used in error messages.
func Run(ctx context.Context, w Window, name, src string) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	r := &runner{w: w}
	r.register(L)

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	log.ModScript.DebugZ("running script").String("name", name).End()

	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		if r.accessErr != nil {
			return fmt.Errorf("%s: %w", name, r.accessErr)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// RunFile executes the Lua script at path.
func RunFile(ctx context.Context, w Window, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Run(ctx, w, path, string(src))
}

func (r *runner) register(L *lua.LState) {
	L.SetGlobal("reg_write32", L.NewFunction(r.write32))
	L.SetGlobal("reg_read32", L.NewFunction(r.read32))
	L.SetGlobal("fft_pack", L.NewFunction(pack))

	for n := 0; n < fft.NumLanes; n++ {
		L.SetGlobal(fmt.Sprintf("FFT_WRITE_LANE_%d", n), lua.LNumber(fft.WriteLane(n)))
		L.SetGlobal(fmt.Sprintf("FFT_READ_LANE_%d", n), lua.LNumber(fft.ReadLane(n)))
	}
}

// checkUint returns argument n as an unsigned integer no larger than limit.
func checkUint(L *lua.LState, n int, limit float64) uint64 {
	v := float64(L.CheckNumber(n))
	if v < 0 || v > limit || v != math.Trunc(v) {
		L.ArgError(n, fmt.Sprintf("%v is not an unsigned integer <= %v", v, limit))
	}
	return uint64(v)
}

func (r *runner) raise(L *lua.LState, err error) {
	r.accessErr = err
	L.RaiseError("%v", err)
}

func (r *runner) write32(L *lua.LState) int {
	addr := checkUint(L, 1, 1<<53)
	val := checkUint(L, 2, math.MaxUint32)
	if err := r.w.Write32(addr, uint32(val)); err != nil {
		r.raise(L, err)
	}
	return 0
}

func (r *runner) read32(L *lua.LState) int {
	addr := checkUint(L, 1, 1<<53)
	val, err := r.w.Read32(addr)
	if err != nil {
		r.raise(L, err)
	}
	L.Push(lua.LNumber(val))
	return 1
}

func pack(L *lua.LState) int {
	re := float64(L.CheckNumber(1))
	im := float64(L.CheckNumber(2))
	L.Push(lua.LNumber(fft.Pack(re, im)))
	return 1
}
