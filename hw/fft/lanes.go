// Package fft holds the register map of the FFT accelerator lanes and the
// smoke sequence run against them.
package fft

import (
	"fmt"

	"fftio/log"
)

// FFT lane registers. Lanes are 8 bytes apart.
const (
	WriteLane0 uint64 = 0x2000
	WriteLane1 uint64 = 0x2008
	WriteLane2 uint64 = 0x2010
	WriteLane3 uint64 = 0x2018

	ReadLane0 uint64 = 0x2100
	ReadLane1 uint64 = 0x2108
	ReadLane2 uint64 = 0x2110
	ReadLane3 uint64 = 0x2118

	NumLanes   = 4
	laneStride = 8
)

// WriteLane returns the address of write lane n. It panics if n is not a
// valid lane.
func WriteLane(n int) uint64 {
	checkLane(n)
	return WriteLane0 + uint64(n)*laneStride
}

// ReadLane returns the address of read lane n. It panics if n is not a valid
// lane.
func ReadLane(n int) uint64 {
	checkLane(n)
	return ReadLane0 + uint64(n)*laneStride
}

func checkLane(n int) {
	if n < 0 || n >= NumLanes {
		panic(fmt.Sprintf("fft: invalid lane %d", n))
	}
}

type Writer32 interface {
	Write32(addr uint64, val uint32) error
}

type Reader32 interface {
	Read32(addr uint64) (uint32, error)
}

// Unity is 1+1i, the value the smoke sequence writes to every lane.
const Unity uint32 = 524416

// Smoke writes Unity to the write lanes, in lane order. It stops at the first
// failed write.
func Smoke(w Writer32) error {
	for n := 0; n < NumLanes; n++ {
		addr := WriteLane(n)
		if err := w.Write32(addr, Unity); err != nil {
			return fmt.Errorf("write lane %d: %w", n, err)
		}
		log.ModFFT.DebugZ("lane written").
			Int("lane", n).
			Hex64("addr", addr).
			Hex32("val", Unity).
			End()
	}
	return nil
}

// ReadBack returns the content of the read lanes.
func ReadBack(r Reader32) ([NumLanes]uint32, error) {
	var vals [NumLanes]uint32
	for n := 0; n < NumLanes; n++ {
		val, err := r.Read32(ReadLane(n))
		if err != nil {
			return vals, fmt.Errorf("read lane %d: %w", n, err)
		}
		vals[n] = val
	}
	return vals, nil
}
