// Package mmio provides bounds-checked 32-bit register access over a
// memory-mapped physical address window.
//
// A Window owns its Backing: it is created mapped (Open, New) and must be
// released with Close. Windows do no locking; callers sharing one across
// goroutines must synchronize externally.
package mmio

import (
	"fmt"

	"fftio/log"
)

// Config describes the physical address window.
type Config struct {
	Base   uint64 // physical address of the first register
	Length uint64 // window size in bytes
}

// End returns the first address past the window.
func (c Config) End() uint64 { return c.Base + c.Length }

// Validate checks that the window is word aligned, not empty and doesn't wrap
// around the address space.
func (c Config) Validate() error {
	switch {
	case c.Base%4 != 0:
		return fmt.Errorf("window base %#x is not 4-byte aligned", c.Base)
	case c.Length == 0:
		return fmt.Errorf("window length is zero")
	case c.Length%4 != 0:
		return fmt.Errorf("window length %#x is not a multiple of 4", c.Length)
	case c.Base+c.Length < c.Base:
		return fmt.Errorf("window [%#x, +%#x) overflows the address space", c.Base, c.Length)
	}
	return nil
}

// Contains reports whether addr is in [Base, Base+Length).
func (c Config) Contains(addr uint64) bool {
	return addr >= c.Base && addr-c.Base < c.Length
}

func (c Config) String() string {
	return fmt.Sprintf("[%#x, %#x)", c.Base, c.End())
}

// A Backing performs the actual loads and stores. Offsets are relative to
// the window base and have already been checked by the Window.
type Backing interface {
	Load32(off uint64) uint32
	Store32(off uint64, val uint32)
	Close() error
}

// Window is the register access layer over a mapped address range.
type Window struct {
	cfg Config
	mem Backing
}

// New creates a window over an already mapped backing. The window takes
// ownership of mem, and closes it if cfg is invalid.
func New(cfg Config, mem Backing) (*Window, error) {
	if mem == nil {
		return nil, fmt.Errorf("window %v: nil backing", cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, joinClose(err, mem)
	}

	log.ModMMIO.DebugZ("window mapped").
		Hex64("base", cfg.Base).
		Hex64("length", cfg.Length).
		End()

	return &Window{cfg: cfg, mem: mem}, nil
}

func joinClose(err error, mem Backing) error {
	if cerr := mem.Close(); cerr != nil {
		return fmt.Errorf("%w (close: %v)", err, cerr)
	}
	return err
}

// Config returns the window bounds.
func (w *Window) Config() Config { return w.cfg }

func (w *Window) String() string { return w.cfg.String() }

func (w *Window) check(op string, addr uint64) (uint64, error) {
	switch {
	case w.mem == nil:
		return 0, &AccessError{Op: op, Addr: addr, Err: ErrClosed}
	case !w.cfg.Contains(addr):
		return 0, &AccessError{Op: op, Addr: addr, Err: ErrOutOfRange}
	case addr%4 != 0:
		return 0, &AccessError{Op: op, Addr: addr, Err: ErrMisaligned}
	}
	return addr - w.cfg.Base, nil
}

// Write32 stores val in the register at addr. The store is issued
// immediately, in program order with the other accesses of this window.
func (w *Window) Write32(addr uint64, val uint32) error {
	off, err := w.check("write32", addr)
	if err != nil {
		return err
	}

	log.ModMMIO.DebugZ("write32").
		Hex64("addr", addr).
		Hex32("val", val).
		End()

	w.mem.Store32(off, val)
	return nil
}

// Read32 loads the register at addr.
func (w *Window) Read32(addr uint64) (uint32, error) {
	off, err := w.check("read32", addr)
	if err != nil {
		return 0, err
	}

	val := w.mem.Load32(off)

	log.ModMMIO.DebugZ("read32").
		Hex64("addr", addr).
		Hex32("val", val).
		End()
	return val, nil
}

// Close releases the backing. Accesses after Close fail with ErrClosed.
// Closing more than once is a no-op.
func (w *Window) Close() error {
	if w.mem == nil {
		return nil
	}
	mem := w.mem
	w.mem = nil

	log.ModMMIO.DebugZ("window unmapped").
		Hex64("base", w.cfg.Base).
		End()

	return mem.Close()
}
