package mmio

import (
	"fmt"

	"fftio/hw/hwio"
)

type AccessKind uint8

const (
	Load AccessKind = iota
	Store
)

func (k AccessKind) String() string {
	switch k {
	case Load:
		return "load"
	case Store:
		return "store"
	}
	return fmt.Sprintf("AccessKind(%d)", uint8(k))
}

// Access is one operation seen by a Sim.
type Access struct {
	Kind  AccessKind
	Addr  uint64
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%s %#x=%#x", a.Kind, a.Addr, a.Value)
}

// Sim is a Backing that stands in for hardware: memory that echoes writes,
// recording every access in the order it was made.
type Sim struct {
	base uint64
	bus  *hwio.Table
	ram  hwio.Mem

	accesses []Access
	closed   bool
}

// NewSim creates zeroed simulated memory over cfg.
func NewSim(cfg Config) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sim{base: cfg.Base, bus: hwio.NewTable("sim")}
	s.ram = hwio.Mem{Name: "sim", Base: cfg.Base, Data: make([]byte, cfg.Length)}
	s.bus.MapDevice(cfg.Base, &hwio.Device{
		Name: "sim",
		Size: cfg.Length,
		ReadCb: func(addr uint64) uint32 {
			val := s.ram.Read32(addr, false)
			s.accesses = append(s.accesses, Access{Kind: Load, Addr: addr, Value: val})
			return val
		},
		PeekCb: func(addr uint64) uint32 {
			return s.ram.Read32(addr, true)
		},
		WriteCb: func(addr uint64, val uint32) {
			s.ram.Write32(addr, val)
			s.accesses = append(s.accesses, Access{Kind: Store, Addr: addr, Value: val})
		},
	})
	return s, nil
}

func (s *Sim) Load32(off uint64) uint32 {
	return s.bus.Read32(s.base+off, false)
}

func (s *Sim) Store32(off uint64, val uint32) {
	s.bus.Write32(s.base+off, val)
}

// Peek32 returns the word at addr without recording an access.
func (s *Sim) Peek32(addr uint64) uint32 {
	return s.bus.Peek32(addr)
}

// Accesses returns a copy of the access log.
func (s *Sim) Accesses() []Access {
	return append([]Access(nil), s.accesses...)
}

// Reset zeroes memory and clears the access log.
func (s *Sim) Reset() {
	s.ram.Clear()
	s.accesses = nil
}

func (s *Sim) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *Sim) Closed() bool { return s.closed }
