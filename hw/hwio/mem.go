package hwio

import (
	"encoding/binary"

	"fftio/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear area of little-endian words that can be mapped into a
// Table. Addresses are absolute: Base is the address of Data[0].
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Base  uint64   // address of the first byte
	Data  []byte   // actual memory buffer, length multiple of 4
	Flags MemFlags // flags determining how the memory can be accessed
}

func (m *Mem) offset(addr uint64) (uint64, bool) {
	off := addr - m.Base
	if addr < m.Base || off+4 > uint64(len(m.Data)) {
		log.ModHwIo.ErrorZ("access outside memory area").
			String("name", m.Name).
			Hex64("addr", addr).
			End()
		return 0, false
	}
	return off, true
}

func (m *Mem) Read32(addr uint64, _ bool) uint32 {
	off, ok := m.offset(addr)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint32(m.Data[off:])
}

func (m *Mem) Write32(addr uint64, val uint32) {
	off, ok := m.offset(addr)
	if !ok {
		return
	}

	switch {
	case m.Flags&MemFlagReadOnly == 0:
		binary.LittleEndian.PutUint32(m.Data[off:], val)
	case m.Flags&MemFlagNoROLog != 0:
		return
	default:
		log.ModHwIo.ErrorZ("Write32 to readonly memory").
			String("name", m.Name).
			Hex32("val", val).
			Hex64("addr", addr).
			End()
	}
}

// Clear zeroes the whole memory area.
func (m *Mem) Clear() {
	clear(m.Data)
}
