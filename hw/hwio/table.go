package hwio

import (
	"fmt"
	"slices"

	"fftio/log"
)

// log unmapped accesses (callers bounds-check before reaching the table, so
// these point at a mapping bug)
const logUnmapped = true

type BankIO32 interface {
	// Read32 reads a word from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read32(addr uint64, peek bool) uint32
	Write32(addr uint64, val uint32)
}

type region struct {
	begin, end uint64 // inclusive
	io         BankIO32
}

// Table dispatches 32-bit accesses to the bank mapped at the accessed
// address. Regions never overlap.
type Table struct {
	Name string

	// Unmapped receives accesses to addresses where nothing is mapped. If
	// nil, unmapped reads return 0 and unmapped writes are dropped.
	Unmapped BankIO32

	regions []region // sorted by begin
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.regions = nil
}

// Map maps io over the inclusive range [begin, end]. It panics if the range
// is inverted or overlaps an already mapped region.
func (t *Table) Map(begin, end uint64, io BankIO32) {
	if begin > end {
		panic(fmt.Errorf("%s: invalid range [%x, %x]", t.Name, begin, end))
	}

	idx, _ := slices.BinarySearchFunc(t.regions, begin, func(r region, addr uint64) int {
		switch {
		case r.begin < addr:
			return -1
		case r.begin > addr:
			return 1
		}
		return 0
	})
	if idx > 0 && t.regions[idx-1].end >= begin {
		panic(fmt.Errorf("%s: range [%x, %x] overlaps [%x, %x]", t.Name, begin, end, t.regions[idx-1].begin, t.regions[idx-1].end))
	}
	if idx < len(t.regions) && t.regions[idx].begin <= end {
		panic(fmt.Errorf("%s: range [%x, %x] overlaps [%x, %x]", t.Name, begin, end, t.regions[idx].begin, t.regions[idx].end))
	}

	t.regions = slices.Insert(t.regions, idx, region{begin: begin, end: end, io: io})
}

func (t *Table) MapMem(mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex64("addr", mem.Base).
		Uint("size", uint64(len(mem.Data))).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	if len(mem.Data) == 0 || len(mem.Data)%4 != 0 {
		panic("memory buffer size is not a multiple of 4")
	}
	t.Map(mem.Base, mem.Base+uint64(len(mem.Data))-1, mem)
}

func (t *Table) MapDevice(addr uint64, dev *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Hex64("addr", addr).
		Uint("size", dev.Size).
		String("name", dev.Name).
		String("bus", t.Name).
		End()

	if dev.Size == 0 {
		panic("device size is zero")
	}
	t.Map(addr, addr+dev.Size-1, dev)
}

// Unmap removes every mapping in the inclusive range [begin, end]. Regions
// partially covered by the range are trimmed.
func (t *Table) Unmap(begin, end uint64) {
	kept := t.regions[:0:0]
	for _, r := range t.regions {
		if r.end < begin || r.begin > end {
			kept = append(kept, r)
			continue
		}
		if r.begin < begin {
			kept = append(kept, region{begin: r.begin, end: begin - 1, io: r.io})
		}
		if r.end > end {
			kept = append(kept, region{begin: end + 1, end: r.end, io: r.io})
		}
	}
	t.regions = kept
}

func (t *Table) search(addr uint64) BankIO32 {
	idx, found := slices.BinarySearchFunc(t.regions, addr, func(r region, addr uint64) int {
		switch {
		case r.end < addr:
			return -1
		case r.begin > addr:
			return 1
		}
		return 0
	})
	if !found {
		return nil
	}
	return t.regions[idx].io
}

// Read32 searches in the table for the bank mapped at the given address and
// forwards the read to it. Accesses to unmapped addresses are logged as errors
// if peek is false.
func (t *Table) Read32(addr uint64, peek bool) uint32 {
	io := t.search(addr)
	if io == nil {
		if t.Unmapped != nil {
			return t.Unmapped.Read32(addr, peek)
		}
		if logUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read32").
				String("name", t.Name).
				Hex64("addr", addr).
				End()
		}
		return 0
	}
	return io.Read32(addr, peek)
}

// Peek32 is a convenience function.
func (t *Table) Peek32(addr uint64) uint32 {
	return t.Read32(addr, true)
}

func (t *Table) Write32(addr uint64, val uint32) {
	io := t.search(addr)
	if io == nil {
		if t.Unmapped != nil {
			t.Unmapped.Write32(addr, val)
			return
		}
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write32").
				String("name", t.Name).
				Hex64("addr", addr).
				Hex32("val", val).
				End()
		}
		return
	}
	io.Write32(addr, val)
}
