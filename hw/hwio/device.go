package hwio

import "fftio/log"

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// Device is a BankIO32 implementation that allows manual management of an
// entire range of addresses.
type Device struct {
	Name  string // name of the device (for debugging)
	Size  uint64 // size of the address range, in bytes
	Flags RWFlags

	ReadCb  func(addr uint64) uint32
	PeekCb  func(addr uint64) uint32
	WriteCb func(addr uint64, val uint32)
}

func (d *Device) Read32(addr uint64, peek bool) uint32 {
	if peek {
		if d.PeekCb != nil {
			return d.PeekCb(addr)
		}
		return 0
	}

	switch {
	case d.Flags&WriteOnlyFlag != 0:
		log.ModHwIo.ErrorZ("invalid Read32 from writeonly device").
			String("name", d.Name).
			Hex64("addr", addr).
			End()
		fallthrough
	case d.ReadCb == nil:
		return 0
	}
	return d.ReadCb(addr)
}

func (d *Device) Write32(addr uint64, val uint32) {
	switch {
	case d.Flags&ReadOnlyFlag != 0:
		log.ModHwIo.ErrorZ("invalid Write32 to readonly device").
			String("name", d.Name).
			Hex64("addr", addr).
			End()
		fallthrough
	case d.WriteCb == nil:
		return
	}
	d.WriteCb(addr, val)
}
