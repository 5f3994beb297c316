//go:build linux

package mmio

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"fftio/log"
)

// DevMem is a Backing over a shared mapping of a memory device, /dev/mem for
// physical registers. The descriptor is opened O_SYNC so that the kernel maps
// the span uncached.
type DevMem struct {
	path  string
	fd    int
	data  []byte // whole mapping, starts on a page boundary
	delta uint64 // offset of the window base within data
}

// OpenDevMem maps the pages of path covering [base, base+length).
func OpenDevMem(path string, base, length uint64) (*DevMem, error) {
	pagesz := uint64(unix.Getpagesize())
	pgbase := base &^ (pagesz - 1)
	delta := base - pgbase
	maplen := (delta + length + pagesz - 1) &^ (pagesz - 1)
	if length == 0 || maplen < length || maplen > math.MaxInt || pgbase > math.MaxInt64 {
		return nil, fmt.Errorf("cannot map %d bytes at %#x", length, base)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	data, err := unix.Mmap(fd, int64(pgbase), int(maplen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap %s at %#x: %w", path, pgbase, err)
	}

	log.ModMMIO.DebugZ("mapped device").
		String("path", path).
		Hex64("page", pgbase).
		Uint("size", maplen).
		End()

	return &DevMem{path: path, fd: fd, data: data, delta: delta}, nil
}

func (m *DevMem) word(off uint64) *uint32 {
	return (*uint32)(unsafe.Pointer(&m.data[m.delta+off]))
}

func (m *DevMem) Load32(off uint64) uint32 {
	return atomic.LoadUint32(m.word(off))
}

func (m *DevMem) Store32(off uint64, val uint32) {
	atomic.StoreUint32(m.word(off), val)
}

// Close unmaps the span and closes the device.
func (m *DevMem) Close() error {
	if m.data == nil {
		return nil
	}

	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		err = fmt.Errorf("munmap %s: %w", m.path, err)
	}
	return errors.Join(err, unix.Close(m.fd))
}
