//go:build !linux

package mmio

// DevMem is only available on Linux.
type DevMem struct{}

func OpenDevMem(path string, base, length uint64) (*DevMem, error) {
	return nil, ErrUnsupported
}

func (*DevMem) Load32(uint64) uint32  { return 0 }
func (*DevMem) Store32(uint64, uint32) {}
func (*DevMem) Close() error           { return nil }
