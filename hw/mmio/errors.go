package mmio

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange  = errors.New("address out of range")
	ErrMisaligned  = errors.New("address not 4-byte aligned")
	ErrClosed      = errors.New("window closed")
	ErrUnsupported = errors.New("physical memory mapping not supported on this platform")
)

// AccessError records a rejected register access.
type AccessError struct {
	Op   string // "read32" or "write32"
	Addr uint64
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %#x: %v", e.Op, e.Addr, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }
