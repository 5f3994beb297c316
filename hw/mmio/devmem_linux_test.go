//go:build linux

package mmio_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fftio/hw/mmio"
)

// A regular file stands in for /dev/mem: MAP_SHARED writes land in the file.
func memFile(tb testing.TB, size int64) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "mem")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		tb.Fatal(err)
	}
	return path
}

func TestDevMemRoundTrip(t *testing.T) {
	path := memFile(t, 0x4000)

	w, err := mmio.Open(fftWindow, path)
	if err != nil {
		t.Fatalf("Open(%s) error: %v", path, err)
	}

	lanes := []uint64{0x2000, 0x2008, 0x2010, 0x2018}
	for _, addr := range lanes {
		if err := w.Write32(addr, 524416); err != nil {
			t.Fatalf("Write32(%#x) error: %v", addr, err)
		}
	}
	for _, addr := range lanes {
		got, err := w.Read32(addr)
		if err != nil {
			t.Fatalf("Read32(%#x) error: %v", addr, err)
		}
		if got != 524416 {
			t.Errorf("Read32(%#x) = %d, want 524416", addr, got)
		}
	}
	if err := w.Write32(0x1FFC, 1); !errors.Is(err, mmio.ErrOutOfRange) {
		t.Errorf("Write32(0x1FFC) error = %v, want ErrOutOfRange", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, addr := range lanes {
		if got := binary.NativeEndian.Uint32(buf[addr:]); got != 524416 {
			t.Errorf("file word at %#x = %d, want 524416", addr, got)
		}
	}
}

func TestDevMemUnalignedBase(t *testing.T) {
	path := memFile(t, 0x4000)

	// window base inside a page
	cfg := mmio.Config{Base: 0x2ff0, Length: 0x20}
	w, err := mmio.Open(cfg, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer w.Close()

	if err := w.Write32(0x300c, 0xCAFEF00D); err != nil {
		t.Fatal(err)
	}
	got, err := w.Read32(0x300c)
	if err != nil || got != 0xCAFEF00D {
		t.Errorf("Read32(0x300c) = %#x, %v; want 0xCAFEF00D", got, err)
	}
}

func TestDevMemOpenErrors(t *testing.T) {
	if _, err := mmio.Open(fftWindow, filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want ErrNotExist", err)
	}
	if _, err := mmio.Open(mmio.Config{Base: 0x2001, Length: 4}, "/dev/null"); err == nil {
		t.Errorf("Open with misaligned base should fail")
	}
}
