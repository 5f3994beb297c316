package mmio_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"

	"fftio/hw/mmio"
)

func TestReadRange(t *testing.T) {
	w, _ := openSim(t)
	w.Write32(0x2000, 1)
	w.Write32(0x2004, 2)
	w.Write32(0x2008, 3)

	words, err := mmio.ReadRange(w, 0x2000, 0x2008)
	if err != nil {
		t.Fatal(err)
	}
	want := []mmio.Word{{0x2000, 1}, {0x2004, 2}, {0x2008, 3}}
	if diff := cmp.Diff(want, words); diff != "" {
		t.Errorf("ReadRange mismatch (-want +got):\n%s", diff)
	}

	// the last word of the window, accessed through an unaligned end
	words, err = mmio.ReadRange(w, 0x2118, 0x211B)
	if err != nil || len(words) != 1 {
		t.Errorf("ReadRange(0x2118, 0x211B) = %v, %v; want 1 word", words, err)
	}

	if _, err := mmio.ReadRange(w, 0x2110, 0x2120); !errors.Is(err, mmio.ErrOutOfRange) {
		t.Errorf("ReadRange past the window error = %v, want ErrOutOfRange", err)
	}
	if _, err := mmio.ReadRange(w, 0x2008, 0x2000); err == nil {
		t.Errorf("ReadRange with inverted range should fail")
	}
}

func TestDumpText(t *testing.T) {
	var buf bytes.Buffer
	err := mmio.DumpText(&buf, []mmio.Word{{0x2000, 524416}, {0x2004, 0}})
	if err != nil {
		t.Fatal(err)
	}

	const want = "2000: 00080080\n2004: 00000000\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("DumpText mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpJSON(t *testing.T) {
	words := []mmio.Word{{0x2000, 524416}, {0x2100, 7}}

	var buf bytes.Buffer
	if err := mmio.DumpJSON(&buf, words); err != nil {
		t.Fatal(err)
	}

	type entry struct {
		Addr  string
		Value uint32
	}
	var got []entry
	err := jx.DecodeBytes(buf.Bytes()).Arr(func(d *jx.Decoder) error {
		var e entry
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "addr":
				e.Addr, err = d.Str()
			case "value":
				e.Value, err = d.UInt32()
			default:
				err = d.Skip()
			}
			return err
		})
		got = append(got, e)
		return err
	})
	if err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	want := []entry{{"0x2000", 524416}, {"0x2100", 7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DumpJSON mismatch (-want +got):\n%s", diff)
	}
}
