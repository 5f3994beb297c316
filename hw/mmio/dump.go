package mmio

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// Reader32 is implemented by Window.
type Reader32 interface {
	Read32(addr uint64) (uint32, error)
}

// Word is a register address and the value read from it.
type Word struct {
	Addr  uint64
	Value uint32
}

// ReadRange reads every word in the inclusive range [begin, end], stopping
// at the first failed access.
func ReadRange(r Reader32, begin, end uint64) ([]Word, error) {
	if begin > end {
		return nil, fmt.Errorf("invalid range [%#x, %#x]", begin, end)
	}

	var words []Word
	for addr := begin; ; addr += 4 {
		val, err := r.Read32(addr)
		if err != nil {
			return words, err
		}
		words = append(words, Word{Addr: addr, Value: val})
		if end-addr < 4 {
			break
		}
	}
	return words, nil
}

// DumpText writes one "addr: value" line per word, in hex.
func DumpText(w io.Writer, words []Word) error {
	for _, wd := range words {
		if _, err := fmt.Fprintf(w, "%x: %08x\n", wd.Addr, wd.Value); err != nil {
			return err
		}
	}
	return nil
}

// DumpJSON writes words as a JSON array of {"addr", "value"} objects.
// Addresses are hex strings, values are numbers.
func DumpJSON(w io.Writer, words []Word) error {
	var e jx.Encoder
	e.ArrStart()
	for _, wd := range words {
		e.ObjStart()
		e.FieldStart("addr")
		e.Str(fmt.Sprintf("%#x", wd.Addr))
		e.FieldStart("value")
		e.UInt32(wd.Value)
		e.ObjEnd()
	}
	e.ArrEnd()

	buf := append(e.Bytes(), '\n')
	_, err := w.Write(buf)
	return err
}
