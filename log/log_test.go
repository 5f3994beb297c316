package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		DisableDebugModules(ModuleMaskAll)
	})
	return buf
}

func TestDebugNeedsModuleEnabled(t *testing.T) {
	buf := captureOutput(t)

	ModMMIO.DebugZ("store").Hex64("addr", 0x2000).End()
	if buf.Len() != 0 {
		t.Fatalf("debug log written with module disabled: %q", buf.String())
	}

	EnableDebugModules(ModMMIO.Mask())
	ModMMIO.DebugZ("store").Hex64("addr", 0x2000).Hex32("val", 524416).End()

	out := buf.String()
	for _, want := range []string{"_mod=mmio", "addr=0000000000002000", "val=00080080", "level=debug"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q doesn't contain %q", out, want)
		}
	}
}

func TestWarningsAlwaysOn(t *testing.T) {
	buf := captureOutput(t)

	ModHwIo.WarnZ("dropped").Error("err", errors.New("boom")).String("bus", "sim").End()

	out := buf.String()
	for _, want := range []string{"level=warning", "err=boom", "bus=sim", "_mod=hwio"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q doesn't contain %q", out, want)
		}
	}
}

func TestNilEntryZ(t *testing.T) {
	var z *EntryZ
	z.String("a", "b").Hex32("c", 1).Bool("d", true).End()
}

func TestModuleByName(t *testing.T) {
	for _, name := range ModuleNames() {
		mod, ok := ModuleByName(name)
		if !ok {
			t.Fatalf("ModuleByName(%q) not found", name)
		}
		if mod.String() != name {
			t.Errorf("ModuleByName(%q).String() = %q", name, mod.String())
		}
	}
	if _, ok := ModuleByName("<error>"); ok {
		t.Errorf("ModuleByName(<error>) should fail")
	}
	if _, ok := ModuleByName("nope"); ok {
		t.Errorf("ModuleByName(nope) should fail")
	}
}

func TestZFieldValue(t *testing.T) {
	tests := []struct {
		f    ZField
		want string
	}{
		{ZField{Type: FieldTypeHex8, Integer: 0xa}, "0a"},
		{ZField{Type: FieldTypeHex16, Integer: 0x2000}, "2000"},
		{ZField{Type: FieldTypeHex32, Integer: 0x80080}, "00080080"},
		{ZField{Type: FieldTypeUint, Integer: 42}, "42"},
		{ZField{Type: FieldTypeBool, Boolean: true}, "true"},
		{ZField{Type: FieldTypeError}, "<nil>"},
	}
	for _, tt := range tests {
		if got := tt.f.Value(); got != tt.want {
			t.Errorf("Value() = %q, want %q", got, tt.want)
		}
	}
}
