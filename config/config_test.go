package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	if err := Default.Validate(); err != nil {
		t.Fatalf("Default.Validate() = %v", err)
	}

	mc := Default.MMIO()
	if mc.Base != 0x2000 || mc.End() != 0x211C {
		t.Errorf("Default window = %v, want [0x2000, 0x211c)", mc)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Config // nil for decoding errors
	}{
		{
			name: "empty",
			text: "",
			want: &Default,
		},
		{
			name: "hex",
			text: `
[window]
base = 0x40000000
length = 0x1000

[backend]
kind = "sim"
`,
			want: &Config{
				Window:  WindowConfig{Base: 0x40000000, Length: 0x1000},
				Backend: BackendConfig{Kind: KindSim, Device: "/dev/mem"},
			},
		},
		{
			name: "device only",
			text: "[backend]\ndevice = \"/dev/uio0\"\n",
			want: &Config{
				Window:  Default.Window,
				Backend: BackendConfig{Kind: KindDevMem, Device: "/dev/uio0"},
			},
		},

		// errors
		{name: "misaligned base", text: "[window]\nbase = 0x2001\n"},
		{name: "zero length", text: "[window]\nlength = 0\n"},
		{name: "unknown backend", text: "[backend]\nkind = \"pci\"\n"},
		{name: "no device", text: "[backend]\ndevice = \"\"\n"},
		{name: "unknown key", text: "[window]\nsize = 4\n"},
		{name: "syntax", text: "[window\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.text))
			if err != nil {
				if tt.want != nil {
					t.Fatalf("Decode error: %v", err)
				}
				t.Log("Decode error:", err)
				return
			}
			if tt.want == nil {
				t.Fatalf("Decode should have failed, got %+v", cfg)
			}
			if diff := cmp.Diff(*tt.want, cfg); diff != "" {
				t.Errorf("Decode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", cfgFilename)

	want := Default
	want.Window.Base = 0x10000
	want.Backend.Kind = KindSim
	if err := Save(path, want); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault without config file: %v", err)
	}
	if diff := cmp.Diff(Default, cfg); diff != "" {
		t.Errorf("LoadOrDefault mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadOrDefault(missing) error = %v, want ErrNotExist", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[backend]\nkind = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(bad); err == nil {
		t.Errorf("LoadOrDefault(bad) should fail")
	}
}

func TestOpenSim(t *testing.T) {
	cfg := Default
	cfg.Backend.Kind = KindSim

	w, err := cfg.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Write32(0x2118, 42); err != nil {
		t.Fatal(err)
	}
	if v, err := w.Read32(0x2118); err != nil || v != 42 {
		t.Errorf("Read32(0x2118) = %d, %v; want 42", v, err)
	}
}
