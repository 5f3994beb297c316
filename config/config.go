// Package config loads the fftio configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"fftio/hw/mmio"
	"fftio/log"
)

// Backend kinds.
const (
	KindDevMem = "devmem" // mmap of a memory device
	KindSim    = "sim"    // simulated memory
)

type WindowConfig struct {
	Base   uint64 `toml:"base"`
	Length uint64 `toml:"length"`
}

type BackendConfig struct {
	Kind   string `toml:"kind"`
	Device string `toml:"device"`
}

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Backend BackendConfig `toml:"backend"`
}

// Default covers the FFT lane registers, from write lane 0 through the last
// read lane.
var Default = Config{
	Window: WindowConfig{
		Base:   0x2000,
		Length: 0x2118 + 4 - 0x2000,
	},
	Backend: BackendConfig{
		Kind:   KindDevMem,
		Device: "/dev/mem",
	},
}

const (
	cfgDirname  = "fftio"
	cfgFilename = "config.toml"
)

// DefaultPath returns the path of the configuration file in the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cfgDirname, cfgFilename), nil
}

// Decode reads a configuration from r. Keys missing from r keep their
// default value; unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	log.ModConfig.DebugZ("config loaded").
		String("path", path).
		Hex64("base", cfg.Window.Base).
		Hex64("length", cfg.Window.Length).
		String("backend", cfg.Backend.Kind).
		End()
	return cfg, nil
}

// LoadOrDefault loads the configuration at path, or at DefaultPath if path
// is empty. A missing file at the default path yields Default.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}

	path, err := DefaultPath()
	if err != nil {
		return Default, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default, nil
	}
	return cfg, err
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

func (c Config) Validate() error {
	if err := c.MMIO().Validate(); err != nil {
		return err
	}
	switch c.Backend.Kind {
	case KindSim:
	case KindDevMem:
		if c.Backend.Device == "" {
			return fmt.Errorf("backend %q needs a device", c.Backend.Kind)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend.Kind)
	}
	return nil
}

// MMIO returns the register window described by c.
func (c Config) MMIO() mmio.Config {
	return mmio.Config{Base: c.Window.Base, Length: c.Window.Length}
}

// Open maps the window with the configured backend.
func (c Config) Open() (*mmio.Window, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Backend.Kind == KindSim {
		w, _, err := mmio.OpenSim(c.MMIO())
		return w, err
	}
	return mmio.Open(c.MMIO(), c.Backend.Device)
}
