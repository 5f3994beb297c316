package mmio

// Open maps the device at path over cfg and returns the window using it.
func Open(cfg Config, path string) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mem, err := OpenDevMem(path, cfg.Base, cfg.Length)
	if err != nil {
		return nil, err
	}
	return New(cfg, mem)
}

// OpenSim returns a window over simulated memory, along with the simulator
// to inspect it.
func OpenSim(cfg Config) (*Window, *Sim, error) {
	sim, err := NewSim(cfg)
	if err != nil {
		return nil, nil, err
	}
	w, err := New(cfg, sim)
	if err != nil {
		return nil, nil, err
	}
	return w, sim, nil
}
