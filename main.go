package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"runtime/debug"

	"fftio/config"
	"fftio/hw/fft"
	"fftio/hw/mmio"
	"fftio/log"
	"fftio/script"
)

func main() {
	cli := parseArgs(os.Args[1:])
	if err := run(cli, os.Stdout); err != nil {
		fatalf("%s", err)
	}
}

// run executes the selected command. The register window is unmapped before
// run returns, whatever the outcome.
func run(cli CLI, out io.Writer) (err error) {
	if cli.mode == versionMode {
		fmt.Fprintln(out, "fftio", version())
		return nil
	}

	cfg, err := config.LoadOrDefault(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cli.Sim {
		cfg.Backend.Kind = config.KindSim
	}

	w, err := cfg.Open()
	if err != nil {
		return fmt.Errorf("failed to map register window %v: %w", cfg.MMIO(), err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to unmap register window: %w", cerr))
		}
	}()

	log.ModCLI.DebugZ("window ready").
		Stringer("window", w).
		String("backend", cfg.Backend.Kind).
		End()

	switch cli.mode {
	case readMode:
		return readMain(w, cli.Read, out)
	case writeMode:
		return writeMain(w, cli.Write)
	case dumpMode:
		return dumpMain(w, cli.Dump, out)
	case smokeMode:
		return smokeMain(w, cli.Smoke, out)
	case scriptMode:
		return scriptMain(w, cli.Script)
	}
	return fmt.Errorf("unknown command mode %d", cli.mode)
}

func readMain(w *mmio.Window, args Read, out io.Writer) error {
	val, err := w.Read32(uint64(args.Addr))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%x: %08x\n", uint64(args.Addr), val)
	return nil
}

func writeMain(w *mmio.Window, args Write) error {
	if args.Value > math.MaxUint32 {
		return fmt.Errorf("value %#x doesn't fit in 32 bits", uint64(args.Value))
	}
	return w.Write32(uint64(args.Addr), uint32(args.Value))
}

func dumpMain(w *mmio.Window, args Dump, out io.Writer) error {
	words, err := mmio.ReadRange(w, uint64(args.Begin), uint64(args.End))
	if err != nil {
		return err
	}
	if args.JSON {
		return mmio.DumpJSON(out, words)
	}
	return mmio.DumpText(out, words)
}

func smokeMain(w *mmio.Window, args Smoke, out io.Writer) error {
	if err := fft.Smoke(w); err != nil {
		return fmt.Errorf("smoke test failed: %w", err)
	}
	if !args.ReadBack {
		return nil
	}

	vals, err := fft.ReadBack(w)
	if err != nil {
		return err
	}
	for n, val := range vals {
		re, im := fft.Unpack(val)
		fmt.Fprintf(out, "lane %d: %08x (%g%+gi)\n", n, val, re, im)
	}
	return nil
}

func scriptMain(w *mmio.Window, args Script) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return script.RunFile(ctx, w, args.Path)
}

func version() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "devel"
}
