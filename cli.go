package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"fftio/log"
)

type mode byte

const (
	readMode    mode = iota // Read one register
	writeMode               // Write one register
	dumpMode                // Read a range of registers
	smokeMode               // Run the FFT lane smoke test
	scriptMode              // Run a Lua register script
	versionMode             // Show fftio version
)

type (
	CLI struct {
		Read    Read    `cmd:"" help:"Read a register."`
		Write   Write   `cmd:"" help:"Write a register."`
		Dump    Dump    `cmd:"" help:"Read every register in a range."`
		Smoke   Smoke   `cmd:"" help:"Write 1+1i to the four FFT write lanes."`
		Script  Script  `cmd:"" help:"Run a Lua register script."`
		Version Version `cmd:"" help:"Show fftio version."`

		Config string     `name:"config" help:"${config_help}" type:"existingfile" placeholder:"FILE"`
		Sim    bool       `name:"sim" help:"Use simulated memory instead of the configured backend."`
		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Read struct {
		Addr hexUint `arg:"" name:"addr" help:"Register address."`
	}

	Write struct {
		Addr  hexUint `arg:"" name:"addr" help:"Register address."`
		Value hexUint `arg:"" name:"value" help:"32-bit value."`
	}

	Dump struct {
		Begin hexUint `arg:"" name:"begin" help:"First register address."`
		End   hexUint `arg:"" name:"end" help:"Last register address (inclusive)."`
		JSON  bool    `name:"json" help:"Output a JSON array."`
	}

	Smoke struct {
		ReadBack bool `name:"readback" help:"Print the FFT read lanes afterwards."`
	}

	Script struct {
		Path string `arg:"" name:"/path/to/script.lua" type:"existingfile"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help": "Configuration file. (default: fftio/config.toml in the user config directory)",
	"log_help":    "Enable logging for specified modules.",
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("fftio"),
		kong.Description("Register access tool for the FFT accelerator lanes."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
}

func parseArgs(args []string) CLI {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	cli.mode = commandMode(ctx.Command())
	return cli
}

func commandMode(cmd string) mode {
	name, _, _ := strings.Cut(cmd, " ")
	switch name {
	case "read":
		return readMode
	case "write":
		return writeMode
	case "dump":
		return dumpMode
	case "smoke":
		return smokeMode
	case "script":
		return scriptMode
	}
	return versionMode
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}

	loggingHelp := `
Addresses and values:
  Decimal, or hexadecimal with a 0x prefix.

Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

// hexUint is an unsigned integer given in decimal or 0x-prefixed hex.
type hexUint uint64

// Decode implements kong.MapperValue interface.
func (h *hexUint) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	s, ok := tok.Value.(string)
	if !ok {
		return fmt.Errorf("expected a number, got %v", tok)
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*h = hexUint(v)
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	s, ok := tok.Value.(string)
	if !ok {
		return fmt.Errorf("expected a list of log modules, got %v", tok)
	}

	var mask logModMask
	for _, v := range strings.Split(s, ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			mask |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		mask = logModMask(log.ModuleMaskAll)
	}

	*lm = mask
	log.EnableDebugModules(log.ModuleMask(mask))
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf("%s.\n\t%s", fmt.Sprintf(format, args...), err)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
