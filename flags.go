package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/tuboc/chip8vm/chip8"
	"github.com/tuboc/chip8vm/emulator/sdlwindow"
)

const (
	frontendSDL      = "sdl"
	frontendTerminal = "terminal"
	frontendHeadless = "headless"
)

var frontends = []string{frontendSDL, frontendTerminal, frontendHeadless}

type options struct {
	path string

	stepMode    bool
	cycles      int
	seed        uint64
	skipUnknown bool

	frontend string
	frames   int
	scale    int
	wav      string

	disasm    bool
	trace     bool
	debug     bool
	quiet     bool
	version   bool
	statsview bool
}

// usageError is returned for malformed command lines.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) showUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: chip8vm [options] <program file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
}

func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options
	flags.BoolVar(&opts.stepMode, "s", false, "start in step mode, Space steps and Return resumes")
	flags.IntVar(&opts.cycles, "cycles", chip8.DefaultCyclesPerTick, "instructions executed per 60Hz tick")
	flags.Uint64Var(&opts.seed, "seed", 0, "random number generator seed, 0 seeds from the clock")
	flags.BoolVar(&opts.skipUnknown, "skip-unknown", false, "skip unknown opcodes instead of halting")
	flags.StringVar(&opts.frontend, "frontend", frontendSDL, "frontend to use ("+strings.Join(frontends, "/")+")")
	flags.IntVar(&opts.frames, "frames", 0, "stop after the given number of frames, 0 runs until quit")
	flags.IntVar(&opts.scale, "scale", sdlwindow.DefaultScale, "window pixels per display pixel")
	flags.StringVar(&opts.wav, "wav", "", "record the beeper to the given WAV file")
	flags.BoolVar(&opts.disasm, "disasm", false, "print a disassembly of the program and exit")
	flags.BoolVar(&opts.trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.quiet, "quiet", false, "only log errors")
	flags.BoolVar(&opts.version, "version", false, "print the version and exit")
	flags.BoolVar(&opts.statsview, "statsview", false, "serve runtime statistics on "+statsviewHint)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &usageError{flags: flags}
		}
		return opts, &usageError{flags: flags, msg: err.Error()}
	}
	if opts.version {
		return opts, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &usageError{flags: flags, msg: "missing program file"}
	case len(rest) > 1:
		return opts, &usageError{flags: flags, msg: fmt.Sprintf("unexpected arguments after program file: %s", strings.Join(rest[1:], " "))}
	}
	opts.path = rest[0]

	if opts.trace {
		opts.debug = true
	}
	if opts.cycles <= 0 {
		return opts, &usageError{flags: flags, msg: "cycles must be positive"}
	}
	if opts.scale <= 0 {
		return opts, &usageError{flags: flags, msg: "scale must be positive"}
	}
	if opts.frames < 0 {
		return opts, &usageError{flags: flags, msg: "frames must not be negative"}
	}

	opts.frontend = strings.ToLower(opts.frontend)
	for _, valid := range frontends {
		if opts.frontend == valid {
			return opts, nil
		}
	}
	return opts, &usageError{flags: flags, msg: fmt.Sprintf("unsupported frontend: %s", opts.frontend)}
}
