// Package main implements a CHIP-8 virtual machine.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8vm/beeper"
	"github.com/tuboc/chip8vm/chip8"
	"github.com/tuboc/chip8vm/disasm"
	"github.com/tuboc/chip8vm/emulator"
	"github.com/tuboc/chip8vm/emulator/sdlwindow"
	"github.com/tuboc/chip8vm/statsview"
	"github.com/tuboc/chip8vm/terminal"
	"github.com/tuboc/chip8vm/translate"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

const statsviewHint = statsview.Address

func init() {
	// SDL calls must come from the main thread
	runtime.LockOSThread()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			usageErr.showUsage(os.Stderr)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if opts.version {
		fmt.Printf("chip8vm version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	logger := createLogger(opts.debug, opts.quiet)
	logger.Debug("Message language", log.Stringer("tag", translate.Default().Language()))
	if err := run(app.Context(), logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func run(ctx context.Context, logger *log.Logger, opts options) (rerr error) {
	if opts.statsview {
		statsview.Launch(logger)
	}

	if opts.disasm {
		return printListing(opts.path)
	}

	policy := chip8.Halt
	if opts.skipUnknown {
		policy = chip8.Skip
	}
	c := chip8.New(chip8.Options{
		CyclesPerTick: opts.cycles,
		Seed:          opts.seed,
		UnknownOpcode: policy,
		Trace:         opts.trace,
		Logger:        logger,
	})
	if err := c.LoadFile(opts.path); err != nil {
		return err
	}

	fe, err := newFrontend(opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := fe.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	emuOpts := emulator.Options{
		StepMode:    opts.stepMode,
		Frames:      opts.frames,
		Unthrottled: opts.frontend == frontendHeadless && opts.frames > 0,
		Logger:      logger,
	}
	if opts.wav != "" {
		rec := beeper.NewRecorder(opts.wav, beeper.SampleRate, logger)
		emuOpts.Recorder = rec
		defer func() {
			if err := rec.Close(); err != nil && rerr == nil {
				rerr = err
			}
		}()
	}

	emu := emulator.New(c, fe, emuOpts)
	return emu.Run(ctx)
}

func newFrontend(opts options, logger *log.Logger) (emulator.Frontend, error) {
	switch opts.frontend {
	case frontendTerminal:
		return terminal.New(terminal.Options{
			Sound:  true,
			Logger: logger,
		})
	case frontendHeadless:
		return emulator.NewHeadless(os.Stdout), nil
	default:
		return sdlwindow.New(sdlwindow.Options{
			Scale:   opts.scale,
			Overlay: true,
			Logger:  logger,
		})
	}
}

func printListing(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &chip8.LoadError{Path: path, Err: err}
	}

	listing, err := disasm.Disassemble(b)
	if err != nil {
		return err
	}
	_, err = listing.WriteTo(os.Stdout)
	return err
}
