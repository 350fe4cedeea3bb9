// Package emulator drives the interpreter at the display refresh rate and
// connects it to a frontend that presents the display, plays the beeper and
// supplies the keypad state.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8vm/beeper"
	"github.com/tuboc/chip8vm/chip8"
)

const VBlankFrequency = chip8.TickFrequency

// Frontend is the host side of the emulator.
type Frontend interface {
	// Present shows the current display and machine state.
	Present(c *chip8.Chip8) error
	// Poll updates the controls from pending host events.
	Poll(ctl *Controls)
	// SetSound switches the beeper.
	SetSound(on bool)
	Close() error
}

// Controls is the state a frontend reports back to the driving loop. Keys
// persist between polls; Step and Reset are consumed once handled.
type Controls struct {
	Keys chip8.Keys

	Quit    bool
	Focused bool
	Step    bool
	Resume  bool
	Reset   bool
}

// Options configures the driving loop.
type Options struct {
	// StepMode starts the emulator halted, advancing one instruction per
	// Step request.
	StepMode bool

	// Frames ends the run after the given number of frames, 0 runs until
	// the frontend quits or the context is cancelled.
	Frames int

	// Unthrottled runs frames back to back instead of at VBlankFrequency.
	Unthrottled bool

	// Recorder receives the beeper state of every frame.
	Recorder *beeper.Recorder

	Logger *log.Logger
}

type Emulator struct {
	chip8    *chip8.Chip8
	frontend Frontend
	options  Options
	logger   *log.Logger
	controls Controls
	stepMode bool
	frame    int
}

func New(c *chip8.Chip8, fe Frontend, opts Options) *Emulator {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}

	return &Emulator{
		chip8:    c,
		frontend: fe,
		options:  opts,
		logger:   logger,
		controls: Controls{Focused: true},
		stepMode: opts.StepMode,
	}
}

var errStop = errors.New("stop")

// Run executes frames until the frontend quits, the frame limit is reached
// or the context is cancelled. An interpreter fault ends the run and is
// returned.
func (e *Emulator) Run(ctx context.Context) error {
	defer e.frontend.SetSound(false)

	if e.options.Unthrottled {
		for {
			if err := ctx.Err(); err != nil {
				return nil
			}
			if err := e.runFrame(); err != nil {
				return e.finish(err)
			}
		}
	}

	ticker := time.NewTicker(time.Second / VBlankFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := e.runFrame(); err != nil {
				return e.finish(err)
			}
		}
	}
}

func (e *Emulator) finish(err error) error {
	if errors.Is(err, errStop) {
		return nil
	}

	for _, s := range e.chip8.History() {
		e.logger.Debug("History", log.String("instruction", s))
	}
	return err
}

func (e *Emulator) runFrame() error {
	ctl := &e.controls
	e.frontend.Poll(ctl)
	if ctl.Quit {
		return errStop
	}

	if ctl.Reset {
		ctl.Reset = false
		e.chip8.Reset()
		e.logger.Info("Reset")
	}

	if ctl.Resume {
		ctl.Resume = false
		e.stepMode = false
	}

	var err error
	switch {
	case ctl.Step:
		ctl.Step = false
		if e.stepMode {
			e.chip8.SetKeys(ctl.Keys)
			err = e.chip8.Step()
		} else {
			e.stepMode = true
		}

	case ctl.Focused && !e.stepMode:
		err = e.chip8.Tick(ctl.Keys)
	}
	if err != nil {
		return fmt.Errorf("frame %d: %w", e.frame, err)
	}

	sound := ctl.Focused && !e.stepMode && e.chip8.SoundActive()
	e.frontend.SetSound(sound)
	if e.options.Recorder != nil {
		e.options.Recorder.Tick(sound)
	}

	if err := e.frontend.Present(e.chip8); err != nil {
		return fmt.Errorf("presenting frame %d: %w", e.frame, err)
	}

	e.frame++
	if e.options.Frames > 0 && e.frame >= e.options.Frames {
		return errStop
	}
	return nil
}

// Frames is the number of frames presented.
func (e *Emulator) Frames() int {
	return e.frame
}

// StepMode reports whether execution is halted waiting for step requests.
func (e *Emulator) StepMode() bool {
	return e.stepMode
}
