// Package terminal implements a text mode frontend. The display is drawn
// with half block characters and the keyboard is read from a raw mode
// terminal.
//
// Terminals report key presses only, so a pressed key is held for a few
// frames and released unless the terminal repeats it.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8vm/beeper"
	"github.com/tuboc/chip8vm/chip8"
	"github.com/tuboc/chip8vm/emulator"
	"golang.org/x/term"
)

const (
	// HoldFrames is how long a key stays held after its last press.
	HoldFrames = 8

	keyCtrlC = 0x03
	keyCtrlR = 0x12
	keyEsc   = 0x1b
)

// physical 1234/QWER/ASDF/ZXCV to the logical 123C/456D/789E/A0BF keypad
var byte2Key = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// Options configures the terminal frontend.
type Options struct {
	In  *os.File
	Out io.Writer

	// Sound enables the beeper through the system audio device.
	Sound bool

	Logger *log.Logger
}

type Terminal struct {
	out    io.Writer
	logger *log.Logger
	player *beeper.Player

	fd       int
	oldState *term.State

	input   chan byte
	hold    [chip8.KeyCount]int
	stopped sync.Once
}

// New switches the input terminal to raw mode and starts reading keys.
func New(opts Options) (*Terminal, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}

	fd := int(opts.In.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("terminal frontend: input is not a terminal")
	}

	if w, h, err := term.GetSize(fd); err == nil && (w < Columns || h < Rows) {
		logger.Warn("Terminal too small for the display",
			log.Int("columns", w), log.Int("rows", h))
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}

	t := newTerminal(opts.In, opts.Out, logger)
	t.fd = fd
	t.oldState = oldState

	if opts.Sound {
		t.player, err = beeper.NewPlayer(beeper.SampleRate)
		if err != nil {
			logger.Warn("Audio disabled", log.Err(err))
		}
	}

	_, _ = io.WriteString(t.out, clearScreen+hideCursor)
	return t, nil
}

func newTerminal(in io.Reader, out io.Writer, logger *log.Logger) *Terminal {
	t := &Terminal{
		out:    out,
		logger: logger,
		input:  make(chan byte, 64),
	}
	go t.read(in)
	return t
}

// read forwards input bytes until the reader fails. The goroutine stays
// blocked in Read after Close until the process exits.
func (t *Terminal) read(in io.Reader) {
	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			t.input <- b
		}
		if err != nil {
			close(t.input)
			return
		}
	}
}

func (t *Terminal) Present(c *chip8.Chip8) error {
	if _, err := io.WriteString(t.out, Render(c.Display())); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	return nil
}

func (t *Terminal) Poll(ctl *emulator.Controls) {
	for i := range t.hold {
		if t.hold[i] > 0 {
			t.hold[i]--
		}
	}

	for done := false; !done; {
		select {
		case b, ok := <-t.input:
			if !ok {
				ctl.Quit = true
				done = true
				break
			}
			t.handleByte(b, ctl)
		default:
			done = true
		}
	}

	for i := range t.hold {
		ctl.Keys[i] = t.hold[i] > 0
	}
}

func (t *Terminal) handleByte(b byte, ctl *emulator.Controls) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	if key, ok := byte2Key[b]; ok {
		t.hold[key] = HoldFrames
		return
	}

	switch b {
	case ' ':
		ctl.Step = true
	case '\r', '\n':
		ctl.Resume = true
	case keyCtrlR:
		ctl.Reset = true
	case keyCtrlC, keyEsc:
		ctl.Quit = true
	}
}

func (t *Terminal) SetSound(on bool) {
	if t.player != nil {
		t.player.SetActive(on)
	}
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	var err error
	t.stopped.Do(func() {
		_, _ = io.WriteString(t.out, showCursor+"\r\n")
		if t.player != nil {
			if perr := t.player.Close(); perr != nil {
				t.logger.Warn("Closing audio failed", log.Err(perr))
			}
		}
		if t.oldState != nil {
			err = term.Restore(t.fd, t.oldState)
		}
	})
	return err
}
