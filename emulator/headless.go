package emulator

import (
	"fmt"
	"io"

	"github.com/tuboc/chip8vm/chip8"
)

// Headless is a frontend without a window. It keeps the last presented
// display and writes it as text when closed.
type Headless struct {
	// Script, if set, is called on every poll with the number of the
	// upcoming frame and can press keys or request actions.
	Script func(frame int, ctl *Controls)

	w         io.Writer
	frame     int
	display   string
	registers chip8.Registers
	beeps     int
}

func NewHeadless(w io.Writer) *Headless {
	return &Headless{w: w}
}

func (h *Headless) Present(c *chip8.Chip8) error {
	h.display = c.Display().String()
	h.registers = c.Registers()
	h.frame++
	return nil
}

func (h *Headless) Poll(ctl *Controls) {
	if h.Script != nil {
		h.Script(h.frame, ctl)
	}
}

func (h *Headless) SetSound(on bool) {
	if on {
		h.beeps++
	}
}

// Display is the text rendering of the last presented frame.
func (h *Headless) Display() string {
	return h.display
}

// Beeps is the number of frames the beeper was on.
func (h *Headless) Beeps() int {
	return h.beeps
}

func (h *Headless) Close() error {
	if h.w == nil || h.display == "" {
		return nil
	}
	r := h.registers
	if _, err := fmt.Fprintf(h.w, "%sframes=%d pc=%03X i=%03X\n", h.display, h.frame, r.PC, r.I); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	return nil
}
