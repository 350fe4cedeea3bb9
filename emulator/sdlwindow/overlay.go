package sdlwindow

import (
	"fmt"
	"image"
	"image/color"

	"github.com/tuboc/chip8vm/chip8"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	FontW = 7
	FontH = 13
)

// overlayText lays out the debug information shown below the display: the
// instruction history on the left, registers in the middle, timers and keypad
// state on the right.
func overlayText(c *chip8.Chip8, keys chip8.Keys) [][3]string {
	lines := make([][3]string, chip8.HistoryLength)

	for i, s := range c.History() {
		lines[i][0] = s
	}

	r := c.Registers()
	for i, v := range r.V {
		lines[i][1] = fmt.Sprintf("V%X = %02X", i, v)
	}

	lines[0][2] = fmt.Sprintf("DT = %02X", r.DT)
	lines[1][2] = fmt.Sprintf("ST = %02X", r.ST)
	lines[2][2] = fmt.Sprintf("SP = %02X", r.SP)
	lines[3][2] = fmt.Sprintf(" I = %03X", r.I)
	lines[4][2] = fmt.Sprintf("PC = %03X", r.PC)

	k := func(key uint8) byte {
		if keys.Held(key) {
			return '1'
		}
		return '0'
	}
	lines[6][2] = fmt.Sprintf("KEYS %c%c%c%c", k(0x1), k(0x2), k(0x3), k(0xc))
	lines[7][2] = fmt.Sprintf("     %c%c%c%c", k(0x4), k(0x5), k(0x6), k(0xd))
	lines[8][2] = fmt.Sprintf("     %c%c%c%c", k(0x7), k(0x8), k(0x9), k(0xe))
	lines[9][2] = fmt.Sprintf("     %c%c%c%c", k(0xa), k(0x0), k(0xb), k(0xf))
	if r.WaitingKey {
		lines[11][2] = "WAIT KEY"
	}

	return lines
}

// rasterize draws the overlay text into a grayscale image of the given
// size, columns spread evenly across the width.
func rasterize(lines [][3]string, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Gray{Y: 0xff}),
		Face: basicfont.Face7x13,
	}

	columns := [3]int{0, w / 2, w - 9*FontW - FontW}
	for row, line := range lines {
		for col, s := range line {
			if s == "" {
				continue
			}
			d.Dot = fixed.P(columns[col]+2, (row+1)*FontH)
			d.DrawString(s)
		}
	}
	return dst
}
