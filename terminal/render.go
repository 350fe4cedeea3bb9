package terminal

import (
	"strings"

	"github.com/tuboc/chip8vm/chip8"
)

const (
	Columns = chip8.Width
	Rows    = chip8.Height / 2

	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// half blocks indexed by top | bottom<<1
var blocks = [4]string{" ", "▀", "▄", "█"}

// Render draws the display with one character cell per two pixel rows.
// Lines end in CRLF as the terminal is in raw mode.
func Render(d *chip8.Display) string {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + Rows*(Columns*3+2))
	sb.WriteString(cursorHome)

	for row := 0; row < Rows; row++ {
		for x := 0; x < Columns; x++ {
			i := 0
			if d.Pixel(x, 2*row) {
				i |= 1
			}
			if d.Pixel(x, 2*row+1) {
				i |= 2
			}
			sb.WriteString(blocks[i])
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
