package chip8

import "strings"

const (
	Width  = 64
	Height = 32
)

// Display is the monochrome framebuffer, indexed x + y*Width.
type Display struct {
	pixels [Width * Height]bool
}

func (d *Display) Clear() {
	d.pixels = [Width * Height]bool{}
}

func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d.pixels[y*Width+x]
}

// Draw XORs an 8 pixel wide sprite onto the surface with its top left corner
// at (x, y). Pixels falling off the right or bottom edge are dropped. It
// returns true if any lit pixel was erased.
func (d *Display) Draw(x, y int, rows []uint8) bool {
	erased := false
	for iy, row := range rows {
		ty := y + iy
		if ty >= Height {
			break
		}
		for ix := 0; ix < 8; ix++ {
			tx := x + ix
			if tx >= Width {
				break
			}
			if (row>>(7-ix))&0x01 == 0 {
				continue
			}

			p := &d.pixels[ty*Width+tx]
			if *p {
				erased = true
			}
			*p = !*p
		}
	}
	return erased
}

// Lit counts the lit pixels.
func (d *Display) Lit() int {
	n := 0
	for _, p := range d.pixels {
		if p {
			n++
		}
	}
	return n
}

// String renders the surface as text, '#' for lit and '.' for unlit pixels.
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if d.pixels[y*Width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
