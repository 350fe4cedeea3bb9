package sdlwindow

import (
	"testing"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuboc/chip8vm/chip8"
)

func TestOverlay(t *testing.T) {
	c := chip8.New(chip8.Options{Logger: log.NewTestLogger(t)})
	require.NoError(t, c.Load([]byte{0x60, 0x2A, 0xA1, 0x23}))
	require.NoError(t, c.Step())
	require.NoError(t, c.Step())

	var keys chip8.Keys
	keys[0xc] = true
	lines := overlayText(c, keys)
	require.Len(t, lines, chip8.HistoryLength)

	assert.Equal(t, "200-602A LD   V0,#2A", lines[0][0])
	assert.Equal(t, "202-A123 LD   I,#123", lines[1][0])
	assert.Equal(t, "V0 = 2A", lines[0][1])
	assert.Equal(t, " I = 123", lines[3][2])
	assert.Equal(t, "KEYS 0001", lines[6][2])

	text := rasterize(lines, chip8.Width*DefaultScale, InformationH)
	lit := 0
	for _, v := range text.Pix {
		if v >= 0x80 {
			lit++
		}
	}
	assert.Positive(t, lit)
}
