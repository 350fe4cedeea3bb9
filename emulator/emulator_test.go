package emulator

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuboc/chip8vm/beeper"
	"github.com/tuboc/chip8vm/chip8"
)

func newTestEmulator(t *testing.T, opts Options, words ...uint16) (*Emulator, *chip8.Chip8, *Headless) {
	t.Helper()

	c := chip8.New(chip8.Options{Seed: 1, Logger: log.NewTestLogger(t)})
	program := make([]byte, 0, 2*len(words))
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	require.NoError(t, c.Load(program))

	h := NewHeadless(nil)
	opts.Unthrottled = true
	opts.Logger = log.NewTestLogger(t)
	return New(c, h, opts), c, h
}

func TestRun_Frames(t *testing.T) {
	e, c, h := newTestEmulator(t, Options{Frames: 5}, 0x1200)

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 5, e.Frames())
	assert.Equal(t, uint16(0x200), c.Registers().PC)
	assert.Equal(t, strings.Repeat(strings.Repeat(".", chip8.Width)+"\n", chip8.Height), h.Display())
}

func TestRun_Draw(t *testing.T) {
	e, _, h := newTestEmulator(t, Options{Frames: 1},
		0xA050, // I = sprite 0
		0xD015, // draw at V0,V1
		0x1204, // loop
	)

	require.NoError(t, e.Run(context.Background()))
	rows := strings.Split(h.Display(), "\n")
	assert.Equal(t, "####....", rows[0][:8])
	assert.Equal(t, "#..#....", rows[1][:8])
	assert.Equal(t, "####....", rows[4][:8])
	assert.Equal(t, "........", rows[5][:8])
}

func TestRun_Fault(t *testing.T) {
	e, _, _ := newTestEmulator(t, Options{}, 0x00EE)

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, chip8.ErrStackUnderflow)
	assert.Contains(t, err.Error(), "frame 0")
	assert.Equal(t, 0, e.Frames())
}

func TestRun_Quit(t *testing.T) {
	e, _, h := newTestEmulator(t, Options{}, 0x1200)
	h.Script = func(frame int, ctl *Controls) {
		if frame == 3 {
			ctl.Quit = true
		}
	}

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, e.Frames())
}

func TestRun_Cancelled(t *testing.T) {
	e, _, _ := newTestEmulator(t, Options{}, 0x1200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Run(ctx))
	assert.Equal(t, 0, e.Frames())
}

func TestRun_Throttled(t *testing.T) {
	c := chip8.New(chip8.Options{Logger: log.NewTestLogger(t)})
	require.NoError(t, c.Load([]byte{0x12, 0x00}))
	e := New(c, NewHeadless(nil), Options{Logger: log.NewTestLogger(t)})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))
	assert.LessOrEqual(t, e.Frames(), 7)
}

func TestRun_StepMode(t *testing.T) {
	e, c, h := newTestEmulator(t, Options{StepMode: true, Frames: 3},
		0x6001,
		0x6102,
		0x1204,
	)
	h.Script = func(frame int, ctl *Controls) {
		if frame < 2 {
			ctl.Step = true
		}
	}

	require.NoError(t, e.Run(context.Background()))
	r := c.Registers()
	assert.Equal(t, uint16(0x204), r.PC)
	assert.Equal(t, uint8(1), r.V[0])
	assert.Equal(t, uint8(2), r.V[1])
	assert.True(t, e.StepMode())
}

func TestRun_EnterAndLeaveStepMode(t *testing.T) {
	e, _, h := newTestEmulator(t, Options{Frames: 4}, 0x1200)
	h.Script = func(frame int, ctl *Controls) {
		switch frame {
		case 1:
			ctl.Step = true
		case 2:
			assert.True(t, e.StepMode())
			ctl.Resume = true
		}
	}

	require.NoError(t, e.Run(context.Background()))
	assert.False(t, e.StepMode())
}

func TestRun_Reset(t *testing.T) {
	e, c, h := newTestEmulator(t, Options{Frames: 3},
		0x7001, // V0 += 1
		0x1200,
	)
	h.Script = func(frame int, ctl *Controls) {
		if frame == 2 {
			ctl.Reset = true
		}
	}

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint8(5), c.Registers().V[0])
}

func TestRun_Unfocused(t *testing.T) {
	e, c, h := newTestEmulator(t, Options{Frames: 4}, 0x7001, 0x1200)
	h.Script = func(frame int, ctl *Controls) {
		ctl.Focused = frame >= 2
	}

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint8(10), c.Registers().V[0])
}

func TestRun_Sound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")
	rec := beeper.NewRecorder(path, beeper.SampleRate, log.NewTestLogger(t))

	e, _, h := newTestEmulator(t, Options{Frames: 10, Recorder: rec},
		0x6005, // V0 = 5
		0xF018, // ST = V0
		0x1204,
	)

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 4, h.Beeps())
	assert.Equal(t, 10*735, rec.Samples())
	require.NoError(t, rec.Close())
}

func TestRun_KeyWait(t *testing.T) {
	e, c, h := newTestEmulator(t, Options{Frames: 6},
		0xF00A, // V0 = key
		0x1202,
	)
	h.Script = func(frame int, ctl *Controls) {
		if frame == 3 {
			ctl.Keys[5] = true
		}
	}

	require.NoError(t, e.Run(context.Background()))
	r := c.Registers()
	assert.Equal(t, uint8(5), r.V[0])
	assert.False(t, r.WaitingKey)
	assert.Equal(t, uint16(0x202), r.PC)
}

func TestHeadless_Close(t *testing.T) {
	var buf bytes.Buffer
	c := chip8.New(chip8.Options{Logger: log.NewTestLogger(t)})
	require.NoError(t, c.Load([]byte{0x12, 0x00}))

	h := NewHeadless(&buf)
	e := New(c, h, Options{Frames: 2, Unthrottled: true, Logger: log.NewTestLogger(t)})
	require.NoError(t, e.Run(context.Background()))
	require.NoError(t, h.Close())

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "frames=2 pc=200 i=000\n"), out)
	assert.Equal(t, chip8.Height+1, strings.Count(out, "\n"))
}

// The driving loop and the headless frontend must build without cgo.
func TestPackageImports(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	fset := token.NewFileSet()
	for _, file := range files {
		f, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
		require.NoError(t, err)

		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.NotContains(t, path, "go-sdl2", file)
			assert.NotEqual(t, "C", path, file)
		}
	}
}
