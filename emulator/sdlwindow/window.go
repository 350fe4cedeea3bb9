// Package sdlwindow is the windowed frontend of the emulator, built on SDL.
// A debug overlay with the instruction history and registers is drawn below
// the display.
package sdlwindow

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chip8vm/beeper"
	"github.com/tuboc/chip8vm/chip8"
	"github.com/tuboc/chip8vm/emulator"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	DefaultScale = 10
	InformationH = chip8.HistoryLength*FontH + 8
	AudioSamples = 512
)

// physical 1234/QWER/ASDF/ZXCV to the logical 123C/456D/789E/A0BF keypad
var scanCode2Key = map[int]uint8{
	sdl.SCANCODE_1: 0x1,
	sdl.SCANCODE_2: 0x2,
	sdl.SCANCODE_3: 0x3,
	sdl.SCANCODE_4: 0xc,
	sdl.SCANCODE_Q: 0x4,
	sdl.SCANCODE_W: 0x5,
	sdl.SCANCODE_E: 0x6,
	sdl.SCANCODE_R: 0xd,
	sdl.SCANCODE_A: 0x7,
	sdl.SCANCODE_S: 0x8,
	sdl.SCANCODE_D: 0x9,
	sdl.SCANCODE_F: 0xe,
	sdl.SCANCODE_Z: 0xa,
	sdl.SCANCODE_X: 0x0,
	sdl.SCANCODE_C: 0xb,
	sdl.SCANCODE_V: 0xf,
}

// Compile-time check to ensure Window implements emulator.Frontend.
var _ emulator.Frontend = (*Window)(nil)

// Options configures the window frontend.
type Options struct {
	Scale         int
	Overlay       bool
	ScreenshotDir string
	Logger        *log.Logger
}

// Window implements emulator.Frontend.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	audio    sdl.AudioDeviceID
	tone     *beeper.Tone
	sound    bool
	options  Options
	logger   *log.Logger
	scale    int32
	width    int32
	height   int32
	keys     chip8.Keys

	screenshot bool
}

func New(opts Options) (*Window, error) {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("initializing sdl: %w", err)
	}

	s := &Window{
		options: opts,
		logger:  logger,
		scale:   int32(opts.Scale),
		width:   int32(chip8.Width * opts.Scale),
		height:  int32(chip8.Height * opts.Scale),
		tone:    beeper.NewTone(beeper.SampleRate),
	}

	windowH := s.height
	if opts.Overlay {
		windowH += InformationH
	}

	window, err := sdl.CreateWindow("CHIP-8", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		s.width, windowH, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	s.renderer = renderer

	s.audio, err = openAudio()
	if err != nil {
		logger.Warn("Audio disabled", log.Err(err))
	}

	return s, nil
}

func openAudio() (sdl.AudioDeviceID, error) {
	want := &sdl.AudioSpec{
		Freq:     beeper.SampleRate,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 1,
		Samples:  AudioSamples,
	}
	have := &sdl.AudioSpec{}
	audio, err := sdl.OpenAudioDevice("", false, want, have, 0)
	if err != nil {
		return 0, fmt.Errorf("opening audio device: %w", err)
	}

	sdl.PauseAudioDevice(audio, false)
	return audio, nil
}

func (s *Window) Present(c *chip8.Chip8) error {
	if err := s.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return fmt.Errorf("clearing: %w", err)
	}
	if err := s.renderer.Clear(); err != nil {
		return fmt.Errorf("clearing: %w", err)
	}

	if err := s.renderer.SetDrawColor(0, 255, 0, 255); err != nil {
		return fmt.Errorf("drawing display: %w", err)
	}
	disp := c.Display()
	for y := int32(0); y < chip8.Height; y++ {
		for x := int32(0); x < chip8.Width; x++ {
			if !disp.Pixel(int(x), int(y)) {
				continue
			}
			rect := &sdl.Rect{X: x * s.scale, Y: y * s.scale, W: s.scale, H: s.scale}
			if err := s.renderer.FillRect(rect); err != nil {
				return fmt.Errorf("drawing display: %w", err)
			}
		}
	}

	if s.options.Overlay {
		if err := s.drawDebugInfo(c); err != nil {
			return err
		}
	}

	s.renderer.Present()
	s.queueSound()

	if s.screenshot {
		s.screenshot = false
		if err := s.saveScreenshot(disp); err != nil {
			s.logger.Error("Screenshot failed", log.Err(err))
		}
	}
	return nil
}

func (s *Window) drawDebugInfo(c *chip8.Chip8) error {
	if err := s.renderer.SetDrawColor(32, 32, 32, 255); err != nil {
		return fmt.Errorf("drawing overlay: %w", err)
	}
	if err := s.renderer.FillRect(&sdl.Rect{X: 0, Y: s.height, W: s.width, H: InformationH}); err != nil {
		return fmt.Errorf("drawing overlay: %w", err)
	}

	text := rasterize(overlayText(c, s.keys), int(s.width), InformationH)
	b := text.Bounds()
	points := make([]sdl.Point, 0, 1024)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if text.GrayAt(x, y).Y >= 0x80 {
				points = append(points, sdl.Point{X: int32(x), Y: s.height + int32(y)})
			}
		}
	}
	if len(points) == 0 {
		return nil
	}

	if err := s.renderer.SetDrawColor(220, 220, 220, 255); err != nil {
		return fmt.Errorf("drawing overlay: %w", err)
	}
	if err := s.renderer.DrawPoints(points); err != nil {
		return fmt.Errorf("drawing overlay: %w", err)
	}
	return nil
}

func (s *Window) queueSound() {
	if s.audio == 0 {
		return
	}
	if !s.sound {
		sdl.ClearQueuedAudio(s.audio)
		return
	}

	// keep roughly two frames queued
	n := s.tone.SamplesPerTick()
	if sdl.GetQueuedAudioSize(s.audio) > uint32(2*n*4) {
		return
	}
	samples := s.tone.AppendFloat32LE(nil, n, true)
	if err := sdl.QueueAudio(s.audio, samples); err != nil {
		s.logger.Warn("Queueing audio failed", log.Err(err))
	}
}

func (s *Window) saveScreenshot(disp *chip8.Display) error {
	surface, err := sdl.CreateRGBSurface(0, chip8.Width*s.scale, chip8.Height*s.scale, 32, 0, 0, 0, 0)
	if err != nil {
		return fmt.Errorf("creating surface: %w", err)
	}
	defer surface.Free()

	lit := sdl.MapRGB(surface.Format, 0, 255, 0)
	for y := int32(0); y < chip8.Height; y++ {
		for x := int32(0); x < chip8.Width; x++ {
			if !disp.Pixel(int(x), int(y)) {
				continue
			}
			rect := &sdl.Rect{X: x * s.scale, Y: y * s.scale, W: s.scale, H: s.scale}
			if err := surface.FillRect(rect, lit); err != nil {
				return fmt.Errorf("drawing surface: %w", err)
			}
		}
	}

	name := fmt.Sprintf("chip8-%s.png", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.options.ScreenshotDir, name)
	if err := img.SavePNG(surface, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	s.logger.Info("Screenshot saved", log.String("file", path))
	return nil
}

func (s *Window) Poll(ctl *emulator.Controls) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			ctl.Quit = true

		case *sdl.KeyboardEvent:
			s.handleKey(ev, ctl)

		case *sdl.WindowEvent:
			switch ev.Event {
			case sdl.WINDOWEVENT_FOCUS_LOST:
				ctl.Focused = false
			case sdl.WINDOWEVENT_FOCUS_GAINED:
				ctl.Focused = true
			}
		}
	}
	s.keys = ctl.Keys
}

func (s *Window) handleKey(ev *sdl.KeyboardEvent, ctl *emulator.Controls) {
	code := int(ev.Keysym.Scancode)
	if i, ok := scanCode2Key[code]; ok {
		ctl.Keys[i] = ev.Type == sdl.KEYDOWN
		return
	}
	if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
		return
	}

	switch code {
	case sdl.SCANCODE_SPACE:
		ctl.Step = true
	case sdl.SCANCODE_RETURN:
		ctl.Resume = true
	case sdl.SCANCODE_F5:
		ctl.Reset = true
	case sdl.SCANCODE_F12:
		s.screenshot = true
	case sdl.SCANCODE_ESCAPE:
		ctl.Quit = true
	}
}

func (s *Window) SetSound(on bool) {
	s.sound = on
}

func (s *Window) Close() error {
	if s.audio != 0 {
		sdl.CloseAudioDevice(s.audio)
	}
	if err := s.renderer.Destroy(); err != nil {
		return fmt.Errorf("destroying renderer: %w", err)
	}
	if err := s.window.Destroy(); err != nil {
		return fmt.Errorf("destroying window: %w", err)
	}
	sdl.Quit()
	return nil
}
