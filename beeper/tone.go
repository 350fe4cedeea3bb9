// Package beeper turns the sound timer signal into audio samples and hands
// them to an output: the oto player or a WAV file on disk.
package beeper

import (
	"encoding/binary"
	"math"
)

const (
	SampleRate    = 44100
	ToneFrequency = 440.0
	TickFrequency = 60
)

// Tone is a phase continuous sine oscillator that is gated on and off.
type Tone struct {
	SampleRate int
	Frequency  float64
	Volume     float32

	phase float64
}

func NewTone(sampleRate int) *Tone {
	return &Tone{
		SampleRate: sampleRate,
		Frequency:  ToneFrequency,
		Volume:     0.25,
	}
}

// SamplesPerTick is the number of samples covering one 60Hz tick.
func (t *Tone) SamplesPerTick() int {
	return t.SampleRate / TickFrequency
}

// Fill writes len(buf) samples. Silence is written while off; the phase is
// reset so the next beep starts cleanly.
func (t *Tone) Fill(buf []float32, on bool) {
	if !on {
		for i := range buf {
			buf[i] = 0
		}
		t.phase = 0
		return
	}

	step := 2 * math.Pi * t.Frequency / float64(t.SampleRate)
	for i := range buf {
		buf[i] = t.Volume * float32(math.Sin(t.phase))
		t.phase += step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
}

// AppendFloat32LE appends n samples encoded as little endian float32.
func (t *Tone) AppendFloat32LE(dst []byte, n int, on bool) []byte {
	buf := make([]float32, n)
	t.Fill(buf, on)
	for _, s := range buf {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(s))
	}
	return dst
}
