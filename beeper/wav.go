package beeper

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

const (
	wavBitDepth = 16
	maxSample   = 1<<(wavBitDepth-1) - 1
)

// Recorder captures the beeper output as a mono 16bit WAV file. Audio is
// buffered in memory in its entirety and written to disk on Close.
type Recorder struct {
	filename string
	logger   *log.Logger
	tone     *Tone
	frame    []float32
	buffer   []int
}

func NewRecorder(filename string, sampleRate int, logger *log.Logger) *Recorder {
	t := NewTone(sampleRate)
	return &Recorder{
		filename: filename,
		logger:   logger,
		tone:     t,
		frame:    make([]float32, t.SamplesPerTick()),
	}
}

// Tick appends one tick worth of samples.
func (r *Recorder) Tick(on bool) {
	r.tone.Fill(r.frame, on)
	for _, s := range r.frame {
		r.buffer = append(r.buffer, int(s*maxSample))
	}
}

// Samples is the number of samples recorded so far.
func (r *Recorder) Samples() int {
	return len(r.buffer)
}

// Close encodes the recording to disk.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav recorder: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, r.tone.SampleRate, wavBitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  r.tone.SampleRate,
		},
		Data:           r.buffer,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav recorder: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("Audio written",
			log.String("file", r.filename),
			log.Int("samples", len(r.buffer)))
	}
	return nil
}
