package beeper

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player streams the tone through the system audio device. The oto context
// pulls samples from Read on its own goroutine.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	tone   *Tone
	active atomic.Bool
	mutex  sync.Mutex
}

func NewPlayer(sampleRate int) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	<-ready

	p := &Player{
		ctx:  ctx,
		tone: NewTone(sampleRate),
	}
	p.player = ctx.NewPlayer(p)
	p.player.Play()
	return p, nil
}

// SetActive gates the tone.
func (p *Player) SetActive(on bool) {
	p.active.Store(on)
}

// Read implements io.Reader for the oto player.
func (p *Player) Read(b []byte) (int, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	n := len(b) / 4
	out := p.tone.AppendFloat32LE(b[:0], n, p.active.Load())
	return len(out), nil
}

func (p *Player) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
