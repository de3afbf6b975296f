package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Clock is the playback position the game treats as ground truth. Now is
// negative while the start delay runs and never goes backwards.
type Clock interface {
	Start(delay time.Duration)
	Now() float64
	Done() bool
	Close()
}

// Player plays a track through the speaker and reports the position of the
// stream as its clock.
type Player struct {
	format   beep.Format
	streamer beep.StreamSeeker
	ctrl     *beep.Ctrl

	startAt time.Time
	playing atomic.Bool
	done    atomic.Bool

	mu   sync.Mutex
	last float64
}

func NewPlayer(t *Track) (*Player, error) {
	format := t.Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
		return nil, err
	}
	streamer := t.Streamer()
	return &Player{
		format:   format,
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: streamer},
	}, nil
}

func (p *Player) Start(delay time.Duration) {
	p.startAt = time.Now().Add(delay)
	time.AfterFunc(delay, func() {
		speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
			p.done.Store(true)
		})))
		p.playing.Store(true)
	})
}

func (p *Player) Now() float64 {
	var now float64
	if p.startAt.IsZero() {
		return 0
	}
	if p.playing.Load() {
		speaker.Lock()
		pos := p.streamer.Position()
		speaker.Unlock()
		now = p.format.SampleRate.D(pos).Seconds()
	} else {
		now = -time.Until(p.startAt).Seconds()
	}
	return p.monotonic(now)
}

func (p *Player) monotonic(now float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if now < p.last {
		return p.last
	}
	p.last = now
	return now
}

func (p *Player) Done() bool {
	return p.done.Load()
}

func (p *Player) Close() {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// WallClock stands in for the speaker when running without sound.
type WallClock struct {
	length  float64
	now     func() time.Time
	startAt time.Time
}

func NewWallClock(length float64) *WallClock {
	return &WallClock{length: length, now: time.Now}
}

func (c *WallClock) Start(delay time.Duration) {
	c.startAt = c.now().Add(delay)
}

func (c *WallClock) Now() float64 {
	return c.now().Sub(c.startAt).Seconds()
}

func (c *WallClock) Done() bool {
	return c.Now() >= c.length
}

func (c *WallClock) Close() {}
