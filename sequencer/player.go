package sequencer

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"go-playerpiano/debug"
)

// DefaultPollInterval is how often the control loop steps the scheduler
const DefaultPollInterval = time.Millisecond

// UI refresh rate for status snapshots
const uiFPS = 30

// Status is a point-in-time view of playback for display
type Status struct {
	State       PlayState
	BPM         float64
	Elapsed     time.Duration
	Tracks      []TrackProgress
	Fired       int
	Dropped     int
	Sounding    int
	SinkErrors  int
	LastSinkErr error
}

// Player drives a Scheduler from the wall clock and publishes the key
// table for renderers. Renderers only read snapshots; the control loop
// is the single writer.
type Player struct {
	sched       *Scheduler
	poll        time.Duration
	now         func() time.Time
	onSinkError func(error)

	mu     sync.RWMutex
	keys   KeyTable
	status Status
	err    error

	done chan struct{}

	// Notify TUI of updates
	UpdateChan chan struct{}
}

type PlayerOption func(*Player)

// WithPollInterval sets the control loop period
func WithPollInterval(d time.Duration) PlayerOption {
	return func(p *Player) {
		if d > 0 {
			p.poll = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) PlayerOption {
	return func(p *Player) {
		p.now = now
	}
}

// WithSinkErrorHandler is called for every step that reports synth errors
func WithSinkErrorHandler(fn func(error)) PlayerOption {
	return func(p *Player) {
		p.onSinkError = fn
	}
}

// NewPlayer wraps a scheduler; call Run to start playback
func NewPlayer(sched *Scheduler, opts ...PlayerOption) *Player {
	p := &Player{
		sched:      sched,
		poll:       DefaultPollInterval,
		now:        time.Now,
		done:       make(chan struct{}),
		UpdateChan: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.status = Status{State: sched.State(), BPM: sched.tempo.BPM(), Tracks: sched.Progress()}
	return p
}

// Run plays until every track is exhausted, ctx is cancelled, or a
// fatal tempo error occurs. Only the tempo error is returned.
func (p *Player) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(p.done)

	start := p.now()
	ticker := time.NewTicker(p.poll)
	uiTicker := time.NewTicker(time.Second / uiFPS)
	defer ticker.Stop()
	defer uiTicker.Stop()

	debug.Info("player", "start tracks=%d poll=%s", len(p.sched.cursors), p.poll)

	for {
		fired := p.sched.Fired()
		if err := p.step(start); err != nil {
			p.publish(start)
			p.finish(err)
			return err
		}
		if p.sched.State() == Stopped {
			p.publish(start)
			debug.Info("player", "finished fired=%d dropped=%d", p.sched.Fired(), p.sched.Dropped())
			return nil
		}
		if p.sched.Fired() != fired {
			p.publish(start)
		}

		select {
		case <-ctx.Done():
			if err := p.sched.Stop(); err != nil {
				p.sinkError(err)
			}
			p.publish(start)
			debug.Info("player", "interrupted at %s", p.now().Sub(start))
			return nil
		case <-uiTicker.C:
			p.publish(start)
		case <-ticker.C:
		}
	}
}

func (p *Player) step(start time.Time) error {
	now := p.now().Sub(start).Milliseconds()
	debug.LogEvery(1000, "player", "step at %dms", now)
	err := p.sched.Step(now)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrZeroTempo) {
		return err
	}
	p.sinkError(err)
	return nil
}

func (p *Player) sinkError(err error) {
	debug.Warn("player", "%v", err)
	p.mu.Lock()
	p.status.SinkErrors++
	p.status.LastSinkErr = err
	p.mu.Unlock()
	if p.onSinkError != nil {
		p.onSinkError(err)
	}
}

func (p *Player) finish(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// publish copies scheduler state for readers and pokes UpdateChan
func (p *Player) publish(start time.Time) {
	p.mu.Lock()
	p.keys = p.sched.Keys()
	p.status.State = p.sched.State()
	p.status.BPM = p.sched.tempo.BPM()
	p.status.Elapsed = p.now().Sub(start)
	p.status.Tracks = p.sched.Progress()
	p.status.Fired = p.sched.Fired()
	p.status.Dropped = p.sched.Dropped()
	p.status.Sounding = p.sched.Sounding()
	p.mu.Unlock()

	select {
	case p.UpdateChan <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recently published key table
func (p *Player) Snapshot() KeyTable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.keys
}

func (p *Player) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st := p.status
	st.Tracks = append([]TrackProgress(nil), p.status.Tracks...)
	return st
}

// Done is closed when Run returns
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Err is the fatal error Run returned, if any
func (p *Player) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}
