package sequencer

import (
	"errors"
	"fmt"

	"go-playerpiano/debug"
	"go-playerpiano/midi"
)

// PlayState is the scheduler's run state
type PlayState int

const (
	Running PlayState = iota
	Stopped
)

func (s PlayState) String() string {
	if s == Stopped {
		return "STOP"
	}
	return "PLAY"
}

// Options controls how fired events reach the keyboard and the synth
type Options struct {
	KeyOffset        int  // MIDI note that maps to key 0
	PreserveChannels bool // send the event's channel instead of channel 0
}

// DefaultOptions returns the standard 88-key mapping on channel 0
func DefaultOptions() Options {
	return Options{KeyOffset: DefaultKeyOffset}
}

// TrackProgress describes one cursor for display
type TrackProgress struct {
	Position  int
	Len       int
	Exhausted bool
}

// Scheduler fires track events against a millisecond clock.
// It is the only writer of the key table and must be driven from a
// single goroutine.
type Scheduler struct {
	tempo   *Tempo
	cursors []*Cursor
	keys    KeyTable
	voices  voices
	synth   Synth
	opts    Options
	state   PlayState

	fired   int
	dropped int
}

// NewScheduler creates a running scheduler for song with all cursors at time 0
func NewScheduler(song *midi.Song, synth Synth, opts Options) (*Scheduler, error) {
	if synth == nil {
		return nil, errors.New("scheduler needs a synth")
	}
	tempo, err := NewTempo(song.TicksPerQuarter)
	if err != nil {
		return nil, err
	}

	cursors := make([]*Cursor, len(song.Tracks))
	for i, tr := range song.Tracks {
		cursors[i] = NewCursor(tr, 0)
	}

	return &Scheduler{
		tempo:   tempo,
		cursors: cursors,
		synth:   synth,
		opts:    opts,
		state:   Running,
	}, nil
}

// Step runs one control-loop iteration at time now (ms since start).
// Every track is evaluated against the same now, and every event whose
// wait has elapsed fires exactly once.
//
// A returned *SinkError is informational; playback continues. An error
// wrapping ErrZeroTempo means the scheduler has stopped.
func (s *Scheduler) Step(now int64) error {
	if s.state == Stopped {
		return nil
	}

	var sinkErrs []error
	for i, c := range s.cursors {
		for c.Due(now, s.tempo) {
			ev, _ := c.Current()
			if err := s.fire(i, ev, &sinkErrs); err != nil {
				debug.Error("sched", "%v, stopping playback", err)
				if stopErr := s.Stop(); stopErr != nil {
					return errors.Join(err, stopErr)
				}
				return err
			}
			c.Advance(now)
		}
	}

	if s.allExhausted() {
		debug.Log("sched", "all %d tracks exhausted at %dms", len(s.cursors), now)
		if err := s.Stop(); err != nil {
			return err
		}
	}

	if len(sinkErrs) > 0 {
		return &SinkError{Err: errors.Join(sinkErrs...)}
	}
	return nil
}

func (s *Scheduler) fire(track int, ev midi.Event, sinkErrs *[]error) error {
	s.fired++

	switch ev.Kind {
	case midi.NoteOn:
		if ev.Velocity == 0 {
			s.release(track, ev, sinkErrs)
		} else {
			s.press(track, ev, sinkErrs)
		}
	case midi.NoteOff:
		s.release(track, ev, sinkErrs)
	case midi.Tempo:
		if err := s.tempo.Apply(ev.MicrosPerQuarter); err != nil {
			return fmt.Errorf("track %d: %w", track, err)
		}
		debug.Log("tempo", "track=%d tempo=%dus/q bpm=%.1f", track, ev.MicrosPerQuarter, s.tempo.BPM())
	}
	return nil
}

func (s *Scheduler) press(track int, ev midi.Event, sinkErrs *[]error) {
	idx, ok := KeyIndex(ev.Key, s.opts.KeyOffset)
	if !ok {
		s.drop(track, ev)
		return
	}
	s.keys.Set(idx, true)

	ch := s.channel(ev)
	s.voices.on(ch, ev.Key)
	if err := s.synth.NoteOn(ch, ev.Key, ev.Velocity); err != nil {
		*sinkErrs = append(*sinkErrs, err)
	}
}

func (s *Scheduler) release(track int, ev midi.Event, sinkErrs *[]error) {
	idx, ok := KeyIndex(ev.Key, s.opts.KeyOffset)
	if !ok {
		s.drop(track, ev)
		return
	}
	s.keys.Set(idx, false)

	ch := s.channel(ev)
	s.voices.off(ch, ev.Key)
	if err := s.synth.NoteOff(ch, ev.Key); err != nil {
		*sinkErrs = append(*sinkErrs, err)
	}
}

func (s *Scheduler) drop(track int, ev midi.Event) {
	s.dropped++
	debug.Log("sched", "track=%d key=%d outside keyboard (offset %d), dropped", track, ev.Key, s.opts.KeyOffset)
}

func (s *Scheduler) channel(ev midi.Event) uint8 {
	if s.opts.PreserveChannels {
		return ev.Channel
	}
	return 0
}

func (s *Scheduler) allExhausted() bool {
	for _, c := range s.cursors {
		if !c.Exhausted() {
			return false
		}
	}
	return true
}

// Stop moves to STOPPED, releases every sounding note on the synth and
// clears the key table. Calling Stop again does nothing.
func (s *Scheduler) Stop() error {
	if s.state == Stopped {
		return nil
	}
	s.state = Stopped
	s.keys.Clear()

	n := s.voices.count()
	if err := s.voices.release(s.synth); err != nil {
		return &SinkError{Err: err}
	}
	debug.Log("sched", "stopped, released %d notes", n)
	return nil
}

func (s *Scheduler) State() PlayState {
	return s.state
}

// Keys returns a copy of the key table
func (s *Scheduler) Keys() KeyTable {
	return s.keys
}

// Tempo returns a copy of the current tempo
func (s *Scheduler) Tempo() Tempo {
	return *s.tempo
}

// Fired counts events consumed so far, including dropped ones
func (s *Scheduler) Fired() int {
	return s.fired
}

// Dropped counts note events outside the keyboard range
func (s *Scheduler) Dropped() int {
	return s.dropped
}

// Sounding counts notes currently held on the synth
func (s *Scheduler) Sounding() int {
	return s.voices.count()
}

// Progress reports every cursor's position
func (s *Scheduler) Progress() []TrackProgress {
	out := make([]TrackProgress, len(s.cursors))
	for i, c := range s.cursors {
		out[i] = TrackProgress{Position: c.Position(), Len: c.Len(), Exhausted: c.Exhausted()}
	}
	return out
}
