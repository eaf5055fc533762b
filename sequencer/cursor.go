package sequencer

import "go-playerpiano/midi"

// Cursor walks one track against the wall clock.
// Each cursor keeps its own last-fire time; cursors are never synced
// to each other.
type Cursor struct {
	track     midi.Track
	pos       int
	lastFire  int64 // ms
	exhausted bool
}

// NewCursor starts a cursor at the first event of track.
// An empty track gives a cursor that is exhausted from the start.
func NewCursor(track midi.Track, start int64) *Cursor {
	return &Cursor{
		track:     track,
		lastFire:  start,
		exhausted: len(track) == 0,
	}
}

// Current returns the event the cursor is waiting on
func (c *Cursor) Current() (midi.Event, bool) {
	if c.exhausted {
		return midi.Event{}, false
	}
	return c.track[c.pos], true
}

// Due reports whether the current event's wait has elapsed at now
func (c *Cursor) Due(now int64, tempo *Tempo) bool {
	if c.exhausted {
		return false
	}
	return tempo.TicksToMillis(c.track[c.pos].Delta) <= now-c.lastFire
}

// Advance consumes the current event and restarts the wait at now
func (c *Cursor) Advance(now int64) {
	if c.exhausted {
		return
	}
	c.pos++
	c.lastFire = now
	if c.pos >= len(c.track) {
		c.exhausted = true
	}
}

func (c *Cursor) Exhausted() bool {
	return c.exhausted
}

// Position is the index of the next event to fire
func (c *Cursor) Position() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return len(c.track)
}

// LastFire is the time of the last advance, in ms
func (c *Cursor) LastFire() int64 {
	return c.lastFire
}
