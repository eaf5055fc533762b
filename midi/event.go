package midi

import "fmt"

// Kind identifies what a track event does during playback
type Kind uint8

const (
	Other Kind = iota
	NoteOn
	NoteOff
	Tempo
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	case Tempo:
		return "tempo"
	default:
		return "other"
	}
}

// Event is one timed entry of a track
type Event struct {
	Delta    uint32 // ticks since the previous event in the same track
	Kind     Kind
	Channel  uint8
	Key      uint8 // MIDI note number
	Velocity uint8

	MicrosPerQuarter uint32 // Tempo only
}

func (e Event) String() string {
	switch e.Kind {
	case NoteOn:
		return fmt.Sprintf("+%d note-on ch=%d key=%d vel=%d", e.Delta, e.Channel, e.Key, e.Velocity)
	case NoteOff:
		return fmt.Sprintf("+%d note-off ch=%d key=%d", e.Delta, e.Channel, e.Key)
	case Tempo:
		return fmt.Sprintf("+%d tempo %dus/q", e.Delta, e.MicrosPerQuarter)
	default:
		return fmt.Sprintf("+%d other", e.Delta)
	}
}

// NoteOnEvent builds a note-on event
func NoteOnEvent(delta uint32, channel, key, velocity uint8) Event {
	return Event{Delta: delta, Kind: NoteOn, Channel: channel, Key: key, Velocity: velocity}
}

// NoteOffEvent builds a note-off event
func NoteOffEvent(delta uint32, channel, key uint8) Event {
	return Event{Delta: delta, Kind: NoteOff, Channel: channel, Key: key}
}

// TempoEvent builds a tempo change in microseconds per quarter note
func TempoEvent(delta uint32, microsPerQuarter uint32) Event {
	return Event{Delta: delta, Kind: Tempo, MicrosPerQuarter: microsPerQuarter}
}

// OtherEvent builds an event with no playback effect
func OtherEvent(delta uint32) Event {
	return Event{Delta: delta, Kind: Other}
}

// Track is an ordered list of events, read-only once loaded
type Track []Event

// Notes counts note-on events with a nonzero velocity
func (t Track) Notes() int {
	n := 0
	for _, ev := range t {
		if ev.Kind == NoteOn && ev.Velocity > 0 {
			n++
		}
	}
	return n
}

// Ticks returns the sum of all deltas in the track
func (t Track) Ticks() uint64 {
	var total uint64
	for _, ev := range t {
		total += uint64(ev.Delta)
	}
	return total
}
