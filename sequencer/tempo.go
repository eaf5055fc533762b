package sequencer

import "errors"

// DefaultMicrosPerQuarter is the MIDI default tempo (120 BPM)
const DefaultMicrosPerQuarter = 500000

var (
	// ErrZeroResolution means the file declares zero ticks per quarter note
	ErrZeroResolution = errors.New("zero ticks per quarter note")
	// ErrZeroTempo means a tempo change of zero microseconds per quarter note
	ErrZeroTempo = errors.New("zero microseconds per quarter note")
)

// Tempo converts tick deltas into wall-clock milliseconds.
// One Tempo is shared by every track of a song.
type Tempo struct {
	ticksPerQuarter  uint32
	microsPerQuarter uint32
}

// NewTempo creates a converter at the default tempo
func NewTempo(ticksPerQuarter uint16) (*Tempo, error) {
	if ticksPerQuarter == 0 {
		return nil, ErrZeroResolution
	}
	return &Tempo{
		ticksPerQuarter:  uint32(ticksPerQuarter),
		microsPerQuarter: DefaultMicrosPerQuarter,
	}, nil
}

// TicksToMillis converts a delta to milliseconds, truncating
func (t Tempo) TicksToMillis(delta uint32) int64 {
	return int64(uint64(delta) * uint64(t.microsPerQuarter) / (1000 * uint64(t.ticksPerQuarter)))
}

// Apply replaces the tempo for all subsequent conversions.
// A zero tempo is rejected and the previous value kept.
func (t *Tempo) Apply(microsPerQuarter uint32) error {
	if microsPerQuarter == 0 {
		return ErrZeroTempo
	}
	t.microsPerQuarter = microsPerQuarter
	return nil
}

func (t Tempo) MicrosPerQuarter() uint32 {
	return t.microsPerQuarter
}

func (t Tempo) TicksPerQuarter() uint32 {
	return t.ticksPerQuarter
}

// BPM returns the tempo in quarter notes per minute
func (t Tempo) BPM() float64 {
	return 60000000 / float64(t.microsPerQuarter)
}
