package midi

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	// ErrOpen is returned when the MIDI file cannot be opened
	ErrOpen = errors.New("failed to open file")
	// ErrInvalidFile is returned when the container or its header cannot be used
	ErrInvalidFile = errors.New("invalid MIDI file")

	errEmptyTrack     = errors.New("track has no events")
	errTruncatedTrack = errors.New("track ends without end-of-track")
	errMalformedTempo = errors.New("malformed tempo meta event")
)

// Song is a decoded MIDI file ready for playback
type Song struct {
	TicksPerQuarter uint16
	Tracks          []Track

	// Failed holds tracks that could not be decoded, keyed by track index.
	// Such tracks are present in Tracks with no events.
	Failed map[int]error
}

// Load reads and decodes the MIDI file at path
func Load(path string) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes a MIDI file from r
func Read(r io.Reader) (song *Song, err error) {
	// smf panics on some corrupt event bytes
	defer func() {
		if rec := recover(); rec != nil {
			song, err = nil, fmt.Errorf("%w: %v", ErrInvalidFile, rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return FromSMF(s)
}

// FromSMF converts a parsed SMF into a Song
func FromSMF(s *smf.SMF) (*Song, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported time format %v", ErrInvalidFile, s.TimeFormat)
	}
	if ticks == 0 {
		return nil, fmt.Errorf("%w: zero ticks per quarter note", ErrInvalidFile)
	}
	if len(s.Tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks", ErrInvalidFile)
	}

	song := &Song{
		TicksPerQuarter: ticks.Resolution(),
		Tracks:          make([]Track, len(s.Tracks)),
		Failed:          make(map[int]error),
	}

	for i, tr := range s.Tracks {
		track, err := decodeTrack(tr)
		if err != nil {
			song.Failed[i] = err
			continue
		}
		song.Tracks[i] = track
	}

	if len(song.Failed) == len(song.Tracks) {
		return nil, fmt.Errorf("%w: no playable tracks", ErrInvalidFile)
	}
	return song, nil
}

// Playable returns the number of tracks that decoded successfully
func (s *Song) Playable() int {
	return len(s.Tracks) - len(s.Failed)
}

func decodeTrack(tr smf.Track) (Track, error) {
	if len(tr) == 0 {
		return nil, errEmptyTrack
	}
	if !tr[len(tr)-1].Message.Is(smf.MetaEndOfTrackMsg) {
		return nil, errTruncatedTrack
	}

	track := make(Track, 0, len(tr))
	for i, ev := range tr {
		out, err := decodeEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		track = append(track, out)
	}
	return track, nil
}

func decodeEvent(ev smf.Event) (Event, error) {
	var channel, key, velocity uint8
	msg := ev.Message

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		return NoteOnEvent(ev.Delta, channel, key, velocity), nil
	case msg.GetNoteOff(&channel, &key, &velocity):
		return NoteOffEvent(ev.Delta, channel, key), nil
	case msg.Is(smf.MetaTempoMsg):
		micros, err := tempoMicros(msg)
		if err != nil {
			return Event{}, err
		}
		return TempoEvent(ev.Delta, micros), nil
	default:
		return OtherEvent(ev.Delta), nil
	}
}

// tempoMicros reads the 24-bit microseconds-per-quarter value of a
// tempo meta message laid out as FF 51 03 tt tt tt.
func tempoMicros(msg smf.Message) (uint32, error) {
	b := []byte(msg)
	if len(b) != 6 || b[2] != 3 {
		return 0, errMalformedTempo
	}
	return uint32(b[3])<<16 | uint32(b[4])<<8 | uint32(b[5]), nil
}
