// Package synth holds the sinks that turn scheduler note commands into sound.
package synth

import (
	"errors"
	"fmt"
	"io"

	"go-playerpiano/debug"
)

// Sink receives note commands. key is the MIDI note number.
type Sink interface {
	NoteOn(channel, key, velocity uint8) error
	NoteOff(channel, key uint8) error
}

// Output names accepted by Open
const (
	OutputSoft = "soft"
	OutputPort = "port"
	OutputNone = "none"
)

// Discard accepts and ignores every command
type Discard struct{}

func (Discard) NoteOn(channel, key, velocity uint8) error { return nil }
func (Discard) NoteOff(channel, key uint8) error          { return nil }

// Multi fans commands out to several sinks
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Add(s Sink) {
	m.sinks = append(m.sinks, s)
}

func (m *Multi) Len() int {
	return len(m.sinks)
}

func (m *Multi) NoteOn(channel, key, velocity uint8) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.NoteOn(channel, key, velocity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) NoteOff(channel, key uint8) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.NoteOff(channel, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that has a Close method
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Config selects and configures sinks
type Config struct {
	Outputs    []string
	SoundFont  string
	SampleRate int
	PortName   string
}

// Open builds a Multi from cfg. Sinks opened before a failure are closed.
func Open(cfg Config) (*Multi, error) {
	m := NewMulti()
	for _, name := range cfg.Outputs {
		s, err := openOutput(name, cfg)
		if err != nil {
			m.Close()
			return nil, err
		}
		if s != nil {
			m.Add(s)
		}
	}
	debug.Log("synth", "opened %d sinks from %v", m.Len(), cfg.Outputs)
	return m, nil
}

func openOutput(name string, cfg Config) (Sink, error) {
	switch name {
	case OutputSoft:
		if cfg.SoundFont == "" {
			return nil, errors.New("soft synth needs a soundfont")
		}
		sf, err := LoadSoundFont(cfg.SoundFont)
		if err != nil {
			return nil, err
		}
		soft, err := NewSoft(sf, cfg.SampleRate)
		if err != nil {
			return nil, err
		}
		if err := soft.Start(NewAudioContext(soft.sampleRate)); err != nil {
			return nil, err
		}
		return soft, nil
	case OutputPort:
		if cfg.PortName == "" {
			return nil, errors.New("port output needs a port name")
		}
		return OpenPort(cfg.PortName)
	case OutputNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown synth output %q", name)
	}
}
