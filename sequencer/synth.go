package sequencer

import (
	"errors"
	"fmt"
)

// Synth receives the note commands fired by the scheduler.
// key is the MIDI note number from the file, not a keyboard index.
type Synth interface {
	NoteOn(channel, key, velocity uint8) error
	NoteOff(channel, key uint8) error
}

// SinkError wraps synth failures from one scheduler step.
// The scheduler keeps running after a SinkError.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("synth: %v", e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// voices tracks which (channel, key) pairs are sounding on the synth
type voices [16][128]bool

func (v *voices) on(channel, key uint8) {
	v[channel&0x0F][key&0x7F] = true
}

func (v *voices) off(channel, key uint8) {
	v[channel&0x0F][key&0x7F] = false
}

// release sends NoteOff for every sounding voice and forgets them
func (v *voices) release(s Synth) error {
	var errs []error
	for ch := range v {
		for key := range v[ch] {
			if !v[ch][key] {
				continue
			}
			v[ch][key] = false
			if err := s.NoteOff(uint8(ch), uint8(key)); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (v *voices) count() int {
	n := 0
	for ch := range v {
		for key := range v[ch] {
			if v[ch][key] {
				n++
			}
		}
	}
	return n
}
