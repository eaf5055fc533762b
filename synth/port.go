package synth

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-playerpiano/debug"
	"go-playerpiano/midi"
)

// Port sends note commands to a MIDI output port
type Port struct {
	name string
	send func(gomidi.Message) error
	out  drivers.Out
}

// OpenPort opens the output port matching name
func OpenPort(name string) (*Port, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open MIDI port %s: %w", out.String(), err)
	}
	debug.Info("synth", "opened MIDI port %s", out.String())
	return &Port{name: out.String(), send: send, out: out}, nil
}

// NewPortFromSender wraps an existing send function
func NewPortFromSender(name string, send func(gomidi.Message) error) *Port {
	return &Port{name: name, send: send}
}

func (p *Port) Name() string {
	return p.name
}

func (p *Port) NoteOn(channel, key, velocity uint8) error {
	if err := p.send(gomidi.NoteOn(channel, key, velocity)); err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}

func (p *Port) NoteOff(channel, key uint8) error {
	if err := p.send(gomidi.NoteOff(channel, key)); err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}

// AllNotesOff sends controller 123 on every channel
func (p *Port) AllNotesOff() error {
	for ch := uint8(0); ch < 16; ch++ {
		if err := p.send(gomidi.ControlChange(ch, 123, 0)); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return nil
}

// Close silences the port and closes it if this Port opened it
func (p *Port) Close() error {
	err := p.AllNotesOff()
	if p.out != nil {
		if cerr := p.out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
