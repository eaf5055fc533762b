package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrPortTimeout is returned when the driver does not answer a port scan in time
var ErrPortTimeout = errors.New("MIDI driver did not respond")

// scanTimeout bounds how long a port scan may block (CoreMIDI can hang)
const scanTimeout = 3 * time.Second

// OutPorts lists the output ports known to the registered driver
func OutPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(scanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrPortTimeout
	}
}

// OutPortNames returns the names of all output ports
func OutPortNames() ([]string, error) {
	outs, err := OutPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// FindOutPort looks a port up by exact name first, then by substring
func FindOutPort(name string) (drivers.Out, error) {
	outs, err := OutPorts()
	if err != nil {
		return nil, err
	}
	if out := matchPort(outs, name); out != nil {
		return out, nil
	}
	return nil, fmt.Errorf("no MIDI output port matching %q", name)
}

func matchPort(outs []drivers.Out, name string) drivers.Out {
	for _, out := range outs {
		if out.String() == name {
			return out
		}
	}
	lower := strings.ToLower(name)
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), lower) {
			return out
		}
	}
	return nil
}
