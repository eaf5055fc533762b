package main

import (
	"fmt"
	"os"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-playerpiano/midi"
	"go-playerpiano/sequencer"
	"go-playerpiano/synth"
	"go-playerpiano/widgets"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "dump":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		err = dumpFile(os.Args[2])
	case "beep":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		err = beep(os.Args[2])
	default:
		usage()
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List MIDI output ports")
	fmt.Println("  dump <file>   - Print the decoded tracks of a MIDI file")
	fmt.Println("  beep <port>   - Play a short scale on an output port")
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.OutPortNames()
	if err != nil {
		fmt.Println("\nTIMEOUT! The MIDI driver is hung.")
		fmt.Println("Fix (macOS): sudo killall coreaudiod midiserver")
		return err
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
	if len(names) == 0 {
		fmt.Println("  (none)")
	}
	return nil
}

func dumpFile(path string) error {
	song, err := midi.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d ticks per quarter, %d tracks\n", path, song.TicksPerQuarter, len(song.Tracks))
	for i, tr := range song.Tracks {
		if err, failed := song.Failed[i]; failed {
			fmt.Printf("\n=== Track %d: skipped (%v) ===\n", i, err)
			continue
		}
		fmt.Printf("\n=== Track %d: %d events, %d notes, %d ticks ===\n", i, len(tr), tr.Notes(), tr.Ticks())
		for _, ev := range tr {
			line := "  " + ev.String()
			if ev.Kind == midi.NoteOn || ev.Kind == midi.NoteOff {
				if idx, ok := sequencer.KeyIndex(ev.Key, sequencer.DefaultKeyOffset); ok {
					line += fmt.Sprintf("  [%s key %d]", widgets.NoteName(ev.Key), idx)
				} else {
					line += "  [off keyboard]"
				}
			}
			fmt.Println(line)
		}
	}
	return nil
}

func beep(portName string) error {
	port, err := synth.OpenPort(portName)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("Playing C major scale on %s...\n", port.Name())
	for _, key := range []uint8{60, 62, 64, 65, 67, 69, 71, 72} {
		if err := port.NoteOn(0, key, 100); err != nil {
			return err
		}
		time.Sleep(200 * time.Millisecond)
		if err := port.NoteOff(0, key); err != nil {
			return err
		}
	}
	fmt.Println("Done")
	return nil
}
