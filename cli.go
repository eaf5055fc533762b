package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go-playerpiano/config"
)

// process exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage: playerpiano [flags] <file.mid>")

type options struct {
	File       string
	ConfigPath string
	Headless   bool
	Debug      bool

	cfg *config.Config
}

// parseArgs reads flags over the config file; flags win only when given
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("playerpiano", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "config file (default ~/.config/go-playerpiano/config.json)")
	soundFont := fs.String("soundfont", "", "SoundFont (.sf2) for the software synth")
	outputs := fs.String("synth", "", "comma-separated synth outputs: soft, port, none")
	port := fs.String("port", "", "MIDI output port name (exact or substring)")
	offset := fs.Int("offset", 0, "MIDI note number of the lowest key")
	poll := fs.Duration("poll", time.Millisecond, "control loop poll interval")
	preserve := fs.Bool("channels", false, "send each event's own MIDI channel instead of channel 0")
	headless := fs.Bool("headless", false, "play without the terminal UI, logging to stderr")
	debugLog := fs.Bool("debug", false, "write debug log")
	palette := fs.String("palette", "", "GIMP palette (.gpl) for the keyboard")
	keyWidth := fs.Int("keywidth", 0, "terminal cells per key")

	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errUsage
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	setFlags := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	if setFlags["soundfont"] {
		cfg.Synth.SoundFont = *soundFont
	}
	if setFlags["synth"] {
		cfg.Synth.Outputs = nil
		for _, out := range strings.Split(*outputs, ",") {
			if out = strings.TrimSpace(out); out != "" {
				cfg.Synth.Outputs = append(cfg.Synth.Outputs, config.Output(out))
			}
		}
	}
	if setFlags["port"] {
		cfg.Synth.PortName = *port
	}
	if setFlags["offset"] {
		cfg.Playback.KeyOffset = *offset
	}
	if setFlags["poll"] {
		if *poll < time.Millisecond {
			return nil, fmt.Errorf("%w: -poll %s is below 1ms", errUsage, *poll)
		}
		cfg.Playback.PollIntervalMs = int(poll.Milliseconds())
	}
	if setFlags["channels"] {
		cfg.Playback.PreserveChannels = *preserve
	}
	if setFlags["palette"] {
		cfg.UI.Palette = *palette
	}
	if setFlags["keywidth"] {
		cfg.UI.KeyWidth = *keyWidth
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	return &options{
		File:       fs.Arg(0),
		ConfigPath: *configPath,
		Headless:   *headless,
		Debug:      *debugLog,
		cfg:        cfg,
	}, nil
}
