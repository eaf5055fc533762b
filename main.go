package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-playerpiano/debug"
	"go-playerpiano/midi"
	"go-playerpiano/sequencer"
	"go-playerpiano/synth"
	"go-playerpiano/theme"
	"go-playerpiano/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitFailure
	}

	if err := setupLogging(opts, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer debug.Disable()

	if err := play(opts); err != nil {
		debug.Error("main", "%v", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func setupLogging(opts *options, stderr io.Writer) error {
	if opts.Headless {
		level := log.InfoLevel
		if opts.Debug {
			level = log.DebugLevel
		}
		debug.SetOutput(stderr, level)
		return nil
	}
	if opts.Debug {
		return debug.Enable()
	}
	return nil
}

func play(opts *options) error {
	cfg := opts.cfg

	song, err := midi.Load(opts.File)
	if err != nil {
		return err
	}
	for i, err := range song.Failed {
		debug.Warn("main", "track %d skipped: %v", i, err)
	}
	debug.Info("main", "loaded %s: %d tracks (%d playable), %d tpq",
		opts.File, len(song.Tracks), song.Playable(), song.TicksPerQuarter)

	sinks, err := synth.Open(synth.Config{
		Outputs:    cfg.OutputNames(),
		SoundFont:  cfg.Synth.SoundFont,
		SampleRate: cfg.Synth.SampleRate,
		PortName:   cfg.Synth.PortName,
	})
	if err != nil {
		return err
	}
	defer sinks.Close()

	sched, err := sequencer.NewScheduler(song, sinks, sequencer.Options{
		KeyOffset:        cfg.Playback.KeyOffset,
		PreserveChannels: cfg.Playback.PreserveChannels,
	})
	if err != nil {
		return err
	}

	poll := sequencer.DefaultPollInterval
	if cfg.Playback.PollIntervalMs > 0 {
		poll = time.Duration(cfg.Playback.PollIntervalMs) * time.Millisecond
	}
	player := sequencer.NewPlayer(sched, sequencer.WithPollInterval(poll))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Headless {
		return player.Run(ctx)
	}
	return runTUI(ctx, player, song, opts)
}

func runTUI(ctx context.Context, player *sequencer.Player, song *midi.Song, opts *options) error {
	palette := theme.DefaultPalette()
	if opts.cfg.UI.Palette != "" {
		p, err := theme.LoadGPL(opts.cfg.UI.Palette)
		if err != nil {
			return err
		}
		palette = p
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go player.Run(ctx)

	m := tui.NewModel(player, cancel, theme.New(palette))
	m.Title = filepath.Base(opts.File)
	m.Failed = song.Failed
	m.KeyOffset = opts.cfg.Playback.KeyOffset
	if opts.cfg.UI.KeyWidth > 0 {
		m.KeyWidth = opts.cfg.UI.KeyWidth
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	cancel()
	<-player.Done()
	if err != nil {
		return err
	}
	return player.Err()
}
