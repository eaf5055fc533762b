package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-playerpiano/config"
)

func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, cfg.SaveTo(path))
	return path
}

func writeSong(t *testing.T, tracks ...smf.Track) string {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for _, tr := range tracks {
		require.NoError(t, s.Add(tr))
	}
	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, s.WriteFile(path))
	return path
}

func TestParseArgsUsage(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs(nil, &stderr)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseArgs([]string{"a.mid", "b.mid"}, &stderr)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseArgs([]string{"-nope", "a.mid"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
}

func TestParseArgsFlagsOverrideConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Synth.SoundFont = "from-config.sf2"
	cfg.Playback.KeyOffset = 21
	path := writeConfig(t, cfg)

	var stderr bytes.Buffer
	opts, err := parseArgs([]string{"-config", path, "-synth", "none, port", "-port", "Disklavier", "-poll", "5ms", "-headless", "song.mid"}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "song.mid", opts.File)
	assert.True(t, opts.Headless)
	assert.Equal(t, []config.Output{config.OutputNone, config.OutputPort}, opts.cfg.Synth.Outputs)
	assert.Equal(t, "Disklavier", opts.cfg.Synth.PortName)
	assert.Equal(t, 5, opts.cfg.Playback.PollIntervalMs)
	// not given on the command line: config values stand
	assert.Equal(t, "from-config.sf2", opts.cfg.Synth.SoundFont)
	assert.Equal(t, 21, opts.cfg.Playback.KeyOffset)
}

func TestParseArgsRejectsSubMillisecondPoll(t *testing.T) {
	path := writeConfig(t, config.DefaultConfig())
	var stderr bytes.Buffer
	for _, poll := range []string{"500us", "0s", "-2ms"} {
		_, err := parseArgs([]string{"-config", path, "-poll", poll, "x.mid"}, &stderr)
		assert.ErrorIs(t, err, errUsage, poll)
	}
}

func TestParseArgsExplicitZeroOffset(t *testing.T) {
	path := writeConfig(t, config.DefaultConfig())
	var stderr bytes.Buffer
	opts, err := parseArgs([]string{"-config", path, "-offset", "0", "x.mid"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 0, opts.cfg.Playback.KeyOffset)
}

func TestParseArgsRejectsInvalid(t *testing.T) {
	path := writeConfig(t, config.DefaultConfig())
	var stderr bytes.Buffer
	_, err := parseArgs([]string{"-config", path, "-synth", "port", "x.mid"}, &stderr)
	assert.ErrorIs(t, err, errUsage)
}

func TestRunExitCodes(t *testing.T) {
	cfgPath := writeConfig(t, config.DefaultConfig())

	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(48, gomidi.NoteOff(0, 60))
	tr.Close(0)
	song := writeSong(t, tr)

	var zero smf.Track
	zero.Add(0, smf.Message{0xFF, 0x51, 0x03, 0x00, 0x00, 0x00})
	zero.Close(0)
	halt := writeSong(t, zero)

	var stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(nil, &stderr))
	assert.Equal(t, exitFailure, run([]string{"-config", cfgPath, "-synth", "none", "-headless", filepath.Join(t.TempDir(), "missing.mid")}, &stderr))
	assert.Equal(t, exitFailure, run([]string{"-config", cfgPath, "-synth", "none", "-headless", halt}, &stderr))

	start := time.Now()
	assert.Equal(t, exitOK, run([]string{"-config", cfgPath, "-synth", "none", "-headless", song}, &stderr))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRunRejectsGarbageFile(t *testing.T) {
	cfgPath := writeConfig(t, config.DefaultConfig())
	path := filepath.Join(t.TempDir(), "junk.mid")
	require.NoError(t, os.WriteFile(path, []byte("not a midi file"), 0644))

	var stderr bytes.Buffer
	assert.Equal(t, exitFailure, run([]string{"-config", cfgPath, "-synth", "none", "-headless", path}, &stderr))
	assert.Contains(t, stderr.String(), "Error:")
}
