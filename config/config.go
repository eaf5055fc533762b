package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Output names a synth sink
type Output string

const (
	OutputSoft Output = "soft"
	OutputPort Output = "port"
	OutputNone Output = "none"
)

// SynthConfig selects where notes are sent
type SynthConfig struct {
	Outputs    []Output `json:"outputs,omitempty"`
	SoundFont  string   `json:"soundFont,omitempty"`
	SampleRate int      `json:"sampleRate,omitempty"`
	PortName   string   `json:"portName,omitempty"`
}

// PlaybackConfig tunes the scheduler
type PlaybackConfig struct {
	KeyOffset        int  `json:"keyOffset"`
	PollIntervalMs   int  `json:"pollIntervalMs,omitempty"`
	PreserveChannels bool `json:"preserveChannels,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette  string `json:"palette,omitempty"` // GIMP .gpl file, empty for built-in
	KeyWidth int    `json:"keyWidth,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Synth    SynthConfig    `json:"synth"`
	Playback PlaybackConfig `json:"playback"`
	UI       UIConfig       `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Synth: SynthConfig{
			Outputs:    []Output{OutputSoft},
			SoundFont:  "font.sf2",
			SampleRate: 44100,
		},
		Playback: PlaybackConfig{
			KeyOffset:      33,
			PollIntervalMs: 1,
		},
		UI: UIConfig{
			KeyWidth: 1,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-playerpiano"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads path over the defaults. A missing file gives the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error
	for _, out := range c.Synth.Outputs {
		switch out {
		case OutputSoft, OutputPort, OutputNone:
		default:
			errs = append(errs, fmt.Errorf("unknown synth output %q", out))
		}
		if out == OutputPort && c.Synth.PortName == "" {
			errs = append(errs, errors.New("port output needs synth.portName"))
		}
	}
	if c.Synth.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("negative sample rate %d", c.Synth.SampleRate))
	}
	if c.Playback.KeyOffset < 0 || c.Playback.KeyOffset > 127 {
		errs = append(errs, fmt.Errorf("key offset %d outside 0..127", c.Playback.KeyOffset))
	}
	if c.Playback.PollIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("negative poll interval %d", c.Playback.PollIntervalMs))
	}
	if c.UI.KeyWidth < 0 || c.UI.KeyWidth > 4 {
		errs = append(errs, fmt.Errorf("key width %d outside 0..4", c.UI.KeyWidth))
	}
	return errors.Join(errs...)
}

// OutputNames returns the outputs as plain strings
func (c *Config) OutputNames() []string {
	names := make([]string, len(c.Synth.Outputs))
	for i, out := range c.Synth.Outputs {
		names[i] = string(out)
	}
	return names
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
