package synth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sinshu/go-meltysynth/meltysynth"

	"go-playerpiano/debug"
)

// DefaultSampleRate for the software synth
const DefaultSampleRate = 44100

// audio buffer length; lower means less latency and more underruns
const bufferSize = 50 * time.Millisecond

// LoadSoundFont reads and parses an .sf2 file
func LoadSoundFont(path string) (*meltysynth.SoundFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load soundfont %s: %w", path, err)
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse soundfont %s: %w", path, err)
	}
	return sf, nil
}

// Soft is a SoundFont synthesizer played through the ebiten audio context.
// Note commands arrive from the player goroutine while the audio goroutine
// renders, so the synthesizer is guarded by mu.
type Soft struct {
	mu    sync.Mutex
	synth *meltysynth.Synthesizer
	left  []float32
	right []float32

	sampleRate int
	player     *audio.Player
}

// NewSoft creates a synthesizer for sf at sampleRate
func NewSoft(sf *meltysynth.SoundFont, sampleRate int) (*Soft, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	s, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}
	return &Soft{synth: s, sampleRate: sampleRate}, nil
}

// NewAudioContext creates the process-wide audio context.
// ebiten allows only one per process.
func NewAudioContext(sampleRate int) *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(sampleRate)
}

// Start streams the synth into ctx
func (s *Soft) Start(ctx *audio.Context) error {
	if ctx.SampleRate() != s.sampleRate {
		return fmt.Errorf("audio context runs at %dHz, synth at %dHz", ctx.SampleRate(), s.sampleRate)
	}
	player, err := ctx.NewPlayer(s)
	if err != nil {
		return fmt.Errorf("failed to create audio player: %w", err)
	}
	player.SetBufferSize(bufferSize)
	player.Play()
	s.player = player
	debug.Info("synth", "soft synth started at %dHz", s.sampleRate)
	return nil
}

func (s *Soft) NoteOn(channel, key, velocity uint8) error {
	s.mu.Lock()
	s.synth.NoteOn(int32(channel), int32(key), int32(velocity))
	s.mu.Unlock()
	return nil
}

func (s *Soft) NoteOff(channel, key uint8) error {
	s.mu.Lock()
	s.synth.NoteOff(int32(channel), int32(key))
	s.mu.Unlock()
	return nil
}

// Read renders 16-bit little-endian stereo frames for the audio player
func (s *Soft) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}

	s.mu.Lock()
	if cap(s.left) < frames {
		s.left = make([]float32, frames)
		s.right = make([]float32, frames)
	}
	left, right := s.left[:frames], s.right[:frames]
	s.synth.Render(left, right)
	s.mu.Unlock()

	encodeFrames(p, left, right)
	return frames * 4, nil
}

// Close silences all voices and stops the audio player
func (s *Soft) Close() error {
	s.mu.Lock()
	s.synth.NoteOffAll(true)
	s.mu.Unlock()

	if s.player != nil {
		err := s.player.Close()
		s.player = nil
		return err
	}
	return nil
}

func encodeFrames(p []byte, left, right []float32) {
	for i := range left {
		l := int16(clamp(left[i]) * 32767)
		r := int16(clamp(right[i]) * 32767)
		binary.LittleEndian.PutUint16(p[i*4:], uint16(l))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(r))
	}
}

func clamp(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
