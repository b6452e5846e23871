package tts

import (
	"context"
	"sync"
)

// MockEngine records what it was asked to say instead of playing audio.
type MockEngine struct {
	mu      sync.Mutex
	config  Config
	voices  []string
	spoken  []string
	playing bool
	closed  int

	// SpeakErr is returned from Speak when set.
	SpeakErr error
	// Spoken receives each text passed to Speak when non-nil.
	Spoken chan string
}

func NewMockEngine(c Config, voices ...string) *MockEngine {
	if len(voices) == 0 {
		voices = []string{"mock-voice"}
	}
	return &MockEngine{
		config: c,
		voices: voices,
	}
}

func (m *MockEngine) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.playing = true
	err := m.SpeakErr
	ch := m.Spoken
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.playing = false
		m.mu.Unlock()
	}()

	if ch != nil {
		select {
		case ch <- text:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Texts returns everything spoken so far.
func (m *MockEngine) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}

// Config returns the settings applied so far.
func (m *MockEngine) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

func (m *MockEngine) GetAvailableVoices() ([]string, error) {
	return m.voices, nil
}

func (m *MockEngine) SetVoice(voice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Voice = voice
	return nil
}

func (m *MockEngine) SetRate(wpm int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Rate = wpm
	return nil
}

func (m *MockEngine) SetVolume(volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Volume = volume
	return nil
}

func (m *MockEngine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	return nil
}

func (m *MockEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	m.playing = false
	return nil
}

// Closed reports how many times Close was called.
func (m *MockEngine) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockEngine) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}
