// internal/story/tts/tts.go
package tts

import "context"

const (
	DefaultRate   = 160
	DefaultVolume = 1.0
)

type Config struct {
	Type   string
	Rate   int     // words per minute
	Volume float64 // 0..1
	Voice  string  // empty picks the engine's preferred voice
}

// DefaultConfig returns the settings stories are read with unless configured.
func DefaultConfig() Config {
	return Config{
		Type:   EngineTypeAuto.String(),
		Rate:   DefaultRate,
		Volume: DefaultVolume,
	}
}

// Engine interface for text-to-speech functionality
type Engine interface {
	// Speak synthesizes and plays text, returning once playback ends.
	Speak(ctx context.Context, text string) error
	SetVoice(voice string) error
	SetRate(wpm int) error
	SetVolume(volume float64) error
	Stop() error
	IsPlaying() bool
	GetAvailableVoices() ([]string, error)
	// Close releases whatever the engine holds open.
	Close() error
}

// PreferredVoice picks the second voice when more than one exists, falling
// back to the engine default (empty) otherwise.
func PreferredVoice(voices []string) string {
	if len(voices) > 1 {
		return voices[1]
	}
	return ""
}
