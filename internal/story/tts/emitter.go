package tts

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// EngineFactory builds the engine a single utterance is spoken with.
type EngineFactory func(Config) (Engine, error)

// Emitter reads text aloud. Each utterance gets a fresh engine.
type Emitter struct {
	config    Config
	newEngine EngineFactory
	log       logrus.FieldLogger
}

type EmitterOption func(*Emitter)

// WithEngineFactory replaces NewEngine.
func WithEngineFactory(f EngineFactory) EmitterOption {
	return func(e *Emitter) {
		e.newEngine = f
	}
}

func NewEmitter(config Config, log logrus.FieldLogger, opts ...EmitterOption) *Emitter {
	if config.Rate <= 0 {
		config.Rate = DefaultRate
	}
	e := &Emitter{
		config:    config,
		newEngine: NewEngine,
		log:       log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Speak reads text aloud in the background and returns immediately. Empty
// text does nothing. Failures are logged and never reach the caller.
func (e *Emitter) Speak(text string) {
	if text == "" {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.WithField("panic", r).Warn("speech engine panicked")
			}
		}()

		if err := e.Say(context.Background(), text); err != nil {
			e.log.WithError(err).Warn("could not read story aloud")
		}
	}()
}

// Say reads text aloud and waits for playback to end.
func (e *Emitter) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	engine, err := e.newEngine(e.config)
	if err != nil {
		return fmt.Errorf("speech engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			e.log.WithError(err).Debug("closing speech engine")
		}
	}()

	if err := engine.SetRate(e.config.Rate); err != nil {
		e.log.WithError(err).Debug("keeping engine rate")
	}
	if err := engine.SetVolume(e.config.Volume); err != nil {
		e.log.WithError(err).Debug("keeping engine volume")
	}

	voice := e.config.Voice
	if voice == "" {
		voices, err := engine.GetAvailableVoices()
		if err != nil {
			e.log.WithError(err).Debug("could not list voices")
		}
		voice = PreferredVoice(voices)
	}
	if voice != "" {
		if err := engine.SetVoice(voice); err != nil {
			e.log.WithError(err).WithField("voice", voice).Debug("falling back to default voice")
		}
	}

	if err := engine.Speak(ctx, text); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}
