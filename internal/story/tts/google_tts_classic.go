package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

const googleLanguageCode = "en-US"

// GoogleClassicEngine synthesizes with Google Cloud Text-to-Speech and plays
// the MP3 reply from memory. Nothing is written to disk.
type GoogleClassicEngine struct {
	client  *texttospeech.Client
	config  Config
	playing bool
	stop    chan struct{}
	mu      sync.Mutex
}

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

func newGoogleClassicEngine(config Config) (*GoogleClassicEngine, error) {
	client, err := texttospeech.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}

	return &GoogleClassicEngine{
		client: client,
		config: config,
	}, nil
}

func (g *GoogleClassicEngine) audioConfig() *texttospeechpb.AudioConfig {
	audioCfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
	}

	// Chirp voices don't accept speakingRate or volume
	if !strings.Contains(strings.ToLower(g.config.Voice), "chirp") {
		audioCfg.SpeakingRate = googleSpeakingRate(g.config.Rate)
		audioCfg.VolumeGainDb = googleVolumeGain(g.config.Volume)
	}
	return audioCfg
}

// googleSpeakingRate maps words per minute onto Google's relative rate,
// 1.0 being DefaultRate.
func googleSpeakingRate(wpm int) float64 {
	if wpm <= 0 {
		return 1.0
	}
	return math.Max(0.25, math.Min(4.0, float64(wpm)/DefaultRate))
}

// googleVolumeGain maps a 0..1 volume onto decibels of gain, 1.0 being 0 dB.
func googleVolumeGain(volume float64) float64 {
	if volume <= 0 {
		return -96
	}
	return math.Max(-96, math.Min(16, 20*math.Log10(volume)))
}

func (g *GoogleClassicEngine) Speak(ctx context.Context, text string) error {
	g.mu.Lock()
	if g.playing {
		g.mu.Unlock()
		return fmt.Errorf("already playing")
	}
	g.playing = true
	g.stop = make(chan struct{})
	stop := g.stop
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.playing = false
		g.mu.Unlock()
	}()

	chunks := splitIntoChunks(text, 4800) // a little under 5000 to be safe
	for i, chunk := range chunks {
		resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: googleLanguageCode,
				Name:         g.config.Voice,
			},
			AudioConfig: g.audioConfig(),
		})
		if err != nil {
			return fmt.Errorf("failed to synthesize chunk %d: %w", i, err)
		}

		if err := play(ctx, stop, resp.AudioContent); err != nil {
			return fmt.Errorf("failed to play chunk %d: %w", i, err)
		}
	}
	return nil
}

// play decodes an MP3 payload and blocks until it finished, was stopped or
// ctx ended.
func play(ctx context.Context, stop <-chan struct{}, audio []byte) error {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(audio)))
	if err != nil {
		return fmt.Errorf("failed to decode MP3: %w", err)
	}
	defer streamer.Close()

	speakerMu.Lock()
	if speakerRate != format.SampleRate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			speakerMu.Unlock()
			return err
		}
		speakerRate = format.SampleRate
	}
	speakerMu.Unlock()

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-stop:
		speaker.Clear()
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (g *GoogleClassicEngine) SetVoice(voice string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config.Voice = voice
	return nil
}

func (g *GoogleClassicEngine) SetRate(wpm int) error {
	if wpm <= 0 {
		return fmt.Errorf("rate must be positive")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config.Rate = wpm
	return nil
}

func (g *GoogleClassicEngine) SetVolume(volume float64) error {
	if volume < 0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0 and 1.0")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config.Volume = volume
	return nil
}

func (g *GoogleClassicEngine) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.playing && g.stop != nil {
		close(g.stop)
		g.stop = nil
	}
	return nil
}

// Close stops playback and closes the Cloud TTS client.
func (g *GoogleClassicEngine) Close() error {
	_ = g.Stop()
	return g.client.Close()
}

func (g *GoogleClassicEngine) IsPlaying() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playing
}

func (g *GoogleClassicEngine) GetAvailableVoices() ([]string, error) {
	resp, err := g.client.ListVoices(context.Background(), &texttospeechpb.ListVoicesRequest{
		LanguageCode: googleLanguageCode,
	})
	if err != nil {
		return nil, err
	}

	voices := make([]string, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, v.Name)
	}
	return voices, nil
}

func splitIntoChunks(text string, limit int) []string {
	var chunks []string
	runes := []rune(text) // safe for UTF-8
	for i := 0; i < len(runes); i += limit {
		end := min(i+limit, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
