// Cross-platform eSpeak implementation
package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// ESpeakEngine implements TTS using eSpeak/eSpeak-NG
type ESpeakEngine struct {
	config  Config
	path    string
	cmd     *exec.Cmd
	playing bool
	mutex   sync.RWMutex
}

// newESpeakEngine creates a new eSpeak TTS engine
func newESpeakEngine(config Config) (*ESpeakEngine, error) {
	espeakPath, err := findESpeakExecutable()
	if err != nil {
		return nil, fmt.Errorf("eSpeak not found: %w", err)
	}

	return &ESpeakEngine{
		config: config,
		path:   espeakPath,
	}, nil
}

func findESpeakExecutable() (string, error) {
	for _, candidate := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("eSpeak executable not found in PATH")
}

func (e *ESpeakEngine) args(text string) []string {
	var args []string

	if e.config.Voice != "" && e.config.Voice != "default" {
		args = append(args, "-v", e.config.Voice)
	}

	// words per minute; eSpeak's own default is 175
	if e.config.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(e.config.Rate))
	}

	// amplitude 0-200, 100 is eSpeak's normal level
	args = append(args, "-a", strconv.Itoa(int(100*e.config.Volume)))

	return append(args, "--", text)
}

func (e *ESpeakEngine) Speak(ctx context.Context, text string) error {
	e.mutex.Lock()
	if e.playing {
		e.mutex.Unlock()
		return fmt.Errorf("already playing")
	}
	cmd := exec.CommandContext(ctx, e.path, e.args(text)...)
	e.cmd = cmd
	e.playing = true
	e.mutex.Unlock()

	defer func() {
		e.mutex.Lock()
		e.playing = false
		e.cmd = nil
		e.mutex.Unlock()
	}()

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("espeak: %w", err)
	}
	return nil
}

func (e *ESpeakEngine) Stop() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.cmd != nil && e.cmd.Process != nil {
		if err := e.cmd.Process.Kill(); err != nil {
			return err
		}
	}

	e.playing = false
	return nil
}

func (e *ESpeakEngine) SetVoice(voice string) error {
	voices, err := e.GetAvailableVoices()
	if err != nil {
		return err
	}
	if !slices.Contains(voices, voice) {
		return fmt.Errorf("voice '%s' not available", voice)
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.config.Voice = voice
	return nil
}

func (e *ESpeakEngine) SetRate(wpm int) error {
	if wpm < 80 || wpm > 450 {
		return fmt.Errorf("rate must be between 80 and 450 words per minute")
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.config.Rate = wpm
	return nil
}

func (e *ESpeakEngine) SetVolume(volume float64) error {
	if volume < 0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0 and 1.0")
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.config.Volume = volume
	return nil
}

// Close kills a running utterance; the engine holds nothing else open.
func (e *ESpeakEngine) Close() error {
	return e.Stop()
}

func (e *ESpeakEngine) IsPlaying() bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.playing
}

func (e *ESpeakEngine) GetAvailableVoices() ([]string, error) {
	output, err := exec.Command(e.path, "--voices").Output()
	if err != nil {
		return nil, err
	}

	voices := parseESpeakVoices(string(output))
	if len(voices) == 0 {
		return nil, errors.New("espeak reported no voices")
	}
	return voices, nil
}

func parseESpeakVoices(output string) []string {
	lines := strings.Split(output, "\n")
	voices := make([]string, 0)

	for i, line := range lines {
		// Skip header line
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		// Pty Language Age/Gender VoiceName          File          Other Languages
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			voices = append(voices, fields[3])
		}
	}

	return voices
}
