//go:build darwin

package tts

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// SayEngine speaks through the macOS `say` command.
type SayEngine struct {
	config  Config
	cmd     *exec.Cmd
	playing bool
	mutex   sync.RWMutex
}

func newSayEngine(config Config) (*SayEngine, error) {
	if _, err := exec.LookPath("say"); err != nil {
		return nil, fmt.Errorf("say not found: %w", err)
	}
	return &SayEngine{config: config}, nil
}

func (s *SayEngine) Speak(ctx context.Context, text string) error {
	s.mutex.Lock()
	if s.playing {
		s.mutex.Unlock()
		return fmt.Errorf("already playing")
	}

	var args []string
	if s.config.Voice != "" && s.config.Voice != "default" {
		args = append(args, "-v", s.config.Voice)
	}
	if s.config.Rate > 0 {
		args = append(args, "-r", strconv.Itoa(s.config.Rate))
	}
	// say has no volume flag; the [[volm]] embedded command takes 0..1
	args = append(args, fmt.Sprintf("[[volm %.2f]] %s", s.config.Volume, text))

	cmd := exec.CommandContext(ctx, "say", args...)
	s.cmd = cmd
	s.playing = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.playing = false
		s.cmd = nil
		s.mutex.Unlock()
	}()

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("say: %w", err)
	}
	return nil
}

func (s *SayEngine) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil {
			return err
		}
	}
	s.playing = false
	return nil
}

func (s *SayEngine) SetVoice(voice string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.config.Voice = voice
	return nil
}

func (s *SayEngine) SetRate(wpm int) error {
	if wpm <= 0 {
		return fmt.Errorf("rate must be positive")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.config.Rate = wpm
	return nil
}

func (s *SayEngine) SetVolume(volume float64) error {
	if volume < 0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0 and 1.0")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.config.Volume = volume
	return nil
}

// Close kills a running utterance; the engine holds nothing else open.
func (s *SayEngine) Close() error {
	return s.Stop()
}

func (s *SayEngine) IsPlaying() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.playing
}

// "Albert              en_US    # Hello! My name is Albert."
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s{2,}[a-z]{2}[_-][A-Za-z0-9]+\s+#`)

func (s *SayEngine) GetAvailableVoices() ([]string, error) {
	output, err := exec.Command("say", "-v", "?").Output()
	if err != nil {
		return nil, err
	}

	var voices []string
	for _, line := range strings.Split(string(output), "\n") {
		if m := sayVoiceLine.FindStringSubmatch(line); m != nil {
			voices = append(voices, strings.TrimSpace(m[1]))
		}
	}
	return voices, nil
}
