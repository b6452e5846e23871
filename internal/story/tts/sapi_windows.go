//go:build windows

package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// SAPIEngine drives Windows System.Speech through PowerShell. Text and voice
// travel in environment variables so they never need quoting.
type SAPIEngine struct {
	config  Config
	cmd     *exec.Cmd
	playing bool
	mutex   sync.RWMutex
}

const sapiSpeakScript = `Add-Type -AssemblyName System.Speech;
$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer;
$synth.Rate = [int]$env:WONDERLAND_TTS_RATE;
$synth.Volume = [int]$env:WONDERLAND_TTS_VOLUME;
if ($env:WONDERLAND_TTS_VOICE) { $synth.SelectVoice($env:WONDERLAND_TTS_VOICE) }
$synth.Speak($env:WONDERLAND_TTS_TEXT)`

const sapiVoicesScript = `Add-Type -AssemblyName System.Speech;
$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer;
$synth.GetInstalledVoices() | ForEach-Object { $_.VoiceInfo.Name }`

// newSAPIEngine creates a new Windows SAPI TTS engine
func newSAPIEngine(config Config) (*SAPIEngine, error) {
	if _, err := exec.LookPath("powershell"); err != nil {
		return nil, fmt.Errorf("powershell not found: %w", err)
	}
	return &SAPIEngine{config: config}, nil
}

// sapiRate maps words per minute onto SAPI's -10..10 scale, 0 being ~160 wpm.
func sapiRate(wpm int) int {
	r := (wpm - DefaultRate) / 16
	return max(-10, min(10, r))
}

func (s *SAPIEngine) Speak(ctx context.Context, text string) error {
	s.mutex.Lock()
	if s.playing {
		s.mutex.Unlock()
		return fmt.Errorf("already playing")
	}

	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", sapiSpeakScript)
	cmd.Env = append(os.Environ(),
		"WONDERLAND_TTS_TEXT="+text,
		"WONDERLAND_TTS_VOICE="+s.config.Voice,
		fmt.Sprintf("WONDERLAND_TTS_RATE=%d", sapiRate(s.config.Rate)),
		fmt.Sprintf("WONDERLAND_TTS_VOLUME=%d", int(s.config.Volume*100)),
	)
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
		return fmt.Errorf("SAPI: %w", err)
	}
	return nil
}

func (s *SAPIEngine) Stop() error {
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

func (s *SAPIEngine) SetVoice(voice string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.config.Voice = voice
	return nil
}

func (s *SAPIEngine) SetRate(wpm int) error {
	if wpm <= 0 {
		return fmt.Errorf("rate must be positive")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.config.Rate = wpm
	return nil
}

func (s *SAPIEngine) SetVolume(volume float64) error {
	if volume < 0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0 and 1.0")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.config.Volume = volume
	return nil
}

// Close kills a running utterance; the engine holds nothing else open.
func (s *SAPIEngine) Close() error {
	return s.Stop()
}

func (s *SAPIEngine) IsPlaying() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.playing
}

func (s *SAPIEngine) GetAvailableVoices() ([]string, error) {
	output, err := exec.Command("powershell", "-NoProfile", "-Command", sapiVoicesScript).Output()
	if err != nil {
		return nil, err
	}

	var voices []string
	for _, line := range strings.Split(string(output), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			voices = append(voices, name)
		}
	}
	return voices, nil
}
