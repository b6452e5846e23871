package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func isolate(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	empty := t.TempDir()
	t.Setenv("WONDERLAND_CONFIG_HOME", empty)
	t.Setenv("XDG_CONFIG_HOME", empty)
	t.Setenv("HOME", empty)
	t.Chdir(empty)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	if err := Init(""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Model.Driver != "ollama" || c.Model.Name != "phi3" {
		t.Errorf("model = %+v, want ollama/phi3", c.Model)
	}
	if c.Model.Timeout != 300*time.Second {
		t.Errorf("timeout = %v", c.Model.Timeout)
	}
	if c.TTS.Type != "auto" || c.TTS.Rate != 160 || c.TTS.Volume != 1.0 || c.TTS.Voice != "" {
		t.Errorf("tts = %+v", c.TTS)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	t.Setenv("WONDERLAND_CONFIG_HOME", dir)
	yaml := `model:
  driver: openai
  name: gpt-4o-mini
  api_key: secret
tts:
  rate: 120
  volume: 0.5
`
	if err := os.WriteFile(filepath.Join(dir, "wonderland.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Init(""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Model.Driver != "openai" || c.Model.Name != "gpt-4o-mini" || c.Model.APIKey != "secret" {
		t.Errorf("model = %+v", c.Model)
	}
	if c.TTS.Rate != 120 || c.TTS.Volume != 0.5 {
		t.Errorf("tts = %+v", c.TTS)
	}
	if c.TTS.Type != "auto" {
		t.Errorf("unset keys should keep defaults, got type %q", c.TTS.Type)
	}
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("WONDERLAND_MODEL_NAME", "llama3")
	t.Setenv("WONDERLAND_TTS_TYPE", "mock")

	if err := Init(""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Model.Name != "llama3" {
		t.Errorf("model name = %q, want llama3", c.Model.Name)
	}
	if c.TTS.Type != "mock" {
		t.Errorf("tts type = %q, want mock", c.TTS.Type)
	}
}

func TestInitExplicitFileMustExist(t *testing.T) {
	isolate(t)

	err := Init(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	isolate(t)
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	base, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero rate", func(c *Config) { c.TTS.Rate = 0 }, "tts.rate"},
		{"loud volume", func(c *Config) { c.TTS.Volume = 1.5 }, "tts.volume"},
		{"negative volume", func(c *Config) { c.TTS.Volume = -0.1 }, "tts.volume"},
		{"no model", func(c *Config) { c.Model.Name = "" }, "model.name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error about %s", err, tt.want)
			}
		})
	}
}

func TestSearchPathsOrder(t *testing.T) {
	t.Setenv("WONDERLAND_CONFIG_HOME", "/custom")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	dirs, err := SearchPaths()
	if err != nil {
		t.Fatal(err)
	}
	if dirs[0] != "/custom" || dirs[1] != filepath.Join("/xdg", "wonderland") {
		t.Errorf("dirs = %v", dirs)
	}
	if dirs[len(dirs)-1] != "." {
		t.Errorf("working directory should be searched last, got %v", dirs)
	}
}

func TestLoadLog(t *testing.T) {
	t.Setenv("WONDERLAND_LOG_FILE", "/tmp/wonderland.log")
	t.Setenv("WONDERLAND_LOG_LEVEL", "debug")

	c, err := LoadLog()
	if err != nil {
		t.Fatal(err)
	}
	if c.File != "/tmp/wonderland.log" || c.Level != "debug" {
		t.Errorf("LoadLog() = %+v", c)
	}
}

func TestLoadLogDefaults(t *testing.T) {
	for _, k := range []string{"WONDERLAND_LOG_FILE", "WONDERLAND_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	c, err := LoadLog()
	if err != nil {
		t.Fatal(err)
	}
	if c.File != "" || c.Level != "info" {
		t.Errorf("LoadLog() = %+v", c)
	}
}
