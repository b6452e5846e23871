package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wonderland/internal/story/models"
	"wonderland/internal/story/tts"

	"github.com/caarlos0/env/v11"
	gap "github.com/muesli/go-app-paths"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	appName    = "wonderland"
	configType = "yaml"
)

// model.base_url is read from WONDERLAND_MODEL_BASE_URL.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config is everything the storyteller needs to write and read stories.
type Config struct {
	Model models.Config
	TTS   tts.Config
}

// LogConfig is read from the environment only, so logging can start
// before any config file is found.
type LogConfig struct {
	File  string `env:"WONDERLAND_LOG_FILE"`
	Level string `env:"WONDERLAND_LOG_LEVEL" envDefault:"info"`
}

func SetDefaults() {
	viper.SetDefault("model.driver", "ollama")
	viper.SetDefault("model.name", "phi3")
	viper.SetDefault("model.base_url", "")
	viper.SetDefault("model.api_key", "")
	viper.SetDefault("model.timeout", 300*time.Second)

	viper.SetDefault("tts.type", tts.EngineTypeAuto.String()) // Auto-select best engine
	viper.SetDefault("tts.voice", "")
	viper.SetDefault("tts.rate", tts.DefaultRate)
	viper.SetDefault("tts.volume", tts.DefaultVolume)
}

// SearchPaths lists the directories a config file is looked up in, most
// specific first.
func SearchPaths() ([]string, error) {
	scope := gap.NewScope(gap.User, appName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("config dirs: %w", err)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, appName)}, dirs...)
	}
	if c := os.Getenv("WONDERLAND_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return append(dirs, "."), nil
}

// Init points viper at the config file and environment. An explicit file
// must exist; a missing file in the default places is fine.
func Init(file string) error {
	SetDefaults()

	viper.SetEnvPrefix(appName)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		return nil
	}

	dirs, err := SearchPaths()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		viper.AddConfigPath(d)
	}
	viper.SetConfigName(appName)
	viper.SetConfigType(configType)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("parsing config file: %w", err)
		}
		logrus.Debug("no config file found, using defaults")
		return nil
	}

	logrus.WithField("path", viper.ConfigFileUsed()).Debug("using configuration file")
	return nil
}

// Load reads the current settings.
func Load() (Config, error) {
	c := Config{
		Model: models.Config{
			Driver:  viper.GetString("model.driver"),
			Name:    viper.GetString("model.name"),
			BaseURL: viper.GetString("model.base_url"),
			APIKey:  viper.GetString("model.api_key"),
			Timeout: viper.GetDuration("model.timeout"),
		},
		TTS: tts.Config{
			Type:   viper.GetString("tts.type"),
			Voice:  viper.GetString("tts.voice"),
			Rate:   viper.GetInt("tts.rate"),
			Volume: viper.GetFloat64("tts.volume"),
		},
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Model.Name == "" {
		return errors.New("model.name must be set")
	}
	if c.TTS.Rate <= 0 {
		return fmt.Errorf("tts.rate must be positive, got %d", c.TTS.Rate)
	}
	if c.TTS.Volume < 0 || c.TTS.Volume > 1 {
		return fmt.Errorf("tts.volume must be between 0 and 1, got %g", c.TTS.Volume)
	}
	return nil
}

// LoadLog reads the logging settings from the environment.
func LoadLog() (LogConfig, error) {
	c, err := env.ParseAs[LogConfig]()
	if err != nil {
		return LogConfig{}, fmt.Errorf("parsing log config: %w", err)
	}
	return c, nil
}
