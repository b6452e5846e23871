package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
)

const defaultTimeout = 300 * time.Second

// Config selects the chat model stories are written with.
type Config struct {
	Driver  string
	Name    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// Create builds the chat model for cfg.Driver.
func Create(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("no model name configured for driver %q", cfg.Driver)
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "ollama":
		return NewOllama(ctx, cfg)
	case "openai":
		m, err := NewOpenAI(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("openai: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}
