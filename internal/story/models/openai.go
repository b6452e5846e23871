package models

import (
	"context"
	"errors"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// ErrMissingAPIKey is returned when a hosted driver has no key configured.
var ErrMissingAPIKey = errors.New("missing api key")

// NewOpenAI creates an OpenAI-compatible chat model.
func NewOpenAI(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	modelConfig := &einoopenai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Name,
		Timeout: cfg.timeout(),
	}
	if cfg.BaseURL != "" {
		modelConfig.BaseURL = cfg.BaseURL
	}

	return einoopenai.NewChatModel(ctx, modelConfig)
}
