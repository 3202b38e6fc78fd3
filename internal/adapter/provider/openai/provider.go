// Package openai translates dictionary definitions through an
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/heartmarshall/lessico/internal/adapter/provider/translate"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Provider is a Translator backed by /chat/completions.
type Provider struct {
	client openaisdk.Client
	model  string
	log    *slog.Logger
}

// NewProvider creates a Provider. Extra options override the defaults.
func NewProvider(cfg config.TranslateConfig, logger *slog.Logger, opts ...option.RequestOption) *Provider {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.OpenAI.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	if cfg.Timeout > 0 {
		base = append(base, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Provider{
		client: openaisdk.NewClient(append(base, opts...)...),
		model:  cfg.OpenAI.Model,
		log:    logger.With("adapter", "openai"),
	}
}

// Translate asks the model for a bare translation of text.
func (p *Provider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	req := chatRequest{
		Model:       p.model,
		Temperature: 0,
		MaxTokens:   512,
		Messages: []chatMessage{
			{Role: "system", Content: translate.Instruction(sourceLang, targetLang)},
			{Role: "user", Content: text},
		},
	}

	var out chatResponse
	if err := p.client.Post(ctx, "chat/completions", req, &out); err != nil {
		p.log.ErrorContext(ctx, "openai call failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("openai: chat completions: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("openai: %w", errors.New(out.Error.Message))
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned: %w", domain.ErrTranslationUnavailable)
	}

	translated := translate.CleanOutput(out.Choices[0].Message.Content)
	if translated == "" {
		return "", fmt.Errorf("openai: empty translation: %w", domain.ErrTranslationUnavailable)
	}
	return translated, nil
}
