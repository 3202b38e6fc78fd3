// Package claude translates dictionary definitions with Anthropic models.
package claude

import (
	"context"
	"fmt"
	"log/slog"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/lessico/internal/adapter/provider/translate"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
)

// Provider is a Translator backed by the Messages API.
type Provider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// NewProvider creates a Provider. Extra request options are appended after
// the API key and timeout, so callers can point it at another base URL.
func NewProvider(cfg config.TranslateConfig, logger *slog.Logger, opts ...option.RequestOption) *Provider {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.Anthropic.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.Timeout > 0 {
		base = append(base, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Provider{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     cfg.Anthropic.Model,
		maxTokens: int64(cfg.Anthropic.MaxTokens),
		log:       logger.With("adapter", "claude"),
	}
}

// Translate asks the model for a bare translation of text.
func (p *Provider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: translate.Instruction(sourceLang, targetLang)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		p.log.ErrorContext(ctx, "claude call failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("claude: messages api: %w", err)
	}

	if len(msg.Content) == 0 {
		return "", fmt.Errorf("claude: empty response: %w", domain.ErrTranslationUnavailable)
	}

	out := translate.CleanOutput(msg.Content[0].Text)
	if out == "" {
		return "", fmt.Errorf("claude: empty translation: %w", domain.ErrTranslationUnavailable)
	}
	return out, nil
}
