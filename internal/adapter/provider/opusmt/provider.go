// Package opusmt translates text with a Marian/Opus-MT model served over an
// HTTP inference endpoint (Hugging Face Inference API or a compatible server).
package opusmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/lessico/internal/adapter/provider/translate"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
)

const defaultRetryDelay = 500 * time.Millisecond

// Provider translates text through one Opus-MT model. A model covers a single
// language pair, so the pair is fixed at construction.
type Provider struct {
	endpoint   string
	apiKey     string
	sourceLang string
	targetLang string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewProvider creates a Provider for the model and pair in cfg.
func NewProvider(cfg config.TranslateConfig, logger *slog.Logger) *Provider {
	return &Provider{
		endpoint:   strings.TrimRight(cfg.OpusMT.BaseURL, "/") + "/" + cfg.OpusMT.Model,
		apiKey:     cfg.OpusMT.APIKey,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryDelay: defaultRetryDelay,
		log:        logger.With("adapter", "opusmt"),
	}
}

// Translate sends text to the model and returns its translation.
// Requests for a language pair other than the model's fail with
// domain.ErrTranslationUnavailable without a network call.
func (p *Provider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if !strings.EqualFold(sourceLang, p.sourceLang) || !strings.EqualFold(targetLang, p.targetLang) {
		return "", fmt.Errorf("opusmt: model serves %s->%s, asked %s->%s: %w",
			p.sourceLang, p.targetLang, sourceLang, targetLang, domain.ErrTranslationUnavailable)
	}

	payload, err := json.Marshal(apiRequest{Inputs: text, Options: apiOptions{WaitForModel: true}})
	if err != nil {
		return "", fmt.Errorf("opusmt: encode request: %w", err)
	}

	p.log.DebugContext(ctx, "opusmt request", slog.Int("len", len(text)))

	resp, err := p.doWithRetry(ctx, payload)
	if err != nil {
		p.log.ErrorContext(ctx, "opusmt request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("opusmt: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("opusmt: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Error != "" {
			return "", fmt.Errorf("opusmt: unexpected status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("opusmt: unexpected status %d", resp.StatusCode)
	}

	var out []apiTranslation
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("opusmt: decode json: %w", err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].TranslationText) == "" {
		return "", fmt.Errorf("opusmt: empty translation: %w", domain.ErrTranslationUnavailable)
	}

	translated := translate.CleanOutput(out[0].TranslationText)

	p.log.DebugContext(ctx, "opusmt response",
		slog.Int("status", resp.StatusCode),
		slog.Int("len", len(translated)),
	)

	return translated, nil
}

func (p *Provider) newRequest(ctx context.Context, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	return req, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := p.newRequest(ctx, payload)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "opusmt retry", slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.retryDelay):
	}

	req, err = p.newRequest(ctx, payload)
	if err != nil {
		return nil, err
	}
	return p.httpClient.Do(req)
}
