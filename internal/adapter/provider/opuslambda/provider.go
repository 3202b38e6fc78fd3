// Package opuslambda translates text by invoking an AWS Lambda that wraps an
// Opus-MT model.
package opuslambda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/heartmarshall/lessico/internal/adapter/provider/translate"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
)

// Invoker is the subset of the Lambda client the provider needs.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// translatorRequest is the chunked payload the translator function accepts.
type translatorRequest struct {
	Chunks     [][]string `json:"chunks"`
	TargetLang string     `json:"target_lang,omitempty"`
}

type translatorResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// Provider calls one translator function for a fixed language pair.
type Provider struct {
	client       Invoker
	functionName string
	sourceLang   string
	targetLang   string
	log          *slog.Logger
}

// New loads the default AWS configuration and creates a Provider.
func New(ctx context.Context, cfg config.TranslateConfig, logger *slog.Logger) (*Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Lambda.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Lambda.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("opuslambda: load aws config: %w", err)
	}
	return NewWithClient(lambda.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewWithClient creates a Provider around an existing Invoker.
func NewWithClient(client Invoker, cfg config.TranslateConfig, logger *slog.Logger) *Provider {
	return &Provider{
		client:       client,
		functionName: cfg.Lambda.FunctionName,
		sourceLang:   cfg.SourceLang,
		targetLang:   cfg.TargetLang,
		log:          logger.With("adapter", "opuslambda"),
	}
}

// Translate invokes the translator function with a single one-text chunk.
func (p *Provider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if !strings.EqualFold(sourceLang, p.sourceLang) || !strings.EqualFold(targetLang, p.targetLang) {
		return "", fmt.Errorf("opuslambda: %s serves %s->%s, asked %s->%s: %w",
			p.functionName, p.sourceLang, p.targetLang, sourceLang, targetLang, domain.ErrTranslationUnavailable)
	}

	payload, err := json.Marshal(translatorRequest{
		Chunks:     [][]string{{text}},
		TargetLang: p.targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("opuslambda: marshal request: %w", err)
	}

	out, err := p.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(p.functionName),
		Payload:      payload,
	})
	if err != nil {
		p.log.ErrorContext(ctx, "lambda invoke failed",
			slog.String("function", p.functionName),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("opuslambda: invoke %s: %w", p.functionName, err)
	}
	if out.FunctionError != nil {
		return "", fmt.Errorf("opuslambda: function error: %s", aws.ToString(out.FunctionError))
	}

	var resp translatorResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return "", fmt.Errorf("opuslambda: parse response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("opuslambda: translator error: %s", resp.Error)
	}
	if len(resp.Translations) == 0 || len(resp.Translations[0]) == 0 {
		return "", fmt.Errorf("opuslambda: empty translation: %w", domain.ErrTranslationUnavailable)
	}

	translated := translate.CleanOutput(resp.Translations[0][0])
	if translated == "" {
		return "", fmt.Errorf("opuslambda: empty translation: %w", domain.ErrTranslationUnavailable)
	}
	return translated, nil
}
