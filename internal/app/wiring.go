package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lessico/internal/adapter/corpus"
	"github.com/heartmarshall/lessico/internal/adapter/corpus/s3source"
	"github.com/heartmarshall/lessico/internal/adapter/provider/claude"
	"github.com/heartmarshall/lessico/internal/adapter/provider/openai"
	"github.com/heartmarshall/lessico/internal/adapter/provider/opuslambda"
	"github.com/heartmarshall/lessico/internal/adapter/provider/opusmt"
	"github.com/heartmarshall/lessico/internal/adapter/provider/translate"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/service/examples"
)

// NewTranslator builds the configured translation client, wrapped in an LRU
// cache unless cfg.CacheSize is 0.
func NewTranslator(ctx context.Context, cfg config.TranslateConfig, logger *slog.Logger) (translate.Translator, error) {
	var tr translate.Translator

	switch cfg.Provider {
	case config.TranslateProviderNone:
		tr = translate.NewStub()
	case config.TranslateProviderOpusMT:
		tr = opusmt.NewProvider(cfg, logger)
	case config.TranslateProviderLambda:
		p, err := opuslambda.New(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("translator: %w", err)
		}
		tr = p
	case config.TranslateProviderAnthropic:
		tr = claude.NewProvider(cfg, logger)
	case config.TranslateProviderOpenAI:
		tr = openai.NewProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("translator: unknown provider %q", cfg.Provider)
	}

	if cfg.CacheSize == 0 {
		return tr, nil
	}
	cached, err := translate.NewCached(tr, cfg.CacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("translator: %w", err)
	}
	return cached, nil
}

// NewCorpusSource builds the configured TMX corpus source.
func NewCorpusSource(ctx context.Context, cfg config.CorpusConfig, logger *slog.Logger) (examples.Source, error) {
	switch cfg.Source {
	case config.CorpusSourceFile:
		return corpus.NewFileSource(cfg.Path), nil
	case config.CorpusSourceS3:
		src, err := s3source.New(ctx, cfg.S3, logger)
		if err != nil {
			return nil, fmt.Errorf("corpus: %w", err)
		}
		return src, nil
	default:
		return nil, fmt.Errorf("corpus: unknown source %q", cfg.Source)
	}
}
