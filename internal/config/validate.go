package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if strings.TrimSpace(c.Lexicon.SourceLang) == "" {
		return fmt.Errorf("lexicon.source_lang is required")
	}
	if strings.TrimSpace(c.Lexicon.DefinitionLang) == "" {
		return fmt.Errorf("lexicon.definition_lang is required")
	}

	if err := c.Translate.validate(); err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	if err := c.Corpus.validate(); err != nil {
		return fmt.Errorf("corpus: %w", err)
	}

	if c.Lookup.MaxParallelTranslations < 1 {
		return fmt.Errorf("lookup.max_parallel_translations must be >= 1 (got %d)", c.Lookup.MaxParallelTranslations)
	}

	if c.Dispatch.SessionStoreSize < 1 {
		return fmt.Errorf("dispatch.session_store_size must be >= 1 (got %d)", c.Dispatch.SessionStoreSize)
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}

var translateProviders = []string{
	TranslateProviderNone,
	TranslateProviderOpusMT,
	TranslateProviderLambda,
	TranslateProviderAnthropic,
	TranslateProviderOpenAI,
}

func (t *TranslateConfig) validate() error {
	if !slices.Contains(translateProviders, t.Provider) {
		return fmt.Errorf("unknown provider %q (want one of %s)", t.Provider, strings.Join(translateProviders, ", "))
	}
	if t.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0 (got %d)", t.CacheSize)
	}

	switch t.Provider {
	case TranslateProviderOpusMT:
		if t.OpusMT.BaseURL == "" || t.OpusMT.Model == "" {
			return fmt.Errorf("opusmt.base_url and opusmt.model are required")
		}
	case TranslateProviderLambda:
		if t.Lambda.FunctionName == "" {
			return fmt.Errorf("lambda.function_name is required")
		}
	case TranslateProviderAnthropic:
		if t.Anthropic.APIKey == "" {
			return fmt.Errorf("anthropic.api_key is required")
		}
	case TranslateProviderOpenAI:
		if t.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required")
		}
	}
	return nil
}

func (c *CorpusConfig) validate() error {
	switch c.Source {
	case CorpusSourceFile:
		if c.Path == "" {
			return fmt.Errorf("path is required for file source")
		}
	case CorpusSourceS3:
		if c.S3.Bucket == "" || c.S3.Key == "" {
			return fmt.Errorf("s3.bucket and s3.key are required for s3 source")
		}
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	return nil
}
