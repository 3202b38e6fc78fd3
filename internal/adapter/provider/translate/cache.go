package translate

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	text, source, target string
}

// Cached memoizes successful translations of a wrapped Translator.
// WordNet glosses repeat across lookups, so hits skip the remote call.
// Failures are never cached.
type Cached struct {
	next  Translator
	cache *lru.Cache[cacheKey, string]
	log   *slog.Logger
}

// NewCached wraps next with an LRU cache holding up to size translations.
func NewCached(next Translator, size int, logger *slog.Logger) (*Cached, error) {
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("translate: create cache: %w", err)
	}
	return &Cached{
		next:  next,
		cache: cache,
		log:   logger.With("adapter", "translate_cache"),
	}, nil
}

// Translate returns a cached translation or delegates to the wrapped Translator.
func (c *Cached) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := cacheKey{text: text, source: sourceLang, target: targetLang}
	if v, ok := c.cache.Get(key); ok {
		c.log.DebugContext(ctx, "translation cache hit", slog.Int("len", len(text)))
		return v, nil
	}

	out, err := c.next.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}
	if out != "" {
		c.cache.Add(key, out)
	}
	return out, nil
}

// Len reports the number of cached translations.
func (c *Cached) Len() int { return c.cache.Len() }
