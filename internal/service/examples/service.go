// Package examples searches the parallel corpus for sentences that use a word.
package examples

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/lessico/internal/adapter/corpus/tmx"
	"github.com/heartmarshall/lessico/internal/domain"
	"github.com/heartmarshall/lessico/pkg/wordmatch"
)

// Source opens an independent read handle on a corpus. Implementations must
// return a fresh stream per call.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Service implements corpus example search.
type Service struct {
	log *slog.Logger
	max int
}

// NewService creates a new examples service returning at most
// domain.MaxExamples entries per query.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		log: logger.With("service", "examples"),
		max: domain.MaxExamples,
	}
}

// SearchExamples scans src in file order and returns the first sentence pairs
// whose source segment contains word as a whole token, case-insensitively.
// Scanning stops as soon as the cap is reached.
//
// An unreadable or malformed corpus yields domain.ErrCorpusUnavailable; no
// match is an empty result.
func (s *Service) SearchExamples(ctx context.Context, src Source, word string) (*domain.ExampleSearchResult, error) {
	word = domain.NormalizeWord(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "required")
	}

	rc, err := src.Open(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "open corpus failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("examples: %w: %w", domain.ErrCorpusUnavailable, err)
	}
	defer rc.Close()

	matcher := wordmatch.New(word)
	entries := make([]domain.CorpusEntry, 0, s.max)
	scanned := 0

	err = tmx.Scan(rc, func(u tmx.Unit) bool {
		if ctx.Err() != nil {
			return false
		}
		scanned++
		if len(u.Segments) < 2 {
			return true
		}
		if matcher.Match(u.Segments[0]) {
			entries = append(entries, domain.CorpusEntry{
				SourceText: u.Segments[0],
				TargetText: u.Segments[1],
			})
		}
		return len(entries) < s.max
	})
	if err != nil {
		s.log.ErrorContext(ctx, "scan corpus failed",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("examples: %w: %w", domain.ErrCorpusUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "examples search done",
		slog.String("word", word),
		slog.Int("units_scanned", scanned),
		slog.Int("matches", len(entries)),
	)

	return &domain.ExampleSearchResult{Word: word, Entries: entries}, nil
}
