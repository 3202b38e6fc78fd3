// Package lookup resolves the senses of a word from the lexical database and
// translates their definitions.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lessico/internal/domain"
)

type lexiconReader interface {
	SensesFor(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error)
}

type translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Config holds the language tags and fan-out limit of the service.
type Config struct {
	// DefinitionLang is the lexicon language the definitions are stored in.
	DefinitionLang string
	// TranslateFrom and TranslateTo are passed to the translator.
	TranslateFrom string
	TranslateTo   string
	// MaxParallel bounds concurrent translation calls per lookup.
	MaxParallel int
}

// Service implements sense lookup.
type Service struct {
	log        *slog.Logger
	lexicon    lexiconReader
	translator translator
	cfg        Config
}

// NewService creates a new lookup service.
func NewService(logger *slog.Logger, lexicon lexiconReader, tr translator, cfg Config) *Service {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 1
	}
	return &Service{
		log:        logger.With("service", "lookup"),
		lexicon:    lexicon,
		translator: tr,
		cfg:        cfg,
	}
}

// LookupSenses returns every sense of word in lang, ordered as the lexical
// database orders them, with translated definitions.
//
// No senses is a normal empty result. A translation failure degrades only the
// affected sense. Lexicon failures are reported as domain.ErrLexiconUnavailable.
func (s *Service) LookupSenses(ctx context.Context, word, lang string) (*domain.SenseLookupResult, error) {
	word = domain.NormalizeWord(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "required")
	}

	lexical, err := s.lexicon.SensesFor(ctx, word, lang, s.cfg.DefinitionLang)
	if err != nil {
		s.log.ErrorContext(ctx, "lexicon query failed",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("lookup: senses for %q: %w: %w", word, domain.ErrLexiconUnavailable, err)
	}

	result := &domain.SenseLookupResult{
		Word:   word,
		Lang:   lang,
		Senses: make([]domain.Sense, len(lexical)),
	}
	if len(lexical) == 0 {
		return result, nil
	}

	for i, ls := range lexical {
		result.Senses[i] = domain.Sense{
			Definition: ls.Definition,
			Synonyms:   synonyms(ls.Lemmas, word),
		}
	}

	if err := s.translateAll(ctx, result.Senses); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "lookup done",
		slog.String("word", word),
		slog.Int("senses", len(result.Senses)),
		slog.Bool("degraded", result.Degraded()),
	)

	return result, nil
}

// translateAll fills TranslatedDefinition for each sense in place. Each
// goroutine owns one index, so completion order never affects the output.
func (s *Service) translateAll(ctx context.Context, senses []domain.Sense) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallel)

	for i := range senses {
		if senses[i].Definition == "" {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sense := &senses[i]
			out, err := s.translator.Translate(gctx, sense.Definition, s.cfg.TranslateFrom, s.cfg.TranslateTo)
			out = strings.TrimSpace(out)
			if err != nil || out == "" {
				attrs := []any{slog.Int("sense", i)}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
				}
				s.log.WarnContext(gctx, "definition translation unavailable", attrs...)
				sense.TranslatedDefinition = domain.TranslationUnavailableText
				sense.TranslationUnavailable = true
				return nil
			}
			sense.TranslatedDefinition = out
			return nil
		})
	}

	// Workers never return errors; Wait only joins.
	_ = g.Wait()

	return ctx.Err()
}

// synonyms returns lemmas without exact matches of word, keeping order.
func synonyms(lemmas []string, word string) []string {
	out := make([]string, 0, len(lemmas))
	for _, l := range lemmas {
		if l == word {
			continue
		}
		out = append(out, l)
	}
	return out
}
