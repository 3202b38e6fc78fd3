package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lessico/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockLexicon struct {
	SensesForFunc func(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error)
}

func (m *mockLexicon) SensesFor(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error) {
	return m.SensesForFunc(ctx, word, lang, defLang)
}

type mockTranslator struct {
	TranslateFunc func(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	calls         atomic.Int32
}

func (m *mockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	m.calls.Add(1)
	return m.TranslateFunc(ctx, text, sourceLang, targetLang)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService(lex *mockLexicon, tr *mockTranslator, parallel int) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, lex, tr, Config{
		DefinitionLang: "eng",
		TranslateFrom:  "en",
		TranslateTo:    "ru",
		MaxParallel:    parallel,
	})
}

func staticLexicon(senses []domain.LexicalSense) *mockLexicon {
	return &mockLexicon{
		SensesForFunc: func(context.Context, string, string, string) ([]domain.LexicalSense, error) {
			return senses, nil
		},
	}
}

func prefixTranslator() *mockTranslator {
	return &mockTranslator{
		TranslateFunc: func(_ context.Context, text, _, _ string) (string, error) {
			return "RU(" + text + ")", nil
		},
	}
}

var casaSenses = []domain.LexicalSense{
	{SynsetID: "08578706-n", Definition: "where you live at a particular time", Lemmas: []string{"casa", "abitazione", "dimora"}},
	{SynsetID: "03544360-n", Definition: "a dwelling that serves as living quarters", Lemmas: []string{"casa", "Casa", "magione"}},
	{SynsetID: "08078020-n", Definition: "a social unit living together", Lemmas: []string{"casa", "famiglia"}},
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestService_LookupSenses_Found(t *testing.T) {
	t.Parallel()

	var gotWord, gotLang, gotDefLang string
	lex := &mockLexicon{
		SensesForFunc: func(_ context.Context, word, lang, defLang string) ([]domain.LexicalSense, error) {
			gotWord, gotLang, gotDefLang = word, lang, defLang
			return casaSenses, nil
		},
	}
	tr := prefixTranslator()

	res, err := newTestService(lex, tr, 2).LookupSenses(context.Background(), "  casa ", "ita")
	require.NoError(t, err)

	assert.Equal(t, "casa", gotWord)
	assert.Equal(t, "ita", gotLang)
	assert.Equal(t, "eng", gotDefLang)

	require.True(t, res.Found())
	assert.False(t, res.Degraded())
	assert.Equal(t, "casa", res.Word)
	require.Len(t, res.Senses, 3)

	for i, s := range res.Senses {
		assert.Equal(t, casaSenses[i].Definition, s.Definition, "order follows the lexicon")
		assert.Equal(t, "RU("+casaSenses[i].Definition+")", s.TranslatedDefinition)
		assert.NotContains(t, s.Synonyms, "casa")
	}
	assert.Equal(t, []string{"abitazione", "dimora"}, res.Senses[0].Synonyms)
	assert.Equal(t, []string{"Casa", "magione"}, res.Senses[1].Synonyms, "exclusion is case-sensitive")
	assert.Equal(t, int32(3), tr.calls.Load())
}

func TestService_LookupSenses_NotFound(t *testing.T) {
	t.Parallel()

	tr := prefixTranslator()
	res, err := newTestService(staticLexicon(nil), tr, 4).LookupSenses(context.Background(), "xyzzy", "ita")
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Empty(t, res.Senses)
	assert.Zero(t, tr.calls.Load())
}

func TestService_LookupSenses_EmptyWord(t *testing.T) {
	t.Parallel()

	_, err := newTestService(staticLexicon(nil), prefixTranslator(), 1).LookupSenses(context.Background(), "   ", "ita")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_LookupSenses_LexiconError(t *testing.T) {
	t.Parallel()

	lex := &mockLexicon{
		SensesForFunc: func(context.Context, string, string, string) ([]domain.LexicalSense, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := newTestService(lex, prefixTranslator(), 1).LookupSenses(context.Background(), "casa", "ita")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLexiconUnavailable)
}

func TestService_LookupSenses_TranslationFailureDegradesOneSense(t *testing.T) {
	t.Parallel()

	tr := &mockTranslator{
		TranslateFunc: func(_ context.Context, text, _, _ string) (string, error) {
			switch text {
			case casaSenses[1].Definition:
				return "", fmt.Errorf("opusmt: status 503: %w", domain.ErrTranslationUnavailable)
			case casaSenses[2].Definition:
				return "   ", nil
			}
			return "ok", nil
		},
	}

	res, err := newTestService(staticLexicon(casaSenses), tr, 3).LookupSenses(context.Background(), "casa", "ita")
	require.NoError(t, err)
	require.Len(t, res.Senses, 3)
	assert.True(t, res.Degraded())

	assert.Equal(t, "ok", res.Senses[0].TranslatedDefinition)
	assert.False(t, res.Senses[0].TranslationUnavailable)

	for _, i := range []int{1, 2} {
		assert.Equal(t, domain.TranslationUnavailableText, res.Senses[i].TranslatedDefinition)
		assert.True(t, res.Senses[i].TranslationUnavailable)
		assert.NotEmpty(t, res.Senses[i].Synonyms, "synonyms survive a failed translation")
	}
}

func TestService_LookupSenses_OrderIndependentOfCompletion(t *testing.T) {
	t.Parallel()

	senses := make([]domain.LexicalSense, 8)
	for i := range senses {
		senses[i] = domain.LexicalSense{Definition: fmt.Sprintf("def-%d", i), Lemmas: []string{"casa"}}
	}

	// Earlier senses finish last.
	tr := &mockTranslator{
		TranslateFunc: func(_ context.Context, text, _, _ string) (string, error) {
			var n int
			fmt.Sscanf(text, "def-%d", &n)
			time.Sleep(time.Duration(len(senses)-n) * 2 * time.Millisecond)
			return "tr-" + text, nil
		},
	}

	res, err := newTestService(staticLexicon(senses), tr, 8).LookupSenses(context.Background(), "casa", "ita")
	require.NoError(t, err)
	for i, s := range res.Senses {
		assert.Equal(t, fmt.Sprintf("tr-def-%d", i), s.TranslatedDefinition)
		assert.Empty(t, s.Synonyms)
	}
}

func TestService_LookupSenses_RespectsParallelLimit(t *testing.T) {
	t.Parallel()

	senses := make([]domain.LexicalSense, 10)
	for i := range senses {
		senses[i] = domain.LexicalSense{Definition: fmt.Sprintf("d%d", i)}
	}

	var inFlight, peak atomic.Int32
	tr := &mockTranslator{
		TranslateFunc: func(context.Context, string, string, string) (string, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(3 * time.Millisecond)
			inFlight.Add(-1)
			return "x", nil
		},
	}

	_, err := newTestService(staticLexicon(senses), tr, 2).LookupSenses(context.Background(), "parola", "ita")
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(10), tr.calls.Load())
}

func TestService_LookupSenses_EmptyDefinitionNotTranslated(t *testing.T) {
	t.Parallel()

	tr := prefixTranslator()
	senses := []domain.LexicalSense{{SynsetID: "1", Lemmas: []string{"casa", "dimora"}}}

	res, err := newTestService(staticLexicon(senses), tr, 1).LookupSenses(context.Background(), "casa", "ita")
	require.NoError(t, err)
	require.Len(t, res.Senses, 1)
	assert.Empty(t, res.Senses[0].TranslatedDefinition)
	assert.Zero(t, tr.calls.Load())
}

func TestService_LookupSenses_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	tr := &mockTranslator{
		TranslateFunc: func(ctx context.Context, _, _, _ string) (string, error) {
			cancel()
			return "", ctx.Err()
		},
	}

	_, err := newTestService(staticLexicon(casaSenses), tr, 1).LookupSenses(ctx, "casa", "ita")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_LookupSenses_Idempotent(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticLexicon(casaSenses), prefixTranslator(), 3)

	first, err := svc.LookupSenses(context.Background(), "casa", "ita")
	require.NoError(t, err)
	second, err := svc.LookupSenses(context.Background(), "casa", "ita")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
