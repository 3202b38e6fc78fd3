// Package seeder loads Open Multilingual Wordnet data into the lexicon tables.
package seeder

import (
	"context"

	"github.com/heartmarshall/lessico/internal/domain"
)

// LexiconBulkRepo defines the batch repository contract consumed by the seeder pipeline.
// Implemented by lexicon.Repo.
type LexiconBulkRepo interface {
	// Batch inserts, ON CONFLICT DO NOTHING.
	BulkInsertLemmas(ctx context.Context, lemmas []domain.LexiconLemma) (int, error)
	BulkInsertDefinitions(ctx context.Context, defs []domain.LexiconDefinition) (int, error)

	// MaxPosition returns the highest stored lemma position for lang.
	MaxPosition(ctx context.Context, lang string) (int, error)
}

// TxRunner runs fn in one database transaction. Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
