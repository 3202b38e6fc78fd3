// Package lexicon implements the read-only lexical database on PostgreSQL.
// Lemmas and definitions are keyed by WordNet synset id and language tag;
// sense order follows the order in which lemma rows were loaded.
package lexicon

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/lessico/internal/adapter/postgres"
	"github.com/heartmarshall/lessico/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides lexicon persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
}

// New creates a new lexicon repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, tx: postgres.NewTxManager(pool)}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// SensesFor returns every synset having a lemma equal to word (case-insensitive)
// in lang, ordered by first lemma position. Each sense carries its definition
// in defLang (empty when the dataset has none) and all of its lang lemmas in
// load order. An unknown word yields an empty slice and no error.
//
// The senses and lemma queries share one read-only snapshot.
func (r *Repo) SensesFor(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error) {
	var senses []domain.LexicalSense
	err := r.tx.RunInSnapshot(ctx, func(ctx context.Context) error {
		var err error
		senses, err = r.sensesFor(ctx, word, lang, defLang)
		return err
	})
	if err != nil {
		return nil, err
	}
	return senses, nil
}

func (r *Repo) sensesFor(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.
		Select("l.synset_id", "COALESCE(d.definition, '')", "MIN(l.position) AS first_pos").
		From("lex_lemmas l").
		LeftJoin("lex_definitions d ON d.synset_id = l.synset_id AND d.lang = ?", defLang).
		Where(sq.Eq{"l.lang": lang}).
		Where("lower(l.lemma) = lower(?)", word).
		GroupBy("l.synset_id", "d.definition").
		OrderBy("first_pos", "l.synset_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("lexicon: build senses query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "senses", word)
	}

	var (
		senses []domain.LexicalSense
		ids    []string
	)
	for rows.Next() {
		var (
			s        domain.LexicalSense
			firstPos int
		)
		if err := rows.Scan(&s.SynsetID, &s.Definition, &firstPos); err != nil {
			rows.Close()
			return nil, postgres.MapError(err, "senses", word)
		}
		senses = append(senses, s)
		ids = append(ids, s.SynsetID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "senses", word)
	}

	if len(senses) == 0 {
		return []domain.LexicalSense{}, nil
	}

	lemmas, err := r.lemmasFor(ctx, q, ids, lang)
	if err != nil {
		return nil, err
	}
	for i := range senses {
		senses[i].Lemmas = lemmas[senses[i].SynsetID]
	}

	return senses, nil
}

func (r *Repo) lemmasFor(ctx context.Context, q postgres.Querier, synsetIDs []string, lang string) (map[string][]string, error) {
	query, args, err := psql.
		Select("synset_id", "lemma").
		From("lex_lemmas").
		Where(sq.Eq{"lang": lang, "synset_id": synsetIDs}).
		OrderBy("synset_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("lexicon: build lemmas query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "lemmas", lang)
	}
	defer rows.Close()

	out := make(map[string][]string, len(synsetIDs))
	for rows.Next() {
		var synsetID, lemma string
		if err := rows.Scan(&synsetID, &lemma); err != nil {
			return nil, postgres.MapError(err, "lemmas", lang)
		}
		out[synsetID] = append(out[synsetID], lemma)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "lemmas", lang)
	}
	return out, nil
}

// Ping checks database connectivity for readiness probes.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ---------------------------------------------------------------------------
// Batch insert methods (pgx.Batch API)
// ---------------------------------------------------------------------------

// BulkInsertLemmas inserts lemma rows. Rows already present (same synset,
// lang and lemma) are skipped via ON CONFLICT DO NOTHING.
// Returns the number of actually inserted rows.
func (r *Repo) BulkInsertLemmas(ctx context.Context, lemmas []domain.LexiconLemma) (int, error) {
	if len(lemmas) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, l := range lemmas {
		query, args, err := psql.
			Insert("lex_lemmas").
			Columns("synset_id", "lang", "lemma", "position").
			Values(l.SynsetID, l.Lang, l.Lemma, l.Position).
			Suffix("ON CONFLICT (synset_id, lang, lemma) DO NOTHING").
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("lexicon: build lemma insert: %w", err)
		}
		batch.Queue(query, args...)
	}

	return r.sendBatchExec(ctx, batch)
}

// BulkInsertDefinitions inserts definition rows. A synset keeps the first
// definition loaded for a language; later ones are skipped.
func (r *Repo) BulkInsertDefinitions(ctx context.Context, defs []domain.LexiconDefinition) (int, error) {
	if len(defs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, d := range defs {
		query, args, err := psql.
			Insert("lex_definitions").
			Columns("synset_id", "lang", "definition").
			Values(d.SynsetID, d.Lang, d.Definition).
			Suffix("ON CONFLICT (synset_id, lang) DO NOTHING").
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("lexicon: build definition insert: %w", err)
		}
		batch.Queue(query, args...)
	}

	return r.sendBatchExec(ctx, batch)
}

// MaxPosition returns the highest lemma position stored for lang, or 0.
// Loaders continue numbering from it so a second file keeps sense order stable.
func (r *Repo) MaxPosition(ctx context.Context, lang string) (int, error) {
	query, args, err := psql.
		Select("COALESCE(MAX(position), 0)").
		From("lex_lemmas").
		Where(sq.Eq{"lang": lang}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("lexicon: build max position query: %w", err)
	}

	var pos int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&pos); err != nil {
		return 0, postgres.MapError(err, "max position", lang)
	}
	return pos, nil
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("lexicon: batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
