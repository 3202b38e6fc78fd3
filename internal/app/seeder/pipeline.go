package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/lessico/internal/app/seeder/omw"
	"github.com/heartmarshall/lessico/internal/domain"
)

// allPhases defines the canonical execution order. Lemmas come first so a
// partially seeded database still answers lookups.
var allPhases = []string{"lemmas", "definitions"}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Errors   int
	Duration time.Duration
	Err      error
}

// Pipeline parses the configured files once and loads them phase by phase.
type Pipeline struct {
	log     *slog.Logger
	repo    LexiconBulkRepo
	tx      TxRunner
	cfg     Config
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repo LexiconBulkRepo, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		repo:    repo,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
	}
}

// WithTx makes every phase commit atomically: a failed phase leaves no rows.
func (p *Pipeline) WithTx(tx TxRunner) *Pipeline {
	p.tx = tx
	return p
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases run.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	if len(p.cfg.Files) == 0 {
		return fmt.Errorf("no input files configured")
	}

	// Step 1: Parse every file.
	parsed, err := p.parseAll()
	if err != nil {
		return err
	}

	// Step 2: Determine which phases to run.
	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
			}
		}
		toRun = filtered
	}

	// Step 3: Execute phases in order.
	for _, phase := range toRun {
		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		result := p.runPhase(ctx, phase, parsed)
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("skipped", result.Skipped),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	// Step 4: Summary log.
	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

func (p *Pipeline) runPhase(ctx context.Context, phase string, parsed omw.ParseResult) PhaseResult {
	run := func(ctx context.Context) PhaseResult {
		switch phase {
		case "lemmas":
			return p.runLemmas(ctx, parsed.Lemmas)
		case "definitions":
			return p.runDefinitions(ctx, parsed.Definitions)
		}
		return PhaseResult{Err: fmt.Errorf("unknown phase %q", phase)}
	}

	if p.tx == nil || p.cfg.DryRun {
		return run(ctx)
	}

	var result PhaseResult
	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		result = run(ctx)
		return result.Err
	})
	if err != nil {
		if result.Err == nil {
			result.Err = err
		}
		// Rolled back.
		result.Inserted = 0
	}
	return result
}

// parseAll parses the configured files in order. Lemma positions stay in
// file order across files.
func (p *Pipeline) parseAll() (omw.ParseResult, error) {
	filter := omw.Filter{
		LemmaLangs:      toSet(p.cfg.LemmaLangs),
		DefinitionLangs: toSet(p.cfg.DefinitionLangs),
	}

	var all omw.ParseResult
	offsets := make(map[string]int)

	for _, path := range p.cfg.Files {
		res, err := omw.Parse(path, filter)
		if err != nil {
			return omw.ParseResult{}, fmt.Errorf("parse %s: %w", path, err)
		}
		p.log.Info("omw file parsed",
			slog.String("path", path),
			slog.Int("lines", res.Stats.TotalLines),
			slog.Int("lemmas", res.Stats.Lemmas),
			slog.Int("definitions", res.Stats.Definitions),
			slog.Int("skipped", res.Stats.Skipped),
		)

		last := make(map[string]int)
		for _, l := range res.Lemmas {
			l.Position += offsets[l.Lang]
			last[l.Lang] = l.Position
			all.Lemmas = append(all.Lemmas, l)
		}
		for lang, pos := range last {
			offsets[lang] = pos
		}
		all.Definitions = append(all.Definitions, res.Definitions...)
		all.Stats.TotalLines += res.Stats.TotalLines
		all.Stats.Skipped += res.Stats.Skipped
	}

	return all, nil
}

// runLemmas shifts positions past rows already stored for each language and
// inserts the lemmas.
func (p *Pipeline) runLemmas(ctx context.Context, lemmas []domain.LexiconLemma) PhaseResult {
	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(lemmas)}
	}

	base := make(map[string]int)
	for i := range lemmas {
		lang := lemmas[i].Lang
		if _, ok := base[lang]; !ok {
			pos, err := p.repo.MaxPosition(ctx, lang)
			if err != nil {
				return PhaseResult{Err: fmt.Errorf("max position for %s: %w", lang, err)}
			}
			base[lang] = pos
		}
		lemmas[i].Position += base[lang]
	}

	inserted, err := batchProcess(lemmas, p.cfg.BatchSize, func(batch []domain.LexiconLemma) (int, error) {
		return p.repo.BulkInsertLemmas(ctx, batch)
	})
	if err != nil {
		return PhaseResult{Inserted: inserted, Err: fmt.Errorf("insert lemmas: %w", err)}
	}

	return PhaseResult{Inserted: inserted, Skipped: len(lemmas) - inserted}
}

func (p *Pipeline) runDefinitions(ctx context.Context, defs []domain.LexiconDefinition) PhaseResult {
	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(defs)}
	}

	inserted, err := batchProcess(defs, p.cfg.BatchSize, func(batch []domain.LexiconDefinition) (int, error) {
		return p.repo.BulkInsertDefinitions(ctx, batch)
	})
	if err != nil {
		return PhaseResult{Inserted: inserted, Err: fmt.Errorf("insert definitions: %w", err)}
	}

	return PhaseResult{Inserted: inserted, Skipped: len(defs) - inserted}
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
