// Command lookup answers one query from the terminal, printing the same text
// the chat bot would send.
//
// Usage:
//
//	lookup [--examples] <word>
//
// Exit codes: 0 = found, 1 = error, 2 = usage, 3 = word not found.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/lessico/internal/adapter/postgres"
	"github.com/heartmarshall/lessico/internal/adapter/postgres/lexicon"
	"github.com/heartmarshall/lessico/internal/app"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
	"github.com/heartmarshall/lessico/internal/service/dispatch"
	"github.com/heartmarshall/lessico/internal/service/examples"
	"github.com/heartmarshall/lessico/internal/service/lookup"
)

func main() {
	examplesFlag := flag.Bool("examples", false, "search corpus examples instead of senses")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lookup [--examples] <word>")
		os.Exit(2)
	}
	word := domain.NormalizeWord(flag.Arg(0))
	if !domain.IsSingleWord(word) {
		fmt.Fprintln(os.Stderr, "lookup: word must be a single word made of letters")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Lookup.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Lookup.QueryTimeout)
		defer cancel()
	}

	var out string
	if *examplesFlag {
		out, err = searchExamples(ctx, cfg, logger, word)
	} else {
		out, err = lookupSenses(ctx, cfg, logger, word)
	}
	if errors.Is(err, domain.ErrWordNotFound) {
		fmt.Println(out)
		os.Exit(3)
	}
	if err != nil {
		logger.Error("query failed", slog.String("word", word), slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(out)
}

func lookupSenses(ctx context.Context, cfg *config.Config, logger *slog.Logger, word string) (string, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return "", err
	}
	defer pool.Close()

	tr, err := app.NewTranslator(ctx, cfg.Translate, logger)
	if err != nil {
		return "", err
	}

	svc := lookup.NewService(logger, lexicon.New(pool), tr, lookup.Config{
		DefinitionLang: cfg.Lexicon.DefinitionLang,
		TranslateFrom:  cfg.Translate.SourceLang,
		TranslateTo:    cfg.Translate.TargetLang,
		MaxParallel:    cfg.Lookup.MaxParallelTranslations,
	})

	res, err := svc.LookupSenses(ctx, word, cfg.Lexicon.SourceLang)
	if err != nil {
		return "", err
	}
	if !res.Found() {
		return dispatch.FormatSenses(res), domain.ErrWordNotFound
	}
	return dispatch.FormatSenses(res), nil
}

func searchExamples(ctx context.Context, cfg *config.Config, logger *slog.Logger, word string) (string, error) {
	src, err := app.NewCorpusSource(ctx, cfg.Corpus, logger)
	if err != nil {
		return "", err
	}

	res, err := examples.NewService(logger).SearchExamples(ctx, src, word)
	if errors.Is(err, domain.ErrCorpusUnavailable) {
		return "", fmt.Errorf("%w (source %s)", err, cfg.Corpus.Source)
	}
	if err != nil {
		return "", err
	}
	if !res.Found() {
		return dispatch.FormatExamples(res), domain.ErrWordNotFound
	}
	return dispatch.FormatExamples(res), nil
}
