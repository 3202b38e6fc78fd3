package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/lessico/internal/adapter/postgres"
	"github.com/heartmarshall/lessico/internal/adapter/postgres/lexicon"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
	"github.com/heartmarshall/lessico/internal/service/dispatch"
	"github.com/heartmarshall/lessico/internal/service/examples"
	"github.com/heartmarshall/lessico/internal/service/lookup"
	"github.com/heartmarshall/lessico/internal/transport/middleware"
	"github.com/heartmarshall/lessico/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the lexicon database, wires the query services and serves HTTP until ctx
// is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("translate_provider", cfg.Translate.Provider),
		slog.String("corpus_source", cfg.Corpus.Source),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	handler, cleanup, err := Build(ctx, cfg, logger, lexicon.New(pool))
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Lexicon is the database the server reads senses from.
type Lexicon interface {
	SensesFor(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error)
	Ping(ctx context.Context) error
}

// Build wires services and transport on top of lex. The returned cleanup
// stops background workers.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, lex Lexicon) (http.Handler, func(), error) {
	tr, err := NewTranslator(ctx, cfg.Translate, logger)
	if err != nil {
		return nil, nil, err
	}

	src, err := NewCorpusSource(ctx, cfg.Corpus, logger)
	if err != nil {
		return nil, nil, err
	}

	lookupService := lookup.NewService(logger, lex, tr, lookup.Config{
		DefinitionLang: cfg.Lexicon.DefinitionLang,
		TranslateFrom:  cfg.Translate.SourceLang,
		TranslateTo:    cfg.Translate.TargetLang,
		MaxParallel:    cfg.Lookup.MaxParallelTranslations,
	})
	examplesService := examples.NewService(logger)

	dispatcher := dispatch.NewDispatcher(logger, lookupService, examplesService, src, dispatch.Config{
		Lang:         cfg.Lexicon.SourceLang,
		QueryTimeout: cfg.Lookup.QueryTimeout,
	})
	sessions := dispatch.NewSessionStore(cfg.Dispatch.SessionStoreSize, cfg.Dispatch.SessionTTL)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)

	handler := NewRouter(logger, RouterDeps{
		Health: rest.NewHealthHandler(lex, src, Version),
		Query: rest.NewQueryHandler(
			lookupService, examplesService, src, dispatcher, sessions,
			cfg.Lexicon.SourceLang, logger,
		),
		CORS:         cfg.CORS,
		RateLimiter:  limiter,
		RateLimit:    cfg.RateLimit.RequestsPerMinute,
		QueryTimeout: cfg.Lookup.QueryTimeout,
	})

	return handler, limiter.Stop, nil
}
