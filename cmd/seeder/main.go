// Command seeder loads Open Multilingual Wordnet tab files into the lexicon
// tables. It is intended to be run offline, not as part of the main server.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (lemmas, definitions; default: all)
//	--dry-run        parse files without writing to DB
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/lessico/internal/adapter/postgres"
	"github.com/heartmarshall/lessico/internal/adapter/postgres/lexicon"
	"github.com/heartmarshall/lessico/internal/app"
	"github.com/heartmarshall/lessico/internal/app/seeder"
	"github.com/heartmarshall/lessico/internal/config"
)

// Compile-time interface assertion.
var _ seeder.LexiconBulkRepo = (*lexicon.Repo)(nil)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "parse files without writing to DB")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	// Load app config (for DB connection).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	// Load seeder config.
	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config; positional args are extra files.
	if *dryRunFlag {
		seederCfg.DryRun = true
	}
	seederCfg.Files = append(seederCfg.Files, flag.Args()...)

	var phases []string
	if *phaseFlag != "" {
		phases = strings.Split(*phaseFlag, ",")
		for i := range phases {
			phases[i] = strings.TrimSpace(phases[i])
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if appCfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			logger.Error("migrate database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	pipeline := seeder.NewPipeline(logger, lexicon.New(pool), *seederCfg).
		WithTx(postgres.NewTxManager(pool))
	if err := pipeline.Run(ctx, phases); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully")
}
