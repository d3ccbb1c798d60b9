package main

import (
	"log"

	"github.com/mkovacs/citation-judge/internal/pkg/config"
	"github.com/mkovacs/citation-judge/internal/pkg/logger"
	"github.com/mkovacs/citation-judge/internal/repository"
	"go.uber.org/zap"
)

// One-shot migration runner. InitDB applies the schema with IF NOT EXISTS
// semantics, so running this against an already-migrated database is a
// no-op.
func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := repository.InitDB(cfg.Database.URL); err != nil {
		zap.L().Fatal("Migration failed",
			zap.Error(err))
	}
	defer repository.Close()

	logger.Info("Migration applied",
		zap.String("table", "citation_accuracy_runs"),
		zap.String("index", "idx_citation_runs_started_at"))
}
