package repository

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	db   *sql.DB
	once sync.Once
)

// InitDB opens the PostgreSQL connection pool and applies the schema
// migration
func InitDB(databaseURL string) error {
	var err error
	once.Do(func() {
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			return
		}

		if err = db.Ping(); err != nil {
			err = fmt.Errorf("failed to ping database: %w", err)
			return
		}

		// Set connection pool parameters
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	})

	if err != nil {
		return err
	}

	if err := Migrate(); err != nil {
		return fmt.Errorf("failed to apply migration: %w", err)
	}

	zap.L().Info("Database initialized successfully")

	return nil
}

// migration holds the full schema. Both statements use IF NOT EXISTS, so
// re-applying on an existing database is a no-op. Name existence is all
// that is checked: a pre-existing citation_accuracy_runs table with a
// different shape is not detected here.
//
// gen_random_uuid() is built in since PostgreSQL 13; no extension needed.
var migration = []string{
	`CREATE TABLE IF NOT EXISTS citation_accuracy_runs (
		run_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		started_at TIMESTAMPTZ DEFAULT NOW(),
		completed_at TIMESTAMPTZ,
		total_examples INTEGER NOT NULL DEFAULT 0,
		total_citations INTEGER NOT NULL DEFAULT 0,
		valid_citations INTEGER NOT NULL DEFAULT 0,
		misused_citations INTEGER NOT NULL DEFAULT 0,
		hallucinated_citations INTEGER NOT NULL DEFAULT 0,
		overall_accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
		results JSONB NOT NULL DEFAULT '[]'::jsonb,
		config JSONB DEFAULT '{}'::jsonb
	)`,

	`CREATE INDEX IF NOT EXISTS idx_citation_runs_started_at
		ON citation_accuracy_runs (started_at DESC)`,
}

// Migrate applies the schema migration. Safe to call multiple times.
func Migrate() error {
	for _, stmt := range migration {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute SQL: %s, error: %w", stmt, err)
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *sql.DB {
	return db
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// WithTx executes a function within a transaction
func WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return err
}
