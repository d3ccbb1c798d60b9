package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mkovacs/citation-judge/internal/model"
)

var (
	// ErrNoUpdates is returned when an update request carries no fields
	ErrNoUpdates = errors.New("no updates provided")
	// ErrInvalidColumn is returned when an update names a column outside
	// the whitelist
	ErrInvalidColumn = errors.New("column not updatable")
)

// Columns writable through UpdateRun. Keys outside this set are rejected
// rather than interpolated into the query.
var updatableRunColumns = map[string]bool{
	"completed_at":           true,
	"total_examples":         true,
	"total_citations":        true,
	"valid_citations":        true,
	"misused_citations":      true,
	"hallucinated_citations": true,
	"overall_accuracy":       true,
	"results":                true,
	"config":                 true,
}

const runColumns = `run_id, started_at, completed_at, total_examples, total_citations,
	valid_citations, misused_citations, hallucinated_citations, overall_accuracy, results, config`

// CreateRun inserts a new run row. All counters, results and config fall
// back to their column defaults; a non-nil config overrides the default
// empty mapping.
func CreateRun(config map[string]interface{}) (*model.CitationAccuracyRun, error) {
	var row *sql.Row
	if config == nil {
		query := fmt.Sprintf(`INSERT INTO citation_accuracy_runs DEFAULT VALUES RETURNING %s`, runColumns)
		row = db.QueryRow(query)
	} else {
		configJSON, err := json.Marshal(config)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		query := fmt.Sprintf(`INSERT INTO citation_accuracy_runs (config) VALUES ($1) RETURNING %s`, runColumns)
		// lib/pq sends []byte as bytea; jsonb wants text
		row = db.QueryRow(query, string(configJSON))
	}

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// GetRun returns a run by ID, or nil when no such row exists
func GetRun(runID uuid.UUID) (*model.CitationAccuracyRun, error) {
	query := fmt.Sprintf(`SELECT %s FROM citation_accuracy_runs WHERE run_id = $1`, runColumns)

	run, err := scanRun(db.QueryRow(query, runID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return run, nil
}

// ListRuns returns the most recently started runs, newest first. The
// descending started_at index serves this ordering.
func ListRuns(limit int) ([]model.CitationAccuracyRun, error) {
	query := fmt.Sprintf(`SELECT %s FROM citation_accuracy_runs ORDER BY started_at DESC LIMIT $1`, runColumns)

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.CitationAccuracyRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// UpdateRun applies a partial update to a run. Only whitelisted columns are
// accepted; results and config values are stored as JSON.
func UpdateRun(runID uuid.UUID, updates map[string]interface{}) (bool, error) {
	if len(updates) == 0 {
		return false, ErrNoUpdates
	}

	var setClauses []string
	var args []interface{}

	for key, value := range updates {
		if !updatableRunColumns[key] {
			return false, fmt.Errorf("%w: %s", ErrInvalidColumn, key)
		}

		if key == "results" || key == "config" {
			encoded, err := json.Marshal(value)
			if err != nil {
				return false, fmt.Errorf("failed to encode %s: %w", key, err)
			}
			value = string(encoded)
		}

		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, len(args)))
	}

	args = append(args, runID)
	query := fmt.Sprintf("UPDATE citation_accuracy_runs SET %s WHERE run_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := db.Exec(query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// CompleteRun writes the final counters, accuracy and results for a run and
// stamps completed_at (NOW() unless the caller supplies a timestamp). Nil
// fields are left untouched.
func CompleteRun(runID uuid.UUID, completion model.RunCompletion) (bool, error) {
	var setClauses []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if completion.TotalExamples != nil {
		add("total_examples", *completion.TotalExamples)
	}
	if completion.TotalCitations != nil {
		add("total_citations", *completion.TotalCitations)
	}
	if completion.ValidCitations != nil {
		add("valid_citations", *completion.ValidCitations)
	}
	if completion.MisusedCitations != nil {
		add("misused_citations", *completion.MisusedCitations)
	}
	if completion.HallucinatedCitations != nil {
		add("hallucinated_citations", *completion.HallucinatedCitations)
	}
	if completion.OverallAccuracy != nil {
		add("overall_accuracy", *completion.OverallAccuracy)
	}
	if completion.Results != nil {
		encoded, err := json.Marshal(completion.Results)
		if err != nil {
			return false, fmt.Errorf("failed to encode results: %w", err)
		}
		add("results", string(encoded))
	}

	if completion.CompletedAt != nil {
		add("completed_at", *completion.CompletedAt)
	} else {
		setClauses = append(setClauses, "completed_at = NOW()")
	}

	args = append(args, runID)
	query := fmt.Sprintf("UPDATE citation_accuracy_runs SET %s WHERE run_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := db.Exec(query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// DeleteRun deletes a run. Rows are never removed automatically; this is
// the manual purge path.
func DeleteRun(runID uuid.UUID) (bool, error) {
	result, err := db.Exec(`DELETE FROM citation_accuracy_runs WHERE run_id = $1`, runID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*model.CitationAccuracyRun, error) {
	run := &model.CitationAccuracyRun{}
	var completedAt sql.NullTime
	var resultsRaw, configRaw []byte

	err := s.Scan(
		&run.RunID, &run.StartedAt, &completedAt,
		&run.TotalExamples, &run.TotalCitations, &run.ValidCitations,
		&run.MisusedCitations, &run.HallucinatedCitations, &run.OverallAccuracy,
		&resultsRaw, &configRaw,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}

	// Parse JSON columns
	if len(resultsRaw) > 0 {
		if err := json.Unmarshal(resultsRaw, &run.Results); err != nil {
			return nil, fmt.Errorf("failed to decode results: %w", err)
		}
	}
	if len(configRaw) > 0 {
		if err := json.Unmarshal(configRaw, &run.Config); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	return run, nil
}
