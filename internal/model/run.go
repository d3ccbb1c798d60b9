package model

import (
	"time"

	"github.com/google/uuid"
)

// CitationAccuracyRun represents one batch citation-accuracy evaluation.
// A row is inserted when the run starts; counters, results and completed_at
// are filled in by the evaluating process as it goes. The schema does not
// enforce the counter arithmetic or the started_at/completed_at ordering;
// writers are responsible for keeping them consistent.
type CitationAccuracyRun struct {
	RunID                 uuid.UUID                `json:"run_id" db:"run_id"`
	StartedAt             time.Time                `json:"started_at" db:"started_at"`
	CompletedAt           *time.Time               `json:"completed_at,omitempty" db:"completed_at"`
	TotalExamples         int                      `json:"total_examples" db:"total_examples"`
	TotalCitations        int                      `json:"total_citations" db:"total_citations"`
	ValidCitations        int                      `json:"valid_citations" db:"valid_citations"`
	MisusedCitations      int                      `json:"misused_citations" db:"misused_citations"`
	HallucinatedCitations int                      `json:"hallucinated_citations" db:"hallucinated_citations"`
	OverallAccuracy       float64                  `json:"overall_accuracy" db:"overall_accuracy"`
	Results               []map[string]interface{} `json:"results" db:"results"`
	Config                map[string]interface{}   `json:"config" db:"config"`
}

// IsCompleted reports whether the run has finished
func (r *CitationAccuracyRun) IsCompleted() bool {
	return r.CompletedAt != nil
}

// RunCreate represents a create run request
type RunCreate struct {
	Config map[string]interface{} `json:"config"`
}

// RunUpdate represents a partial run update request
type RunUpdate struct {
	Updates map[string]interface{} `json:"updates" binding:"required"`
}

// RunCompletion represents the final state posted when a run finishes.
// Counters may be omitted when Results carries typed example records; the
// handler derives them in that case.
type RunCompletion struct {
	TotalExamples         *int                     `json:"total_examples"`
	TotalCitations        *int                     `json:"total_citations"`
	ValidCitations        *int                     `json:"valid_citations"`
	MisusedCitations      *int                     `json:"misused_citations"`
	HallucinatedCitations *int                     `json:"hallucinated_citations"`
	OverallAccuracy       *float64                 `json:"overall_accuracy"`
	Results               []map[string]interface{} `json:"results"`
	CompletedAt           *time.Time               `json:"completed_at"`
}
