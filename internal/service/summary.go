package service

import (
	"github.com/mkovacs/citation-judge/internal/model"
)

// RunSummary aggregates a result list into the counter columns of a run row
type RunSummary struct {
	TotalExamples         int     `json:"total_examples"`
	TotalCitations        int     `json:"total_citations"`
	ValidCitations        int     `json:"valid_citations"`
	MisusedCitations      int     `json:"misused_citations"`
	HallucinatedCitations int     `json:"hallucinated_citations"`
	OverallAccuracy       float64 `json:"overall_accuracy"`
}

// Summarize counts examples and per-verdict citations and computes the
// overall accuracy (valid / total, 0 when no citations were seen). The
// schema does not enforce this arithmetic; writers that go through
// Summarize keep the row consistent.
func Summarize(results []model.ExampleResult) RunSummary {
	var s RunSummary
	s.TotalExamples = len(results)

	for _, example := range results {
		for _, citation := range example.Citations {
			s.TotalCitations++
			switch citation.Verdict {
			case model.VerdictValid:
				s.ValidCitations++
			case model.VerdictMisused:
				s.MisusedCitations++
			case model.VerdictHallucinated:
				s.HallucinatedCitations++
			}
		}
	}

	if s.TotalCitations > 0 {
		s.OverallAccuracy = float64(s.ValidCitations) / float64(s.TotalCitations)
	}

	return s
}
