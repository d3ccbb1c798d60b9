package service

import (
	"math"
	"testing"

	"github.com/mkovacs/citation-judge/internal/model"
)

func citations(valid, misused, hallucinated int) []model.CitationResult {
	var out []model.CitationResult
	for i := 0; i < valid; i++ {
		out = append(out, model.CitationResult{Source: "s", Verdict: model.VerdictValid})
	}
	for i := 0; i < misused; i++ {
		out = append(out, model.CitationResult{Source: "s", Verdict: model.VerdictMisused})
	}
	for i := 0; i < hallucinated; i++ {
		out = append(out, model.CitationResult{Source: "s", Verdict: model.VerdictHallucinated})
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	if s.TotalExamples != 0 || s.TotalCitations != 0 {
		t.Errorf("expected zero totals, got %+v", s)
	}
	if s.OverallAccuracy != 0 {
		t.Errorf("expected zero accuracy with no citations, got %f", s.OverallAccuracy)
	}
}

func TestSummarizeCounts(t *testing.T) {
	// 50 examples carrying 120 citations: 100 valid, 15 misused, 5 hallucinated
	var results []model.ExampleResult
	for i := 0; i < 49; i++ {
		results = append(results, model.ExampleResult{
			ExampleID: "ex",
			Citations: citations(2, 0, 0),
		})
	}
	results = append(results, model.ExampleResult{
		ExampleID: "ex-last",
		Citations: citations(2, 15, 5),
	})

	s := Summarize(results)

	if s.TotalExamples != 50 {
		t.Errorf("TotalExamples = %d, want 50", s.TotalExamples)
	}
	if s.TotalCitations != 120 {
		t.Errorf("TotalCitations = %d, want 120", s.TotalCitations)
	}
	if s.ValidCitations != 100 {
		t.Errorf("ValidCitations = %d, want 100", s.ValidCitations)
	}
	if s.MisusedCitations != 15 {
		t.Errorf("MisusedCitations = %d, want 15", s.MisusedCitations)
	}
	if s.HallucinatedCitations != 5 {
		t.Errorf("HallucinatedCitations = %d, want 5", s.HallucinatedCitations)
	}
	if math.Abs(s.OverallAccuracy-100.0/120.0) > 1e-9 {
		t.Errorf("OverallAccuracy = %f, want %f", s.OverallAccuracy, 100.0/120.0)
	}
}

func TestSummarizeUnknownVerdict(t *testing.T) {
	results := []model.ExampleResult{
		{
			ExampleID: "ex",
			Citations: []model.CitationResult{
				{Source: "s", Verdict: "pending"},
				{Source: "s", Verdict: model.VerdictValid},
			},
		},
	}

	s := Summarize(results)

	// Unknown verdicts count toward the total but no bucket, so the three
	// buckets may sum to less than the total. The schema tolerates that.
	if s.TotalCitations != 2 {
		t.Errorf("TotalCitations = %d, want 2", s.TotalCitations)
	}
	if s.ValidCitations != 1 {
		t.Errorf("ValidCitations = %d, want 1", s.ValidCitations)
	}
	if s.MisusedCitations != 0 || s.HallucinatedCitations != 0 {
		t.Errorf("unexpected bucket counts: %+v", s)
	}
	if math.Abs(s.OverallAccuracy-0.5) > 1e-9 {
		t.Errorf("OverallAccuracy = %f, want 0.5", s.OverallAccuracy)
	}
}
