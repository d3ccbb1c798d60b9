package model

// CitationVerdict classifies a single citation within an evaluated example
type CitationVerdict string

const (
	// VerdictValid marks a citation that supports the citing claim
	VerdictValid CitationVerdict = "valid"
	// VerdictMisused marks a citation to a real source that does not
	// support the citing claim
	VerdictMisused CitationVerdict = "misused"
	// VerdictHallucinated marks a citation to a source that does not exist
	VerdictHallucinated CitationVerdict = "hallucinated"
)

// CitationResult is the judged outcome for one citation
type CitationResult struct {
	Source  string          `json:"source"`
	Claim   string          `json:"claim,omitempty"`
	Verdict CitationVerdict `json:"verdict"`
	Reason  string          `json:"reason,omitempty"`
}

// ExampleResult is the judged outcome for one evaluated example.
// The storage layer never validates this shape; it is the structure the
// evaluation pipeline writes into the results column and the summary
// helper understands.
type ExampleResult struct {
	ExampleID string           `json:"example_id"`
	Question  string           `json:"question,omitempty"`
	Answer    string           `json:"answer,omitempty"`
	Citations []CitationResult `json:"citations"`
}
