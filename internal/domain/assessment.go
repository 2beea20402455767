package domain

import "fmt"

// Verdict enumerates the job-fit verdicts the scoring model may return.
type Verdict string

const (
	VerdictHighMatch      Verdict = "High Match"
	VerdictPotentialMatch Verdict = "Potential Match"
	VerdictLowMatch       Verdict = "Low Match"
)

// Valid reports whether the verdict is one of the known literals.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictHighMatch, VerdictPotentialMatch, VerdictLowMatch:
		return true
	}
	return false
}

// JobFitAssessment is the structured result of comparing a job description
// against the candidate profile.
type JobFitAssessment struct {
	MatchScore int      `json:"matchScore"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
	Verdict    Verdict  `json:"verdict"`
}

// Validate checks the assessment against the response-shape contract.
func (a *JobFitAssessment) Validate() error {
	if a.MatchScore < 0 || a.MatchScore > 100 {
		return fmt.Errorf("match score %d out of range", a.MatchScore)
	}
	if !a.Verdict.Valid() {
		return fmt.Errorf("unknown verdict %q", a.Verdict)
	}
	return nil
}
