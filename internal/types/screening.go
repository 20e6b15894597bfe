// Package types defines the data structures exchanged between the screening
// pipeline and its callers.
package types

import "time"

// Document is one input file reduced to plain text.
type Document struct {
	FileName string `json:"fileName"`
	Text     string `json:"-"`
}

// ResumeRecord is the per-resume output of a screening run.
type ResumeRecord struct {
	FileName    string   `json:"fileName"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Skills      []string `json:"skills"`
	Education   string   `json:"education"`
	Score       float64  `json:"score"`
	Suggestions []string `json:"suggestions"`
}

// ScreeningResult is the output of one screening run. Resumes keep input
// order; Ranking lists indices into Resumes from highest to lowest score.
type ScreeningResult struct {
	RunID     string         `json:"runId"`
	CreatedAt time.Time      `json:"createdAt"`
	JobSkills []string       `json:"jobSkills"`
	Resumes   []ResumeRecord `json:"resumes"`
	Ranking   []int          `json:"ranking"`
}

// Top returns the highest-scoring record, or false when the result is empty.
func (r *ScreeningResult) Top() (ResumeRecord, bool) {
	if r == nil || len(r.Ranking) == 0 {
		return ResumeRecord{}, false
	}
	return r.Resumes[r.Ranking[0]], true
}

// Ranked returns the records ordered by score, highest first.
func (r *ScreeningResult) Ranked() []ResumeRecord {
	if r == nil {
		return nil
	}
	out := make([]ResumeRecord, 0, len(r.Ranking))
	for _, idx := range r.Ranking {
		out = append(out, r.Resumes[idx])
	}
	return out
}
