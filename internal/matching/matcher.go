// Package matching scores resumes against a job description by blending
// embedding similarity with a literal skill-overlap floor.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/skills"
)

const (
	// ScoreScale maps cosine similarity onto the 0-10 score range.
	ScoreScale = 10.0

	strongOverlapRatio  = 0.6
	strongOverlapFloor  = 7.5
	partialOverlapRatio = 0.4
	partialOverlapFloor = 6.0
)

// Result pairs a resume's position in the input batch with its score.
type Result struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Matcher ranks a batch of resumes against one job description.
type Matcher struct {
	catalog  *skills.Catalog
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewMatcher creates a Matcher. A nil catalog uses skills.Default().
func NewMatcher(catalog *skills.Catalog, embedder embedding.Embedder, logger *zap.Logger) *Matcher {
	if catalog == nil {
		catalog = skills.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{catalog: catalog, embedder: embedder, logger: logger}
}

// Match scores every resume against jobText and returns results ordered by
// score, highest first. Equal scores keep input order. The job and all
// resumes are embedded in a single call so indices stay aligned with the
// input slice. An empty batch returns an empty result without embedding.
func (m *Matcher) Match(ctx context.Context, jobText string, resumes []string) ([]Result, error) {
	if len(resumes) == 0 {
		return []Result{}, nil
	}

	texts := make([]string, 0, len(resumes)+1)
	texts = append(texts, jobText)
	texts = append(texts, resumes...)

	vecs, err := m.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job and resumes: %w", err)
	}
	if err := embedding.CheckShape(vecs, len(texts)); err != nil {
		return nil, err
	}

	jobSkills := m.catalog.Contained(jobText)

	results := make([]Result, len(resumes))
	for i, resume := range resumes {
		base := embedding.Cosine(vecs[0], vecs[i+1]) * ScoreScale
		score := base
		if len(jobSkills) > 0 {
			ratio := SkillMatchRatio(jobSkills, resume)
			score = ApplySkillFloor(base, ratio)
			m.logger.Debug("scored resume",
				zap.Int("index", i),
				zap.Float64("base", base),
				zap.Float64("skill_ratio", ratio),
				zap.Float64("score", score),
			)
		}
		results[i] = Result{Index: i, Score: round2(score)}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return results, nil
}

// SkillMatchRatio returns the fraction of jobSkills (lower-cased) that
// appear as substrings of the lower-cased resume. It is 0 for an empty list.
func SkillMatchRatio(jobSkills []string, resume string) float64 {
	if len(jobSkills) == 0 {
		return 0
	}
	lower := strings.ToLower(resume)
	matched := 0
	for _, s := range jobSkills {
		if strings.Contains(lower, s) {
			matched++
		}
	}
	return float64(matched) / float64(len(jobSkills))
}

// ApplySkillFloor raises base to a minimum determined by the skill-match
// ratio. It never lowers base.
func ApplySkillFloor(base, ratio float64) float64 {
	switch {
	case ratio >= strongOverlapRatio:
		return math.Max(base, strongOverlapFloor)
	case ratio >= partialOverlapRatio:
		return math.Max(base, partialOverlapFloor)
	default:
		return base
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
