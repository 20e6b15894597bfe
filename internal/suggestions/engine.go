// Package suggestions compares a resume with a job description and produces
// short, actionable improvement hints.
package suggestions

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-screener/internal/skills"
)

// Suggestion texts, in the order they are emitted.
const (
	MissingSkillsPrefix = "Consider adding skills like: "
	AddEmail            = "Add a professional email address."
	AddPhone            = "Include a valid phone number."
	AddExperience       = "Mention work experience clearly (e.g., '2 years in backend development')."
	WellAligned         = "Resume is well-aligned with the job description."
)

// maxMissingSkills caps how many skills the missing-skills hint names.
const maxMissingSkills = 5

var (
	wordPattern       = regexp.MustCompile(`\w+`)
	phoneLikePattern  = regexp.MustCompile(`\+?\d[\d\s-]{8,}\d`)
	experiencePattern = regexp.MustCompile(`\d+\s*(years|year|months|month)`)
)

// Engine produces suggestions against a skill catalog.
type Engine struct {
	catalog *skills.Catalog
}

// NewEngine creates an Engine. A nil catalog uses skills.Default().
func NewEngine(catalog *skills.Catalog) *Engine {
	if catalog == nil {
		catalog = skills.Default()
	}
	return &Engine{catalog: catalog}
}

// Suggest returns improvement hints for resumeText relative to jobText.
// Hints appear in a fixed order: missing skills, email, phone, experience.
// When none apply the result is a single well-aligned message.
func (e *Engine) Suggest(jobText, resumeText string) []string {
	var out []string

	if missing := e.MissingSkills(jobText, resumeText); len(missing) > 0 {
		if len(missing) > maxMissingSkills {
			missing = missing[:maxMissingSkills]
		}
		out = append(out, MissingSkillsPrefix+strings.Join(missing, ", "))
	}

	if !strings.Contains(resumeText, "@") {
		out = append(out, AddEmail)
	}
	if !phoneLikePattern.MatchString(resumeText) {
		out = append(out, AddPhone)
	}
	if !experiencePattern.MatchString(strings.ToLower(resumeText)) {
		out = append(out, AddExperience)
	}

	if len(out) == 0 {
		out = append(out, WellAligned)
	}
	return out
}

// MissingSkills returns catalog skills named as a word in jobText that do not
// appear anywhere in resumeText, in catalog order.
func (e *Engine) MissingSkills(jobText, resumeText string) []string {
	words := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(jobText, -1) {
		words[strings.ToLower(w)] = true
	}

	resumeLower := strings.ToLower(resumeText)
	var missing []string
	for _, s := range e.catalog.InTokens(words) {
		if !strings.Contains(resumeLower, strings.ToLower(s)) {
			missing = append(missing, s)
		}
	}
	return missing
}
