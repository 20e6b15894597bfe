// Package extraction pulls structured fields out of unstructured resume text.
//
// Every extractor is total: absent fields come back as NotFound (or an empty
// skill list), never as an error.
package extraction

import (
	"strings"

	"github.com/jonathan/resume-screener/internal/skills"
)

// NotFound is returned for any scalar field that could not be located.
const NotFound = "Not Found"

// Fields is the extracted, pre-scoring view of one resume.
type Fields struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Skills    []string `json:"skills"`
	Education string   `json:"education"`
}

// Extractor runs the field heuristics against a shared skill catalog and
// degree table.
type Extractor struct {
	catalog    *skills.Catalog
	degrees    []DegreePattern
	recognizer PersonRecognizer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDegreePatterns replaces the built-in degree table.
func WithDegreePatterns(table []DegreePattern) Option {
	return func(e *Extractor) {
		if len(table) > 0 {
			e.degrees = table
		}
	}
}

// WithPersonRecognizer replaces the fallback used when no name line qualifies.
func WithPersonRecognizer(r PersonRecognizer) Option {
	return func(e *Extractor) {
		if r != nil {
			e.recognizer = r
		}
	}
}

// NewExtractor creates an Extractor. A nil catalog uses skills.Default().
func NewExtractor(catalog *skills.Catalog, opts ...Option) *Extractor {
	if catalog == nil {
		catalog = skills.Default()
	}
	e := &Extractor{
		catalog:    catalog,
		degrees:    DefaultDegreePatterns(),
		recognizer: CapitalizedRunRecognizer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs every field extractor on text.
func (e *Extractor) Extract(text string) Fields {
	return Fields{
		Name:      e.Name(text),
		Email:     Email(text),
		Phone:     Phone(text),
		Skills:    e.Skills(text),
		Education: e.Education(text),
	}
}

// Skills returns the catalog skills present in text as whole words, sorted.
// The result is empty, never nil, when nothing matches.
func (e *Extractor) Skills(text string) []string {
	return e.catalog.Match(text)
}

// clean collapses internal whitespace and trims the ends.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nonBlankLines splits text into whitespace-normalized, non-blank lines.
func nonBlankLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if c := clean(l); c != "" {
			lines = append(lines, c)
		}
	}
	return lines
}
