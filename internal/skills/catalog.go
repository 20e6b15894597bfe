// Package skills provides the canonical skill catalog shared by extraction and matching.
package skills

import (
	"regexp"
	"sort"
	"strings"
)

// defaultSkills is the built-in catalog in display order.
var defaultSkills = []string{
	"Python", "Java", "C++", "C", "SQL", "MongoDB", "PostgreSQL",
	"JavaScript", "Node.js", "Express.js", "React", "HTML", "CSS",
	"Flask", "Django", "Machine Learning", "Deep Learning", "Data Analysis",
	"AWS", "Azure", "GCP", "Git", "Excel",
}

// entry pairs a canonical skill with its precomputed matchers.
type entry struct {
	name  string
	lower string
	word  *regexp.Regexp
}

// Catalog is an immutable, ordered set of canonical skill names.
// A Catalog is safe for concurrent use once constructed.
type Catalog struct {
	entries []entry
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultSkills)
}

// New builds a catalog from the given names. Names are normalized with
// NormalizeSkillName and deduplicated case-insensitively, keeping the first
// spelling seen, so each skill has exactly one canonical casing.
func New(names []string) *Catalog {
	seen := make(map[string]bool, len(names))
	c := &Catalog{entries: make([]entry, 0, len(names))}
	for _, raw := range names {
		name := NormalizeSkillName(raw)
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		c.entries = append(c.entries, entry{
			name:  name,
			lower: lower,
			word:  wholeWord(lower),
		})
	}
	return c
}

// Extend returns a new catalog holding the receiver's skills followed by extra.
func (c *Catalog) Extend(extra []string) *Catalog {
	if len(extra) == 0 {
		return c
	}
	return New(append(c.Names(), extra...))
}

// wholeWord matches lower as a standalone token: not preceded or followed by
// an ASCII word character. Works for names that begin or end in punctuation
// such as "C++" or "Node.js", where \b would not.
func wholeWord(lower string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^0-9A-Za-z_])` + regexp.QuoteMeta(lower) + `(?:[^0-9A-Za-z_]|$)`)
}

// Names returns the canonical names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.name
	}
	return out
}

// Len returns the number of skills in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Match returns the catalog skills that occur in text as whole words,
// case-insensitively, sorted lexicographically by canonical name.
// The result is never nil.
func (c *Catalog) Match(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, e := range c.entries {
		if e.word.MatchString(lower) {
			found = append(found, e.name)
		}
	}
	sort.Strings(found)
	return found
}

// Contained returns the lower-cased catalog skills that appear anywhere in
// text as a case-insensitive substring, in catalog order.
func (c *Catalog) Contained(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, e := range c.entries {
		if strings.Contains(lower, e.lower) {
			found = append(found, e.lower)
		}
	}
	return found
}

// InTokens returns the canonical skills whose lower-cased name is a member of
// tokens, in catalog order.
func (c *Catalog) InTokens(tokens map[string]bool) []string {
	var found []string
	for _, e := range c.entries {
		if tokens[e.lower] {
			found = append(found, e.name)
		}
	}
	return found
}
