package extraction

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// educationCandidate is one line (or joined line pair) that plausibly
// describes an education entry.
type educationCandidate struct {
	line        string
	idx         int
	label       string
	rank        int
	field       string
	institution string
	startYear   int
	endYear     int
}

// Education returns a one-sentence summary of the most advanced, most recent
// education entry in text, or NotFound.
func (e *Extractor) Education(text string) string {
	lines := nonBlankLines(text)

	var candidates []educationCandidate
	for idx, line := range lines {
		_, isDegree := matchDegree(e.degrees, line)
		if !isDegree && !institutionKeyword.MatchString(line) && !anyYear.MatchString(line) {
			continue
		}
		candidates = append(candidates, e.parseCandidate(line, idx, lineRules))
	}

	if len(candidates) == 0 {
		for i := 0; i+1 < len(lines); i++ {
			block := lines[i] + " " + lines[i+1]
			if !pairRules.gate.MatchString(block) {
				continue
			}
			candidates = append(candidates, e.parseCandidate(block, i, pairRules))
		}
	}

	if len(candidates) == 0 {
		return NotFound
	}

	best := rankCandidates(candidates)[0]
	return formatEducation(best)
}

// parseCandidate extracts degree, field, institution and years from text.
func (e *Extractor) parseCandidate(text string, idx int, rules captureRules) educationCandidate {
	c := educationCandidate{line: text, idx: idx}

	if dp, ok := matchDegree(e.degrees, text); ok {
		c.label = dp.Label
		c.rank = dp.Rank
	}

	if m := rules.field.FindStringSubmatch(text); m != nil {
		c.field = clean(m[1])
	}

	if m := rules.institution.FindString(text); m != "" {
		c.institution = trimInstitution(clean(m))
	} else if rules.institutionFallback != nil {
		if m := rules.institutionFallback.FindStringSubmatch(text); m != nil {
			c.institution = clean(strings.SplitN(m[1], ",", 2)[0])
		}
	}

	c.startYear, c.endYear = findYears(text)
	return c
}

// trimInstitution drops a leading degree or field phrase that the greedy
// institution pattern swept up. It cuts at the first " at " or " from "
// whose remainder still names an institution, so "University at Buffalo"
// survives; failing that it keeps the text after the last marker.
func trimInstitution(inst string) string {
	locs := placeMarker.FindAllStringIndex(inst, -1)
	if len(locs) == 0 {
		return inst
	}
	for _, loc := range locs {
		if rest := clean(inst[loc[1]:]); institutionKeyword.MatchString(rest) {
			return rest
		}
	}
	rest := clean(inst[locs[len(locs)-1][1]:])
	if rest == "" {
		return inst
	}
	return rest
}

// findYears returns (start, end) years found in text. A range such as
// "2018 - 2022" yields both; otherwise the last standalone year is the end
// year. Zero means absent.
func findYears(text string) (int, int) {
	if r := yearRange.FindString(text); r != "" {
		yrs := anyYear.FindAllString(r, -1)
		if len(yrs) >= 2 {
			start, _ := strconv.Atoi(yrs[0])
			end, _ := strconv.Atoi(yrs[1])
			return start, end
		}
	}
	all := yearToken.FindAllString(text, -1)
	if len(all) > 0 {
		end, _ := strconv.Atoi(all[len(all)-1])
		return 0, end
	}
	return 0, 0
}

// rankCandidates orders candidates by degree rank, then end year, both
// descending, then by position ascending.
func rankCandidates(candidates []educationCandidate) []educationCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.rank != b.rank {
			return a.rank > b.rank
		}
		if a.endYear != b.endYear {
			return a.endYear > b.endYear
		}
		return a.idx < b.idx
	})
	return candidates
}

func formatEducation(c educationCandidate) string {
	var parts []string
	if c.label != "" {
		parts = append(parts, c.label)
	}

	institution := c.institution
	if c.field != "" {
		if looksLikeInstitution(c.field) {
			if institution == "" {
				institution = c.field
			}
		} else {
			parts = append(parts, "in "+c.field)
		}
	}

	if institution != "" {
		parts = append(parts, "at "+institution)
	}

	switch {
	case c.startYear != 0 && c.endYear != 0:
		parts = append(parts, fmt.Sprintf("(%d–%d)", c.startYear, c.endYear))
	case c.endYear != 0:
		parts = append(parts, fmt.Sprintf("(%d)", c.endYear))
	}

	formatted := strings.TrimSpace(strings.Join(parts, " "))
	if formatted == "" {
		return clean(c.line)
	}
	return formatted
}

func looksLikeInstitution(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "university") ||
		strings.Contains(lower, "college") ||
		strings.Contains(lower, "institute")
}
