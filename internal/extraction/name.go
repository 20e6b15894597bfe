package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	nameScanLines       = 6
	recognizerScanLines = 8
)

var (
	nameDisqualifier = regexp.MustCompile(`(?i)[@\d]|www\.|http`)
	upperLetter      = regexp.MustCompile(`[A-Z]`)
	resumeHeading    = regexp.MustCompile(`(?i)resume|curriculum vitae|curriculum|cv`)
)

// PersonRecognizer finds a person's name in free text. It returns false when
// no person is found.
type PersonRecognizer interface {
	FirstPerson(text string) (string, bool)
}

// Name returns the candidate's name, or NotFound.
//
// The first six non-blank lines are checked for a short line (2-4 words) with
// no contact details or digits, at least one capital letter, and no resume
// heading. If none qualifies the recognizer is run over the first eight lines.
func (e *Extractor) Name(text string) string {
	lines := nonBlankLines(text)

	for i, line := range lines {
		if i >= nameScanLines {
			break
		}
		if isNameLine(line) {
			return line
		}
	}

	top := lines
	if len(top) > recognizerScanLines {
		top = top[:recognizerScanLines]
	}
	if name, ok := e.recognizer.FirstPerson(strings.Join(top, " ")); ok {
		return clean(name)
	}
	return NotFound
}

func isNameLine(line string) bool {
	words := len(strings.Fields(line))
	if words < 2 || words > 4 {
		return false
	}
	if nameDisqualifier.MatchString(line) || !upperLetter.MatchString(line) {
		return false
	}
	return !resumeHeading.MatchString(line)
}

// nonNameWords are capitalized words that commonly open a resume but are not
// part of a person's name.
var nonNameWords = map[string]bool{
	"resume": true, "curriculum": true, "vitae": true, "profile": true,
	"summary": true, "objective": true, "contact": true, "experience": true,
	"education": true, "skills": true, "projects": true, "email": true,
	"phone": true, "mobile": true, "address": true, "linkedin": true,
	"github": true, "senior": true, "junior": true, "lead": true,
	"software": true, "engineer": true, "developer": true, "manager": true,
	"analyst": true, "data": true, "scientist": true, "intern": true,
	"the": true, "and": true, "of": true, "at": true, "in": true,
}

// CapitalizedRunRecognizer treats the first run of two or three consecutive
// capitalized alphabetic words as a person's name.
type CapitalizedRunRecognizer struct{}

// FirstPerson implements PersonRecognizer. A run ends at a non-name word,
// at trailing punctuation, or after three words.
func (CapitalizedRunRecognizer) FirstPerson(text string) (string, bool) {
	var run []string
	for _, tok := range strings.Fields(text) {
		word := strings.TrimRight(tok, ",.;:|")
		if !isNameWord(word) {
			if len(run) >= 2 {
				return strings.Join(run, " "), true
			}
			run = run[:0]
			continue
		}
		run = append(run, word)
		if len(run) == 3 || len(word) != len(tok) {
			if len(run) >= 2 {
				return strings.Join(run, " "), true
			}
			run = run[:0]
		}
	}
	if len(run) >= 2 {
		return strings.Join(run, " "), true
	}
	return "", false
}

// isNameWord reports whether w looks like a capitalized given or family name,
// allowing inner hyphens and apostrophes.
func isNameWord(w string) bool {
	if len(w) < 2 || nonNameWords[strings.ToLower(w)] {
		return false
	}
	runes := []rune(w)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	lowerSeen := false
	for _, r := range runes[1:] {
		switch {
		case unicode.IsLower(r):
			lowerSeen = true
		case r == '-' || r == '\'' || unicode.IsUpper(r):
		default:
			return false
		}
	}
	return lowerSeen
}
