package extraction

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+\-]+@[a-zA-Z0-9\-]+\.[a-zA-Z0-9.\-]+`)
	phonePattern = regexp.MustCompile(`\+?\d{1,3}[\s\-]?\(?\d{2,4}\)?[\s\-]?\d{3,5}[\s\-]?\d{3,5}`)
)

// Email returns the first email address in text, or NotFound.
func Email(text string) string {
	if m := emailPattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return NotFound
}

// Phone returns the phone-like substring with the most digits, or NotFound.
// Ties go to the earliest match.
func Phone(text string) string {
	best := ""
	bestDigits := 0
	for _, m := range phonePattern.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if n := countDigits(m); n > bestDigits {
			best, bestDigits = m, n
		}
	}
	if best == "" {
		return NotFound
	}
	return best
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
