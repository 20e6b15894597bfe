// Package ingestion turns uploaded files, archives and directories into the
// plain-text documents the screening pipeline consumes.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankRun    = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings, collapses runs of spaces inside each
// line, trims trailing whitespace, and keeps at most one blank line between
// blocks. Line structure is preserved because extraction works line by line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace. Bullet markers keep their indentation
// so nested lists stay readable.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	content := inlineSpace.ReplaceAllString(trimmed, " ")
	if isBulletLine(trimmed) {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		return strings.Repeat(" ", indent) + content
	}
	return content
}

func isBulletLine(trimmed string) bool {
	for _, marker := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// JoinJobText concatenates the pieces of a job description (typed text, an
// uploaded file, a fetched page) with newlines, skipping empty pieces.
func JoinJobText(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
