package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \n  \n  ", ""},
		{"collapses inner spaces", "Line    with \t multiple   spaces", "Line with multiple spaces"},
		{"normalizes line endings", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"limits blank lines", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"keeps bullet indentation", "Skills\n  - Go\n  - Python", "Skills\n  - Go\n  - Python"},
		{"strips plain indentation", "    Indented line\n  Less", "Indented line\nLess"},
		{"keeps unicode", "Test with émojis 🚀", "Test with émojis 🚀"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestJoinJobText(t *testing.T) {
	assert.Equal(t, "typed\nfrom file", JoinJobText("typed", "from file"))
	assert.Equal(t, "from file", JoinJobText("", "from file", "  "))
	assert.Empty(t, JoinJobText())
}
