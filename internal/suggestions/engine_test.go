package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-screener/internal/skills"
)

func TestSuggest(t *testing.T) {
	e := NewEngine(skills.Default())

	tests := []struct {
		name     string
		job      string
		resume   string
		expected []string
	}{
		{
			name:   "every gap in order",
			job:    "We need Python",
			resume: "Gardener with a green thumb",
			expected: []string{
				"Consider adding skills like: Python",
				AddEmail,
				AddPhone,
				AddExperience,
			},
		},
		{
			name:     "well aligned",
			job:      "Python developer",
			resume:   "jane@example.com +1 555 123 4567, 5 years in Python",
			expected: []string{WellAligned},
		},
		{
			name:     "strong resume lacks contact details",
			job:      "Looking for a Python developer with AWS experience",
			resume:   "I have 3 years in Python and AWS",
			expected: []string{AddEmail, AddPhone},
		},
		{
			name:   "weak resume misses job skills",
			job:    "Looking for a Python developer with AWS experience",
			resume: "I only know HTML",
			expected: []string{
				"Consider adding skills like: Python, AWS",
				AddEmail,
				AddPhone,
				AddExperience,
			},
		},
		{
			name:     "month durations count as experience",
			job:      "Intern",
			resume:   "a@b.co 98765 43210 6 Months internship",
			expected: []string{WellAligned},
		},
		{
			name:     "spelled out durations do not",
			job:      "Intern",
			resume:   "a@b.co 98765 43210 three years",
			expected: []string{AddExperience},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Suggest(tt.job, tt.resume))
		})
	}
}

func TestSuggest_CapsMissingSkillsAtFive(t *testing.T) {
	e := NewEngine(nil)
	got := e.Suggest("python java sql mongodb react html css git excel aws", "nothing")

	assert.Equal(t, "Consider adding skills like: Python, Java, SQL, MongoDB, React", got[0])
}

func TestMissingSkills(t *testing.T) {
	e := NewEngine(nil)

	assert.Empty(t, e.MissingSkills("Python role", "Pythonista at heart"),
		"resume presence is a substring check")
	assert.Empty(t, e.MissingSkills("Node.js shop", "nothing"),
		"punctuated skills never form a single job word")
	assert.Equal(t, []string{"SQL", "Git"}, e.MissingSkills("SQL; git; Excel", "excel wizard"))
}
