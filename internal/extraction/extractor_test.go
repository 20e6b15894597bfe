package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/skills"
)

func TestName(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"first short line", "John Smith\njohn@example.com\nBackend engineer", "John Smith"},
		{"skips single-word heading", "RESUME\n\n  Jane   Doe  \nPython developer", "Jane Doe"},
		{"skips resume heading line", "Curriculum Vitae\nJane Doe", "Jane Doe"},
		{"skips lines with digits", "Room 42 Main\nAda Lovelace", "Ada Lovelace"},
		{"recognizer fallback", "John Smith | Senior Developer | 555-123-4567\njohn@example.com", "John Smith"},
		{"nothing found", "contact@example.com\n+1 555 123 4567", NotFound},
		{"empty text", "", NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Name(tt.text))
		})
	}
}

type stubRecognizer struct {
	got  string
	name string
}

func (s *stubRecognizer) FirstPerson(text string) (string, bool) {
	s.got = text
	return s.name, s.name != ""
}

func TestName_RecognizerSeesFirstEightLines(t *testing.T) {
	stub := &stubRecognizer{name: "  Grace   Hopper "}
	e := NewExtractor(nil, WithPersonRecognizer(stub))

	text := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10"
	assert.Equal(t, "Grace Hopper", e.Name(text))
	assert.Equal(t, "1 2 3 4 5 6 7 8", stub.got)
}

func TestCapitalizedRunRecognizer(t *testing.T) {
	r := CapitalizedRunRecognizer{}

	tests := []struct {
		text   string
		name   string
		wantOK bool
	}{
		{"Contact: Mary-Jane O'Neil, Engineer", "Mary-Jane O'Neil", true},
		{"Senior Software Engineer Alan Mathison Turing London", "Alan Mathison Turing", true},
		{"Profile. Bob Ross", "Bob Ross", true},
		{"all lower case words", "", false},
		{"Single, Words, Only", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, ok := r.FirstPerson(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestEmail(t *testing.T) {
	text := "Contact: jane.doe+jobs@mail.example.com or jd@other.org"
	assert.Equal(t, "jane.doe+jobs@mail.example.com", Email(text))
	assert.Equal(t, Email(text), Email(text))
	assert.Equal(t, NotFound, Email("no address here"))
	assert.Equal(t, NotFound, Email(""))
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"longest wins", "call 123 or +1 234-567-8901", "+1 234-567-8901"},
		{"more digits beats earlier", "555-123-4567 or +1 555-123-4567", "+1 555-123-4567"},
		{"tie keeps first", "Home: 555-123-4567 Work: 555-987-6543", "555-123-4567"},
		{"with country code and spaces", "Mobile +91 98765 43210", "+91 98765 43210"},
		{"none", "no digits here", NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phone(tt.text))
		})
	}
}

func TestSkills_NeverNil(t *testing.T) {
	e := NewExtractor(skills.Default())

	got := e.Skills("I enjoy pottery")
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Equal(t, []string{"AWS", "Git", "Python"}, e.Skills("python, git and aws"))
}

func TestEducation(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "degree field institution and range",
			text:     "Education\nB.Tech in Computer Science at XYZ University (2018–2022)",
			expected: "Bachelor in Computer Science at XYZ University (2018–2022)",
		},
		{
			name:     "degree rank dominates recency",
			text:     "Jane Doe\nPhD in Physics, Stanford University, 2020\nB.Sc in Mathematics, State College, 2022",
			expected: "PhD in Physics at Stanford University (2020)",
		},
		{
			name:     "same rank prefers later end year",
			text:     "Bachelor of Arts, Alpha College, 2015\nBachelor of Science, Beta University, 2019",
			expected: "Bachelor in Science at Beta University (2019)",
		},
		{
			name:     "full tie prefers earlier line",
			text:     "Diploma in Design, 2019\nDiploma in Marketing, 2019",
			expected: "Diploma in Design (2019)",
		},
		{
			name:     "spaced year range",
			text:     "M.Tech in Data Science, IIT Bombay, 2016 - 2020",
			expected: "Master in Data Science at IIT Bombay (2016–2020)",
		},
		{
			name:     "institution name containing at",
			text:     "MS in CS from University at Buffalo, 2020",
			expected: "Master in CS at University at Buffalo (2020)",
		},
		{
			name:     "line pair fallback keeps raw text",
			text:     "Masterclass graduate\nComputing track",
			expected: "Masterclass graduate Computing track",
		},
		{
			name:     "no education",
			text:     "John Smith\nSoftware engineer\nLoves Go",
			expected: NotFound,
		},
		{
			name:     "empty",
			text:     "",
			expected: NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Education(tt.text))
		})
	}
}

func TestEducation_AllFactsPresent(t *testing.T) {
	e := NewExtractor(nil)
	got := e.Education("B.Tech in Computer Science at XYZ University (2018–2022)")

	assert.Contains(t, got, "Bachelor")
	assert.Contains(t, got, "Computer Science")
	assert.Contains(t, got, "XYZ University")
	assert.Contains(t, got, "2018–2022")
}

func TestFormatEducation_FieldThatIsAnInstitution(t *testing.T) {
	moved := formatEducation(educationCandidate{label: "Bachelor", field: "Springfield University", endYear: 2010})
	assert.Equal(t, "Bachelor at Springfield University (2010)", moved)

	dropped := formatEducation(educationCandidate{label: "Bachelor", field: "Springfield College", institution: "Shelbyville College"})
	assert.Equal(t, "Bachelor at Shelbyville College", dropped)

	raw := formatEducation(educationCandidate{line: "  some   line "})
	assert.Equal(t, "some line", raw)
}

func TestFindYears(t *testing.T) {
	tests := []struct {
		text       string
		start, end int
	}{
		{"2018–2022", 2018, 2022},
		{"2018 — 2022", 2018, 2022},
		{"graduated 2015, masters 2017", 0, 2017},
		{"class of 1899", 0, 0},
		{"", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			start, end := findYears(tt.text)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestMatchDegree_FirstPatternWins(t *testing.T) {
	table := DefaultDegreePatterns()

	tests := []struct {
		text  string
		label string
		rank  int
	}{
		{"Doctorate in Chemistry", "PhD", RankPhD},
		{"MCA, 2012", "MCA", RankMaster},
		{"MBA and B.Tech", "MBA", RankMaster},
		{"Master of Science and Bachelor of Arts", "Master", RankMaster},
		{"12th grade, higher secondary", "Higher Secondary", RankHigherSecondary},
		{"10th standard", "Secondary", RankSecondary},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			dp, ok := matchDegree(table, tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.label, dp.Label)
			assert.Equal(t, tt.rank, dp.Rank)
		})
	}

	_, ok := matchDegree(table, "Bootcamp certificate")
	assert.False(t, ok)
}

func TestExtract(t *testing.T) {
	e := NewExtractor(skills.Default())
	text := `Priya Sharma
priya.sharma@example.com | +91 98765 43210
Skills: Python, SQL, Machine Learning
MBA, IIM Ahmedabad, 2021`

	f := e.Extract(text)
	assert.Equal(t, "Priya Sharma", f.Name)
	assert.Equal(t, "priya.sharma@example.com", f.Email)
	assert.Equal(t, "+91 98765 43210", f.Phone)
	assert.Equal(t, []string{"Machine Learning", "Python", "SQL"}, f.Skills)
	assert.Equal(t, "MBA at IIM Ahmedabad (2021)", f.Education)
}
