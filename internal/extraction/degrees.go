package extraction

import "regexp"

// DegreePattern maps a textual degree pattern to a canonical label and a
// seniority rank. Higher ranks are more advanced degrees.
type DegreePattern struct {
	Pattern *regexp.Regexp
	Label   string
	Rank    int
}

// Degree ranks.
const (
	RankNone            = 0
	RankSecondary       = 1
	RankHigherSecondary = 2
	RankDiploma         = 4
	RankBachelor        = 5
	RankMaster          = 6
	RankPhD             = 7
)

// degreePatterns is ordered; the first pattern that matches a line wins.
var degreePatterns = []DegreePattern{
	{regexp.MustCompile(`(?i)\bph\.?d\b|\bdoctorate\b`), "PhD", RankPhD},
	{regexp.MustCompile(`(?i)\bm\.?tech\b|\bmtech\b|\bmaster\b|\bm\.?s\b|\bms\b|\bm\.?sc\b|\bmsc\b`), "Master", RankMaster},
	{regexp.MustCompile(`(?i)\bmca\b`), "MCA", RankMaster},
	{regexp.MustCompile(`(?i)\bmba\b`), "MBA", RankMaster},
	{regexp.MustCompile(`(?i)\bb\.?tech\b|\bbtech\b|\bb\.?e\b|\bbe\b|\bbachelor\b|\bb\.?sc\b|\bbsc\b`), "Bachelor", RankBachelor},
	{regexp.MustCompile(`(?i)\bdiploma\b`), "Diploma", RankDiploma},
	{regexp.MustCompile(`(?i)\b12th\b|\bhigher secondary\b|\bsenior secondary\b`), "Higher Secondary", RankHigherSecondary},
	{regexp.MustCompile(`(?i)\b10th\b|\bsecondary\b`), "Secondary", RankSecondary},
}

// DefaultDegreePatterns returns a copy of the built-in degree table.
func DefaultDegreePatterns() []DegreePattern {
	out := make([]DegreePattern, len(degreePatterns))
	copy(out, degreePatterns)
	return out
}

// matchDegree returns the first pattern in table that matches text.
func matchDegree(table []DegreePattern, text string) (DegreePattern, bool) {
	for _, dp := range table {
		if dp.Pattern.MatchString(text) {
			return dp, true
		}
	}
	return DegreePattern{}, false
}

// captureRules holds the named sub-patterns used to pull the field of study
// and institution out of a candidate line.
type captureRules struct {
	// gate decides whether text is an education candidate in addition to a
	// degree match. Nil means degree matches only.
	gate                *regexp.Regexp
	field               *regexp.Regexp
	institution         *regexp.Regexp
	institutionFallback *regexp.Regexp
}

var (
	institutionKeyword = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy|institute of technology|iim|iit|nit|iiit|bits)\b`)
	anyYear            = regexp.MustCompile(`(?:19|20)\d{2}`)
	yearRange          = regexp.MustCompile(`\b(?:19|20)\d{2}\s*[-–—]\s*(?:19|20)\d{2}\b`)
	yearToken          = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	placeMarker        = regexp.MustCompile(`(?i)\s(?:at|from)\s`)
)

// lineRules apply to single lines.
var lineRules = captureRules{
	field:               regexp.MustCompile(`(?i)(?:in|of|majoring in|specialization|specialisation|specialization:)\s+([A-Za-z0-9 &.\-+]+?)(?:,|\(| at | from | - |$)`),
	institution:         regexp.MustCompile(`(?i)[A-Za-z0-9 &.\-]+(?:University|College|Institute|School|IIT|NIT|IIIT|IIM|BITS|VIT|SPIT|PES|SRM|COEP)[A-Za-z0-9 &.\-]*`),
	institutionFallback: regexp.MustCompile(`(?i)(?:at|from)\s+([A-Za-z0-9 &.\-]+)`),
}

// pairRules apply to two adjacent lines joined by a space, used only when no
// single line qualified.
var pairRules = captureRules{
	gate:        regexp.MustCompile(`(?i)(university|college|institute|b\.?tech|mba|bachelor|master|ph\.?d|diploma)`),
	field:       regexp.MustCompile(`(?i)(?:in|of)\s+([A-Za-z0-9 &.\-]+?)(?:,| at | from | - |$)`),
	institution: regexp.MustCompile(`(?i)[A-Za-z0-9 &.\-]+(?:University|College|Institute|School|IIT|NIT|IIIT|IIM|BITS)[A-Za-z0-9 &.\-]*`),
}
