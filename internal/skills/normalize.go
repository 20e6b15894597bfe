package skills

import "strings"

// skillAliases maps common spelling variants to canonical catalog names.
var skillAliases = map[string]string{
	"golang":           "Go",
	"go lang":          "Go",
	"javascript":       "JavaScript",
	"js":               "JavaScript",
	"typescript":       "TypeScript",
	"ts":               "TypeScript",
	"k8s":              "Kubernetes",
	"kubernetes":       "Kubernetes",
	"react.js":         "React",
	"reactjs":          "React",
	"node.js":          "Node.js",
	"nodejs":           "Node.js",
	"express":          "Express.js",
	"expressjs":        "Express.js",
	"postgres":         "PostgreSQL",
	"postgresql":       "PostgreSQL",
	"mongo":            "MongoDB",
	"mongodb":          "MongoDB",
	"ml":               "Machine Learning",
	"machine learning": "Machine Learning",
	"dl":               "Deep Learning",
	"deep learning":    "Deep Learning",
	"data analysis":    "Data Analysis",
	"c++":              "C++",
	"cpp":              "C++",
}

// NormalizeSkillName returns the canonical spelling of a skill name.
// Whitespace is collapsed; known aliases map to their canonical names;
// an all-lowercase single word gets an initial capital. Acronyms and
// mixed-case names are kept as written.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillAliases[lower]; ok {
		return canonical
	}

	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}
