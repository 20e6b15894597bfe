// Package observability renders screening output for terminal users.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

const (
	// boxWidth is the width of formatted output boxes
	boxWidth = 72
	// maxSkillsShown caps the skills listed per resume in the ranking
	maxSkillsShown = 4
)

// Printer writes human-readable screening output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // terminal output; errors are not recoverable
func (p *Printer) printBox(title string, lines []string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fit(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fit(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fit truncates line to the box interior, counting runes.
func fit(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// PrintScreening outputs the ranked resumes with their scores and the
// suggestions for each.
func (p *Printer) PrintScreening(result *types.ScreeningResult) {
	if result == nil {
		return
	}

	lines := []string{
		fmt.Sprintf("Run:        %s", result.RunID),
		fmt.Sprintf("Job skills: %s", joinOrNone(result.JobSkills)),
		"",
	}
	if len(result.Ranking) == 0 {
		lines = append(lines, "No resumes were screened.")
	}
	for rank, rec := range result.Ranked() {
		shown := rec.Skills
		more := ""
		if len(shown) > maxSkillsShown {
			more = fmt.Sprintf(" +%d", len(shown)-maxSkillsShown)
			shown = shown[:maxSkillsShown]
		}
		lines = append(lines,
			fmt.Sprintf("%2d. %5.2f  %s (%s)", rank+1, rec.Score, rec.Name, rec.FileName),
			fmt.Sprintf("           skills: %s%s", joinOrNone(shown), more),
		)
		for _, s := range rec.Suggestions {
			lines = append(lines, "           • "+s)
		}
	}
	p.printBox("SCREENING RESULTS", lines)
}

// PrintRecord outputs the extracted fields of one resume.
func (p *Printer) PrintRecord(rec types.ResumeRecord) {
	p.printBox("EXTRACTED FIELDS: "+rec.FileName, []string{
		"Name:      " + rec.Name,
		"Email:     " + rec.Email,
		"Phone:     " + rec.Phone,
		"Skills:    " + joinOrNone(rec.Skills),
		"Education: " + rec.Education,
	})
}

// PrintSkills lists a skill catalog.
func (p *Printer) PrintSkills(names []string) {
	lines := make([]string, 0, len(names))
	for _, n := range names {
		lines = append(lines, "• "+n)
	}
	p.printBox(fmt.Sprintf("SKILL CATALOG (%d)", len(names)), lines)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
