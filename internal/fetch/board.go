package fetch

import (
	"net/url"
	"strings"
)

// Board is a job board whose markup MainText knows how to read.
type Board string

const (
	BoardGreenhouse Board = "greenhouse"
	BoardLever      Board = "lever"
	BoardWorkday    Board = "workday"
	BoardGeneric    Board = "generic"
)

// DetectBoard identifies the job board hosting urlStr.
func DetectBoard(urlStr string) Board {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return BoardGeneric
	}
	host := strings.ToLower(parsed.Hostname())
	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		return BoardGreenhouse
	case strings.HasSuffix(host, "lever.co"):
		return BoardLever
	case strings.HasSuffix(host, "myworkdayjobs.com"), strings.HasSuffix(host, "workday.com"):
		return BoardWorkday
	default:
		return BoardGeneric
	}
}

var genericContent = []string{
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"[data-testid='job-description']",
	"main",
	"article",
	"#content",
}

func (b Board) contentSelectors() []string {
	switch b {
	case BoardGreenhouse:
		return []string{".job__description", ".job-post-container", "#content"}
	case BoardLever:
		return []string{".posting-page", ".posting-description", ".content"}
	case BoardWorkday:
		return []string{"[data-automation-id='jobDescription']", ".job-description"}
	default:
		return genericContent
	}
}

// noiseSelectors lists application forms, EEO notices and share widgets
// that would otherwise leak into the job text.
func (b Board) noiseSelectors() []string {
	noise := []string{
		"form",
		".application-form",
		".eeo-statement",
		".voluntary-disclosure",
		".social-share",
		".cookie-consent",
	}
	switch b {
	case BoardGreenhouse:
		noise = append(noise, ".application--wrapper", "#usa_self_id_section")
	case BoardLever:
		noise = append(noise, ".posting-apply", ".apply-section")
	case BoardWorkday:
		noise = append(noise, "[data-automation-id='applyButton']")
	}
	return noise
}
