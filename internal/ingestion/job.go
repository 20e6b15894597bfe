package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/fetch"
)

// PostingFetcher retrieves a job posting by URL.
type PostingFetcher interface {
	JobPosting(ctx context.Context, url string) (*fetch.Page, error)
}

// JobSource names the places a job description can come from. Any
// combination may be set; the parts are joined in field order.
type JobSource struct {
	Text     string
	FilePath string
	// FileName and FileData carry an uploaded file instead of a path.
	FileName string
	FileData []byte
	URL      string
}

// Job is an assembled job description.
type Job struct {
	Text    string   `json:"-"`
	Sources []string `json:"sources"`
	Hash    string   `json:"hash"`
}

// JobDescription assembles the job text from src. A file that cannot be
// decoded contributes nothing; a missing file or a failed fetch is an error.
func (l *Loader) JobDescription(ctx context.Context, src JobSource, fetcher PostingFetcher) (*Job, error) {
	job := &Job{}
	parts := []string{src.Text}
	if src.Text != "" {
		job.Sources = append(job.Sources, "text")
	}

	if src.FilePath != "" {
		text, err := l.ReadFileText(src.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read job description file: %w", err)
		}
		parts = append(parts, text)
		job.Sources = append(job.Sources, src.FilePath)
	}

	if len(src.FileData) > 0 {
		parts = append(parts, l.Document(src.FileName, src.FileData).Text)
		job.Sources = append(job.Sources, src.FileName)
	}

	if src.URL != "" {
		if fetcher == nil {
			return nil, fmt.Errorf("job description URL given but no fetcher configured")
		}
		page, err := fetcher.JobPosting(ctx, src.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch job description: %w", err)
		}
		parts = append(parts, CleanText(page.Text))
		job.Sources = append(job.Sources, src.URL)
		l.logger.Info("fetched job description",
			zap.String("url", src.URL),
			zap.String("board", string(page.Board)),
			zap.Bool("rendered", page.Rendered))
	}

	job.Text = JoinJobText(parts...)
	job.Hash = textHash(job.Text)
	return job, nil
}

func textHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
