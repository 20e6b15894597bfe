// Package pipeline orchestrates a screening run: field extraction per
// resume, one batch match against the job description, and suggestions.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/matching"
	"github.com/jonathan/resume-screener/internal/publish"
	"github.com/jonathan/resume-screener/internal/skills"
	"github.com/jonathan/resume-screener/internal/suggestions"
	"github.com/jonathan/resume-screener/internal/types"
)

// DefaultWorkers bounds concurrent field extraction.
const DefaultWorkers = 4

// Progress steps.
const (
	StepExtract  = "extract_fields"
	StepMatch    = "match"
	StepPublish  = "publish"
	StepComplete = "complete"
)

// ProgressEvent reports one step of a screening run.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback receives progress events. Calls are serialized.
type ProgressCallback func(event ProgressEvent)

// Options configures a Screener. Embedder is required.
type Options struct {
	Catalog    *skills.Catalog
	Embedder   embedding.Embedder
	Extractor  *extraction.Extractor
	Workers    int
	Publisher  publish.Publisher
	OnProgress ProgressCallback
	Logger     *zap.Logger
}

// Screener runs screening batches. It is safe for concurrent use.
type Screener struct {
	catalog    *skills.Catalog
	extractor  *extraction.Extractor
	matcher    *matching.Matcher
	suggester  *suggestions.Engine
	workers    int
	publisher  publish.Publisher
	onProgress ProgressCallback
	logger     *zap.Logger
	now        func() time.Time
}

// NewScreener wires the components around one shared catalog.
func NewScreener(opts Options) (*Screener, error) {
	if opts.Embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if opts.Catalog == nil {
		opts.Catalog = skills.Default()
	}
	if opts.Extractor == nil {
		opts.Extractor = extraction.NewExtractor(opts.Catalog)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Screener{
		catalog:    opts.Catalog,
		extractor:  opts.Extractor,
		matcher:    matching.NewMatcher(opts.Catalog, opts.Embedder, opts.Logger),
		suggester:  suggestions.NewEngine(opts.Catalog),
		workers:    opts.Workers,
		publisher:  opts.Publisher,
		onProgress: opts.OnProgress,
		logger:     opts.Logger,
		now:        time.Now,
	}, nil
}

// Catalog returns the skill catalog the screener matches against.
func (s *Screener) Catalog() *skills.Catalog {
	return s.catalog
}

// WithProgress returns a copy of s that reports progress to cb instead of the
// callback it was built with.
func (s *Screener) WithProgress(cb ProgressCallback) *Screener {
	c := *s
	c.onProgress = cb
	return &c
}

// Extract returns the fields of a single resume without scoring it.
func (s *Screener) Extract(doc types.Document) types.ResumeRecord {
	return ExtractRecord(s.extractor, doc)
}

// ExtractRecord builds an unscored record for doc. Callers that never match,
// such as the extract command, use it without an embedder.
func ExtractRecord(extractor *extraction.Extractor, doc types.Document) types.ResumeRecord {
	f := extractor.Extract(doc.Text)
	return types.ResumeRecord{
		FileName:    doc.FileName,
		Name:        f.Name,
		Email:       f.Email,
		Phone:       f.Phone,
		Skills:      f.Skills,
		Education:   f.Education,
		Suggestions: []string{},
	}
}

type progress struct {
	mu    sync.Mutex
	cb    ProgressCallback
	runID string
}

func (p *progress) emit(step, message string, content any) {
	if p.cb == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cb(ProgressEvent{Step: step, Message: message, RunID: p.runID, Content: content})
}

// Screen extracts every resume, scores the batch against jobText, and attaches
// scores and suggestions by index. Records keep input order; Ranking lists
// them by score. An empty batch yields an empty result without embedding.
// Only the embedding step can fail.
func (s *Screener) Screen(ctx context.Context, jobText string, resumes []types.Document) (*types.ScreeningResult, error) {
	runID := uuid.NewString()
	log := logger.WithRun(s.logger, runID)
	prog := &progress{cb: s.onProgress, runID: runID}

	result := &types.ScreeningResult{
		RunID:     runID,
		CreatedAt: s.now().UTC(),
		JobSkills: s.catalog.Match(jobText),
		Resumes:   make([]types.ResumeRecord, len(resumes)),
		Ranking:   make([]int, 0, len(resumes)),
	}
	log.Info("screening started", zap.Int("resumes", len(resumes)), zap.Strings("job_skills", result.JobSkills))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, doc := range resumes {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rec := s.Extract(doc)
			rec.Suggestions = s.suggester.Suggest(jobText, doc.Text)
			result.Resumes[i] = rec
			log.Debug("extracted fields",
				zap.String(logger.FieldFile, doc.FileName),
				zap.String("name", rec.Name),
				zap.Int("skills", len(rec.Skills)))
			prog.emit(StepExtract, fmt.Sprintf("Extracted %s", doc.FileName), doc.FileName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	texts := make([]string, len(resumes))
	for i, doc := range resumes {
		texts[i] = doc.Text
	}
	matches, err := s.matcher.Match(ctx, jobText, texts)
	if err != nil {
		log.Error("matching failed", zap.Error(err))
		return nil, err
	}
	for _, m := range matches {
		if m.Index < 0 || m.Index >= len(result.Resumes) {
			continue
		}
		result.Resumes[m.Index].Score = m.Score
		result.Ranking = append(result.Ranking, m.Index)
	}
	prog.emit(StepMatch, fmt.Sprintf("Scored %d resumes", len(matches)), nil)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, result); err != nil {
			log.Warn("failed to publish screening summary", zap.Error(err))
		} else {
			prog.emit(StepPublish, "Published screening summary", nil)
		}
	}

	if top, ok := result.Top(); ok {
		log.Info("screening finished", zap.String("top", top.FileName), zap.Float64("score", top.Score))
	} else {
		log.Info("screening finished with no resumes")
	}
	prog.emit(StepComplete, "Screening complete", nil)
	return result, nil
}
