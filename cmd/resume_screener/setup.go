package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/embedding"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/publish"
	"github.com/jonathan/resume-screener/internal/skills"
)

// app carries what every command needs after flag parsing.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func setup() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(jsonLogs, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &app{cfg: cfg, logger: log}, nil
}

func (a *app) catalog() *skills.Catalog {
	return skills.Default().Extend(a.cfg.Skills)
}

func (a *app) loader() *ingestion.Loader {
	return ingestion.NewLoader(a.logger)
}

// embedder builds the configured provider. The returned close function is
// never nil.
func (a *app) embedder(ctx context.Context) (embedding.Embedder, func(), error) {
	if a.cfg.Embedding.Provider == config.ProviderLexical {
		return embedding.NewLexical(a.cfg.Embedding.Dimensions), func() {}, nil
	}
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}
	g, err := embedding.NewGemini(ctx, embedding.GeminiConfig{
		Model:     a.cfg.Embedding.Model,
		BatchSize: a.cfg.Embedding.BatchSize,
	}, a.cfg.APIKey, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return g, func() { _ = g.Close() }, nil
}

// publisher dials the broker when one is configured. It returns nil without
// error when AMQP is disabled.
func (a *app) publisher() (*publish.AMQP, error) {
	if a.cfg.AMQP.URL == "" {
		return nil, nil
	}
	return publish.DialAMQP(a.cfg.AMQP.URL, a.cfg.AMQP.Exchange, a.logger)
}

func (a *app) fetcher(useBrowser bool) *fetch.Client {
	opts := fetch.Options{}
	if useBrowser {
		opts.Renderer = fetch.NewBrowser()
	}
	return fetch.NewClient(opts, a.logger)
}

// screener wires the pipeline. pub may be nil.
func (a *app) screener(ctx context.Context, pub publish.Publisher) (*pipeline.Screener, func(), error) {
	emb, closeEmb, err := a.embedder(ctx)
	if err != nil {
		return nil, nil, err
	}
	s, err := pipeline.NewScreener(pipeline.Options{
		Catalog:   a.catalog(),
		Embedder:  emb,
		Workers:   a.cfg.Workers,
		Publisher: pub,
		Logger:    a.logger,
		OnProgress: func(e pipeline.ProgressEvent) {
			a.logger.Debug(e.Step, zap.String("detail", e.Message), zap.String(logger.FieldRunID, e.RunID))
		},
	})
	if err != nil {
		closeEmb()
		return nil, nil, err
	}
	return s, closeEmb, nil
}
