package embedding

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	// DefaultGeminiModel is the embedding model used when none is configured.
	DefaultGeminiModel = "text-embedding-004"
	// DefaultBatchSize is the largest number of texts sent in one request.
	DefaultBatchSize = 100
)

// GeminiConfig configures the Gemini embedder.
type GeminiConfig struct {
	Model     string
	BatchSize int
}

// DefaultGeminiConfig returns the default Gemini embedding configuration.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model:     DefaultGeminiModel,
		BatchSize: DefaultBatchSize,
	}
}

// batchFunc embeds one request-sized batch.
type batchFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Gemini embeds texts with the Google Gemini embedding API.
type Gemini struct {
	client    *genai.Client
	model     string
	batchSize int
	embed     batchFunc
	logger    *zap.Logger
}

// NewGemini creates a Gemini embedder.
func NewGemini(ctx context.Context, cfg GeminiConfig, apiKey string, logger *zap.Logger) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := newGemini(cfg, logger)
	g.client = client
	g.embed = g.batchEmbed
	return g, nil
}

func newGemini(cfg GeminiConfig, logger *zap.Logger) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

// EmbedStrings implements Embedder. Texts are sent in chunks of at most the
// configured batch size; output order matches input order.
func (g *Gemini) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))
		chunk := make([]string, 0, end-start)
		for _, t := range texts[start:end] {
			chunk = append(chunk, sanitizeUTF8(t))
		}

		g.logger.Debug("embedding batch",
			zap.String("model", g.model),
			zap.Int("offset", start),
			zap.Int("size", len(chunk)),
		)

		vecs, err := g.embed(ctx, chunk)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(chunk) {
			return nil, &DimensionError{Want: len(chunk), Got: len(vecs)}
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (g *Gemini) batchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	em := g.client.EmbeddingModel(g.model)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, &APICallError{Provider: "gemini", Message: "batch embed", Cause: err}
	}

	return embeddingValues(resp)
}

// embeddingValues unpacks a batch response. A missing or empty embedding is
// a provider failure.
func embeddingValues(resp *genai.BatchEmbedContentsResponse) ([][]float32, error) {
	vecs := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, &APICallError{Provider: "gemini", Message: fmt.Sprintf("empty embedding at position %d", i)}
		}
		vecs[i] = e.Values
	}
	return vecs, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// sanitizeUTF8 replaces invalid UTF-8 so the request marshals cleanly;
// document-to-text output can carry stray Latin-1 bytes.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
