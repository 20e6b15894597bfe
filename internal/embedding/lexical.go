package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// DefaultLexicalDimensions is the vector width of the lexical embedder.
const DefaultLexicalDimensions = 512

var lexicalToken = regexp.MustCompile(`[a-z0-9][a-z0-9+#.]*`)

// Lexical is an offline embedder that hashes lower-cased tokens into a fixed
// number of buckets and L2-normalizes the counts. Cosine similarity over
// these vectors approximates token overlap, so it needs no network access
// and gives the same vectors on every run.
type Lexical struct {
	dims int
}

// NewLexical creates a lexical embedder with the given width.
// Non-positive widths use DefaultLexicalDimensions.
func NewLexical(dims int) *Lexical {
	if dims <= 0 {
		dims = DefaultLexicalDimensions
	}
	return &Lexical{dims: dims}
}

// EmbedStrings implements Embedder.
func (l *Lexical) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = l.vector(t)
	}
	return out, nil
}

func (l *Lexical) vector(text string) []float32 {
	counts := make([]float64, l.dims)
	for _, tok := range lexicalToken.FindAllString(strings.ToLower(text), -1) {
		tok = strings.TrimRight(tok, ".")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		counts[h.Sum32()%uint32(l.dims)]++
	}

	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	vec := make([]float32, l.dims)
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, c := range counts {
		vec[i] = float32(c / norm)
	}
	return vec
}
