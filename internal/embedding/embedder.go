// Package embedding turns text into dense vectors for similarity scoring.
// Providers sit behind the Embedder interface so scoring can be exercised
// with deterministic fakes.
package embedding

import (
	"context"
	"fmt"
	"math"
)

// Embedder converts texts into vectors. Implementations must return exactly
// one vector per input text, in input order.
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string) ([][]float32, error)
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. Vectors of
// different length or with zero magnitude have similarity 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim))
}

// APICallError represents a failed call to an embedding provider.
type APICallError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s embedding call failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s embedding call failed: %s", e.Provider, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// DimensionError reports a provider response whose shape does not line up
// with the request. With Width unset it is a vector count mismatch;
// otherwise the vector at Index has the wrong number of values.
type DimensionError struct {
	Want  int
	Got   int
	Width bool
	Index int
}

func (e *DimensionError) Error() string {
	switch {
	case !e.Width:
		return fmt.Sprintf("embedding count mismatch: want %d vectors, got %d", e.Want, e.Got)
	case e.Got == 0:
		return fmt.Sprintf("embedding at position %d is empty", e.Index)
	default:
		return fmt.Sprintf("embedding width mismatch at position %d: want %d values, got %d", e.Index, e.Want, e.Got)
	}
}

// CheckShape verifies that vecs holds n non-empty vectors of equal length.
func CheckShape(vecs [][]float32, n int) error {
	if len(vecs) != n {
		return &DimensionError{Want: n, Got: len(vecs)}
	}
	if n == 0 {
		return nil
	}
	width := len(vecs[0])
	if width == 0 {
		return &DimensionError{Width: true, Index: 0}
	}
	for i, v := range vecs[1:] {
		if len(v) != width {
			return &DimensionError{Width: true, Index: i + 1, Want: width, Got: len(v)}
		}
	}
	return nil
}
