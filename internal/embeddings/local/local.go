// Package local provides a deterministic, network-free embedding
// provider. Vectors are seeded from an FNV hash of the text and
// unit-normalized, so equal texts embed identically and similarity
// math behaves sensibly in tests and offline runs.
package local

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/embermind/agentstore/internal/vector"
)

type Provider struct {
	dim int
}

// New returns a provider emitting dim-length vectors; dim <= 0 falls
// back to the default dimensionality.
func New(dim int) *Provider {
	if dim <= 0 {
		dim = vector.DefaultDimensions
	}
	return &Provider{dim: dim}
}

func (p *Provider) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	out := make([]float32, p.dim)
	for i := range out {
		// LCG over the hash seed keeps the vector deterministic
		seed = seed*6364136223846793005 + 1442695040888963407
		out[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(out), nil
}

func (p *Provider) Dimensions() int { return p.dim }

func normalize(v []float32) []float32 {
	var norm float64
	for _, f := range v {
		norm += float64(f) * float64(f)
	}
	if norm == 0 {
		return v
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v
}
