// Package vector holds the embedding value type and the distance math
// used by similarity search. Embeddings are fixed-length float32
// vectors stored as little-endian blobs.
package vector

import (
	"encoding/binary"
	"math"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultDimensions matches the local all-MiniLM-style embedding size.
// Remote providers may configure a different dimensionality.
const DefaultDimensions = 384

// Zero returns a zero vector of dim entries. Stored in place of absent
// or mismatched embeddings so every row carries a same-length vector.
func Zero(dim int) []float32 {
	return make([]float32, dim)
}

// Encode serializes a vector as a little-endian float32 blob.
func Encode(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Decode parses a little-endian float32 blob.
func Decode(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, goerr.New("embedding blob length not a multiple of 4", goerr.V("len", len(b)))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// L2 returns the Euclidean distance between two equal-length vectors.
// Comparing mismatched lengths is undefined; the store's fixed
// dimensionality invariant keeps that from arising.
func L2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Score converts an L2 distance to a similarity score in (0,1], where
// 1 means identical. This is the convention used by score-ordered
// search and by hybrid knowledge ranking.
func Score(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

// DistanceForScore inverts Score: the maximum L2 distance at which the
// similarity score is still >= score. Used to translate the dedup
// similarity threshold (0.95) into a distance bound.
func DistanceForScore(score float64) float64 {
	if score <= 0 {
		return math.Inf(1)
	}
	return 1.0/score - 1.0
}

// IsZero reports whether every component is zero.
func IsZero(v []float32) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}
