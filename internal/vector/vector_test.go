package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3.75, 0}
	got, err := Decode(Encode(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestDecodeRejectsTruncatedBlob(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestL2(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{3, 4, 0}
	assert.InDelta(t, 5.0, L2(a, b), 1e-9)
	assert.Zero(t, L2(b, b))
}

func TestScoreDistanceInverse(t *testing.T) {
	for _, d := range []float64{0, 0.05, 1, 10} {
		s := Score(d)
		assert.InDelta(t, d, DistanceForScore(s), 1e-9)
	}
	// identical vectors score 1
	assert.Equal(t, 1.0, Score(0))
	// dedup threshold translates to a small distance bound
	assert.InDelta(t, 0.0526315, DistanceForScore(0.95), 1e-6)
	assert.True(t, math.IsInf(DistanceForScore(0), 1))
}

func TestZero(t *testing.T) {
	z := Zero(DefaultDimensions)
	require.Len(t, z, 384)
	assert.True(t, IsZero(z))
	assert.False(t, IsZero([]float32{0, 1e-6}))
}
