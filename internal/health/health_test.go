package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) HealthPing(context.Context) error { return f.err }

func TestCheckerVerdict(t *testing.T) {
	ctx := context.Background()
	db := &fakePinger{}
	emb := &fakePinger{}
	c := NewChecker(zerolog.Nop(), time.Second,
		Component{Name: "store", Pinger: db},
		Component{Name: "embedder", Pinger: emb},
	)

	assert.False(t, c.IsHealthy()) // no check yet

	require.NoError(t, c.CheckNow(ctx))
	assert.True(t, c.IsHealthy())

	emb.err = errors.New("daemon down")
	err := c.CheckNow(ctx)
	require.Error(t, err)
	assert.False(t, c.IsHealthy())

	emb.err = nil
	require.NoError(t, c.CheckNow(ctx))
	assert.True(t, c.IsHealthy())
}

func TestCheckerNoComponents(t *testing.T) {
	c := NewChecker(zerolog.Nop(), time.Second)
	require.NoError(t, c.CheckNow(context.Background()))
	assert.True(t, c.IsHealthy())
}
