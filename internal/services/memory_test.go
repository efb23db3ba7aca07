package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermind/agentstore/internal/model"
	"github.com/embermind/agentstore/internal/store"
	"github.com/embermind/agentstore/internal/store/sqlite"
)

const testDim = 4

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.New(":memory:", testDim)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMemoryService(t *testing.T) (*MemoryService, store.Store) {
	s := newTestStore(t)
	return NewMemoryService(s, testDim, zerolog.Nop()), s
}

func TestCreateMemoryMarksNearDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	first := &model.Memory{
		Type:      "messages",
		RoomID:    "room",
		AgentID:   "agent",
		Content:   model.Content{Text: "hello there"},
		Embedding: []float32{1, 0, 0, 0},
	}
	require.NoError(t, svc.CreateMemory(ctx, first, "messages"))
	assert.True(t, first.Unique)

	// identical embedding sits at distance zero
	dup := &model.Memory{
		Type:      "messages",
		RoomID:    "room",
		AgentID:   "agent",
		Content:   model.Content{Text: "hello there again"},
		Embedding: []float32{1, 0, 0, 0},
	}
	require.NoError(t, svc.CreateMemory(ctx, dup, "messages"))
	assert.False(t, dup.Unique)

	// a clearly different embedding stays unique
	far := &model.Memory{
		Type:      "messages",
		RoomID:    "room",
		AgentID:   "agent",
		Content:   model.Content{Text: "completely unrelated"},
		Embedding: []float32{0, 1, 0, 0},
	}
	require.NoError(t, svc.CreateMemory(ctx, far, "messages"))
	assert.True(t, far.Unique)
}

func TestCreateMemoryDedupScopedToRoom(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	a := &model.Memory{Type: "messages", RoomID: "room-a", AgentID: "agent", Embedding: []float32{1, 0, 0, 0}}
	require.NoError(t, svc.CreateMemory(ctx, a, "messages"))

	// same embedding in a different room does not collide
	b := &model.Memory{Type: "messages", RoomID: "room-b", AgentID: "agent", Embedding: []float32{1, 0, 0, 0}}
	require.NoError(t, svc.CreateMemory(ctx, b, "messages"))
	assert.True(t, b.Unique)
}

func TestCreateMemorySubstitutesZeroVector(t *testing.T) {
	ctx := context.Background()
	svc, s := newMemoryService(t)

	// an existing row at the zero vector must not trip the dedup check
	seed := &model.Memory{Type: "messages", RoomID: "room", AgentID: "agent"}
	require.NoError(t, svc.CreateMemory(ctx, seed, "messages"))
	require.True(t, seed.Unique)

	noVec := &model.Memory{Type: "messages", RoomID: "room", AgentID: "agent"}
	require.NoError(t, svc.CreateMemory(ctx, noVec, "messages"))
	assert.True(t, noVec.Unique)
	assert.Equal(t, make([]float32, testDim), noVec.Embedding)

	badLen := &model.Memory{Type: "messages", RoomID: "room", AgentID: "agent", Embedding: []float32{1, 2}}
	require.NoError(t, svc.CreateMemory(ctx, badLen, "messages"))
	assert.True(t, badLen.Unique)
	assert.Equal(t, make([]float32, testDim), badLen.Embedding)

	got, err := s.Memories().GetByID(ctx, noVec.ID)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, testDim), got.Embedding)
}

func TestMemoryServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	m1 := &model.Memory{
		Type:      "messages",
		RoomID:    "room",
		AgentID:   "agent",
		UserID:    "user",
		Content:   model.Content{Text: "the cat sat on the mat"},
		Embedding: []float32{1, 0, 0, 0},
		CreatedAt: 1000,
	}
	m2 := &model.Memory{
		Type:      "messages",
		RoomID:    "room",
		AgentID:   "agent",
		UserID:    "user",
		Content:   model.Content{Text: "the dog chased the cat"},
		Embedding: []float32{0.9, 0.1, 0, 0},
		CreatedAt: 2000,
	}
	require.NoError(t, svc.CreateMemory(ctx, m1, "messages"))
	require.NoError(t, svc.CreateMemory(ctx, m2, "messages"))

	list, err := svc.GetMemories(ctx, model.GetMemoriesRequest{RoomID: "room", TableName: "messages"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m2.ID, list[0].ID) // newest first

	count, err := svc.CountMemories(ctx, "room", false, "messages")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// score-ordered search from m2's neighborhood ranks m2 first
	matches, err := svc.SearchMemoriesByEmbedding(ctx, model.SearchMemoriesByEmbeddingRequest{
		AgentID:   "agent",
		TableName: "messages",
		Embedding: []float32{0.9, 0.1, 0, 0},
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, m2.ID, matches[0].ID)
	assert.Equal(t, m1.ID, matches[1].ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)

	require.NoError(t, svc.RemoveMemory(ctx, m1.ID, "messages"))
	require.NoError(t, svc.RemoveAllMemories(ctx, "room", "messages"))
	count, err = svc.CountMemories(ctx, "room", false, "messages")
	require.NoError(t, err)
	assert.Zero(t, count)
}
