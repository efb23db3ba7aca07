// Package services orchestrates memory and knowledge use cases on top
// of the store: create-memory deduplication and hybrid knowledge
// retrieval with result caching.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/embermind/agentstore/internal/model"
	"github.com/embermind/agentstore/internal/store"
	"github.com/embermind/agentstore/internal/vector"
)

// DedupSimilarityThreshold marks a new memory as a near-duplicate when
// an existing memory in the same (type, agentId, roomId) scope sits at
// a similarity of at least this value.
const DedupSimilarityThreshold = 0.95

// MemoryService owns the create-memory pipeline and forwards the read
// and delete operations to the store.
type MemoryService struct {
	store store.Store
	dim   int
	log   zerolog.Logger
}

func NewMemoryService(s store.Store, dim int, log zerolog.Logger) *MemoryService {
	if dim <= 0 {
		dim = vector.DefaultDimensions
	}
	return &MemoryService{store: s, dim: dim, log: log}
}

// CreateMemory persists m under tableName. A missing id and createdAt
// are defaulted; an absent or mismatched-length embedding is replaced
// with a zero vector of the configured dimensionality. When a real
// embedding is present, a distance search scoped to the same type,
// agent and room decides the Unique flag: any neighbor at similarity
// >= 0.95 marks the new row non-unique.
//
// The check-then-insert window is not atomic; concurrent creators of
// near-duplicates may both land as unique. That is accepted behavior,
// the embedded engine being the only serialization point.
func (s *MemoryService) CreateMemory(ctx context.Context, m *model.Memory, tableName string) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().UnixMilli()
	}

	if len(m.Embedding) != s.dim {
		m.Embedding = vector.Zero(s.dim)
		m.Unique = true
	} else {
		matches, err := s.store.Memories().SearchByDistance(ctx, model.SearchMemoriesByDistanceRequest{
			TableName:   tableName,
			RoomID:      m.RoomID,
			AgentID:     m.AgentID,
			Embedding:   m.Embedding,
			MaxDistance: vector.DistanceForScore(DedupSimilarityThreshold),
			MatchCount:  1,
		})
		if err != nil {
			return err
		}
		m.Unique = len(matches) == 0
		if !m.Unique {
			s.log.Debug().Str("id", m.ID).Str("similarTo", matches[0].ID).Msg("memory marked non-unique")
		}
	}

	return s.store.Memories().Create(ctx, m, tableName)
}

func (s *MemoryService) GetMemoryByID(ctx context.Context, id string) (*model.Memory, error) {
	return s.store.Memories().GetByID(ctx, id)
}

func (s *MemoryService) GetMemories(ctx context.Context, req model.GetMemoriesRequest) ([]*model.Memory, error) {
	return s.store.Memories().List(ctx, req)
}

func (s *MemoryService) GetMemoriesByRoomIDs(ctx context.Context, req model.GetMemoriesByRoomIDsRequest) ([]*model.Memory, error) {
	return s.store.Memories().ListByRoomIDs(ctx, req)
}

func (s *MemoryService) CountMemories(ctx context.Context, roomID string, unique bool, tableName string) (int, error) {
	return s.store.Memories().CountByRoom(ctx, roomID, tableName, unique)
}

// SearchMemories is the distance-ordered search: ascending distance,
// lower is more similar.
func (s *MemoryService) SearchMemories(ctx context.Context, req model.SearchMemoriesByDistanceRequest) ([]*model.MemoryMatch, error) {
	return s.store.Memories().SearchByDistance(ctx, req)
}

// SearchMemoriesByEmbedding is the score-ordered search: descending
// similarity score, higher is more similar.
func (s *MemoryService) SearchMemoriesByEmbedding(ctx context.Context, req model.SearchMemoriesByEmbeddingRequest) ([]*model.MemoryMatch, error) {
	return s.store.Memories().SearchByEmbedding(ctx, req)
}

func (s *MemoryService) RemoveMemory(ctx context.Context, id, tableName string) error {
	return s.store.Memories().Remove(ctx, id, tableName)
}

func (s *MemoryService) RemoveAllMemories(ctx context.Context, roomID, tableName string) error {
	return s.store.Memories().RemoveAllForRoom(ctx, roomID, tableName)
}
