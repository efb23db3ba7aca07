// Package store defines the driver-agnostic persistence contract for
// the agent memory subsystem. Implementations live under
// internal/store/<driver>/ (currently sqlite only).
package store

import (
	"context"

	"github.com/embermind/agentstore/internal/model"
)

// Store exposes persistence operations grouped by entity.
type Store interface {
	Accounts() Accounts
	Rooms() Rooms
	Participants() Participants
	Memories() Memories
	Knowledge() Knowledge
	Goals() Goals
	Relationships() Relationships
	Cache() Cache
	Logs() Logs

	HealthPing(ctx context.Context) error
	Close() error
}

type Accounts interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
}

type Rooms interface {
	// Create inserts a room, generating an id when none is supplied,
	// and returns the room id.
	Create(ctx context.Context, roomID string) (string, error)
	Get(ctx context.Context, roomID string) (*model.Room, error)
	Remove(ctx context.Context, roomID string) error
	ListForParticipant(ctx context.Context, userID string) ([]string, error)
	ListForParticipants(ctx context.Context, userIDs []string) ([]string, error)
}

type Participants interface {
	Create(ctx context.Context, p *model.Participant) error
	ListForAccount(ctx context.Context, userID string) ([]*model.Participant, error)
	ListForRoom(ctx context.Context, roomID string) ([]string, error)
	// UserState returns nil (not an error) when no row exists.
	UserState(ctx context.Context, roomID, userID string) (*string, error)
	SetUserState(ctx context.Context, roomID, userID string, state *string) error
	Remove(ctx context.Context, roomID, userID string) error
}

type Memories interface {
	// Create inserts or replaces the row as given; the dedup pipeline
	// that decides the Unique flag lives in services.MemoryService.
	Create(ctx context.Context, m *model.Memory, tableName string) error
	GetByID(ctx context.Context, id string) (*model.Memory, error)
	List(ctx context.Context, req model.GetMemoriesRequest) ([]*model.Memory, error)
	ListByRoomIDs(ctx context.Context, req model.GetMemoriesByRoomIDsRequest) ([]*model.Memory, error)
	CountByRoom(ctx context.Context, roomID, tableName string, unique bool) (int, error)
	SearchByDistance(ctx context.Context, req model.SearchMemoriesByDistanceRequest) ([]*model.MemoryMatch, error)
	SearchByEmbedding(ctx context.Context, req model.SearchMemoriesByEmbeddingRequest) ([]*model.MemoryMatch, error)
	Remove(ctx context.Context, id, tableName string) error
	RemoveAllForRoom(ctx context.Context, roomID, tableName string) error
}

type Knowledge interface {
	Get(ctx context.Context, req model.GetKnowledgeRequest) ([]*model.KnowledgeItem, error)
	// Create inserts the row as given; a primary-key conflict surfaces
	// as an error wrapping model.ErrConflict. The idempotency rules for
	// shared/private items live in services.KnowledgeService.
	Create(ctx context.Context, item *model.KnowledgeItem) error
	// ListCandidates returns the rows visible to agentID (own plus
	// shared) that carry a non-null embedding, for in-process ranking.
	ListCandidates(ctx context.Context, agentID string) ([]*model.KnowledgeItem, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context, agentID string, shared bool) error
}

type Goals interface {
	List(ctx context.Context, req model.GetGoalsRequest) ([]*model.Goal, error)
	Create(ctx context.Context, g *model.Goal) error
	Update(ctx context.Context, g *model.Goal) error
	UpdateStatus(ctx context.Context, id, status string) error
	Remove(ctx context.Context, id string) error
	RemoveAllForRoom(ctx context.Context, roomID string) error
}

type Relationships interface {
	Create(ctx context.Context, r *model.Relationship) error
	GetByPair(ctx context.Context, req model.GetRelationshipRequest) (*model.Relationship, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Relationship, error)
}

// Cache is the raw database cache table, scoped by agent. Expiry
// semantics live in the cache.Manager layered on top.
type Cache interface {
	Get(ctx context.Context, key, agentID string) (string, bool, error)
	Set(ctx context.Context, key, agentID, value string) error
	Delete(ctx context.Context, key, agentID string) error
}

type Logs interface {
	Create(ctx context.Context, l *model.Log) error
}
