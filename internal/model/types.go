package model

// Entity types persisted by the store. All identifiers are canonical
// hyphenated UUID strings. Structured payloads (Content, Objectives,
// AccountDetails) are typed records that round-trip through JSON.

// Account represents a user or agent identity.
type Account struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Username  string         `json:"username"`
	Email     string         `json:"email,omitempty"`
	AvatarURL string         `json:"avatarUrl,omitempty"`
	Details   AccountDetails `json:"details,omitempty"`
}

// AccountDetails is arbitrary structured metadata attached to an account,
// stored serialized as JSON text.
type AccountDetails struct {
	Summary    string            `json:"summary,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Room is a conversation or channel context. It carries no state beyond
// its identifier; participants and memories reference it by UUID.
type Room struct {
	ID string `json:"id"`
}

// Participant user-state values. An absent state reads as nil.
const (
	UserStateFollowed = "FOLLOWED"
	UserStateMuted    = "MUTED"
)

// Participant links an account to a room.
type Participant struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	RoomID          string  `json:"roomId"`
	LastMessageRead string  `json:"last_message_read,omitempty"`
	UserState       *string `json:"userState,omitempty"`
}

// Content is the structured payload of a memory. It must serialize
// losslessly to and from JSON text.
type Content struct {
	Text        string   `json:"text"`
	Action      string   `json:"action,omitempty"`
	Source      string   `json:"source,omitempty"`
	URL         string   `json:"url,omitempty"`
	InReplyTo   string   `json:"inReplyTo,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// Memory is a single conversational memory row. Type is the logical
// table namespace (e.g. "messages", "facts"). Embedding always has the
// configured dimensionality once stored; an absent or mismatched
// embedding is replaced with a zero vector at insert time.
type Memory struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   Content   `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	RoomID    string    `json:"roomId"`
	AgentID   string    `json:"agentId,omitempty"`
	Unique    bool      `json:"unique"`
	CreatedAt int64     `json:"createdAt"` // epoch milliseconds
}

// MemoryMatch is a memory returned by a similarity search. Exactly one
// of Distance or Score is meaningful depending on the operation that
// produced it: SearchMemoriesByDistance populates Distance (lower is
// more similar), SearchMemoriesByEmbedding populates Score (higher is
// more similar). The two conventions are intentionally distinct.
type MemoryMatch struct {
	Memory
	Distance float64 `json:"distance,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// KnowledgeMetadata describes a knowledge item's position in its source
// document and its sharing scope.
type KnowledgeMetadata struct {
	IsMain     bool   `json:"isMain,omitempty"`
	IsShared   bool   `json:"isShared,omitempty"`
	IsChunk    bool   `json:"isChunk,omitempty"`
	OriginalID string `json:"originalId,omitempty"`
	ChunkIndex int    `json:"chunkIndex,omitempty"`
}

// KnowledgeContent is the structured payload of a knowledge item.
type KnowledgeContent struct {
	Text     string            `json:"text"`
	Metadata KnowledgeMetadata `json:"metadata,omitempty"`
}

// KnowledgeItem is a persisted RAG chunk. AgentID is empty for shared
// items and non-empty otherwise.
type KnowledgeItem struct {
	ID        string           `json:"id"`
	AgentID   string           `json:"agentId,omitempty"`
	Content   KnowledgeContent `json:"content"`
	Embedding []float32        `json:"embedding,omitempty"`
	CreatedAt int64            `json:"createdAt"`
}

// KnowledgeMatch is a knowledge item ranked by hybrid search; Score is
// the combined vector*keyword score.
type KnowledgeMatch struct {
	KnowledgeItem
	Score float64 `json:"score"`
}

// Goal status values. Anything other than IN_PROGRESS is terminal.
const (
	GoalStatusInProgress = "IN_PROGRESS"
	GoalStatusDone       = "DONE"
	GoalStatusFailed     = "FAILED"
)

// Objective is one step of a goal.
type Objective struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Goal tracks an agent objective within a room.
type Goal struct {
	ID         string      `json:"id"`
	RoomID     string      `json:"roomId"`
	UserID     string      `json:"userId"`
	Name       string      `json:"name"`
	Status     string      `json:"status"`
	Objectives []Objective `json:"objectives"`
}

// Relationship links two accounts. Pair lookup is symmetric: a query
// for (A,B) matches a stored (B,A) row.
type Relationship struct {
	ID     string `json:"id"`
	UserA  string `json:"userA"`
	UserB  string `json:"userB"`
	UserID string `json:"userId"`
}

// CacheEntry is one row of the database cache backend. The composite
// key is (Key, AgentID).
type CacheEntry struct {
	Key       string `json:"key"`
	AgentID   string `json:"agentId"`
	Value     string `json:"value"`
	CreatedAt int64  `json:"createdAt"`
}

// Log is an append-only event record. No read path is modeled.
type Log struct {
	Body   map[string]interface{} `json:"body"`
	UserID string                 `json:"userId"`
	RoomID string                 `json:"roomId"`
	Type   string                 `json:"type"`
}
