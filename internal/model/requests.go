package model

// GetMemoriesRequest is a filtered, time-bounded memory fetch. RoomID
// and TableName are required; Start/End bound CreatedAt (0 means
// unbounded); Count caps results after createdAt-descending ordering.
type GetMemoriesRequest struct {
	RoomID    string `json:"roomId"`
	AgentID   string `json:"agentId,omitempty"`
	TableName string `json:"tableName"`
	Count     int    `json:"count,omitempty"`
	Unique    bool   `json:"unique,omitempty"`
	Start     int64  `json:"start,omitempty"`
	End       int64  `json:"end,omitempty"`
}

// GetMemoriesByRoomIDsRequest fetches memories across a set of rooms.
type GetMemoriesByRoomIDsRequest struct {
	AgentID   string   `json:"agentId,omitempty"`
	RoomIDs   []string `json:"roomIds"`
	TableName string   `json:"tableName"`
}

// SearchMemoriesByDistanceRequest is the distance-ordered search:
// results come back ascending by L2 distance, capped at MatchCount
// after ordering. MaxDistance excludes rows farther than the bound.
type SearchMemoriesByDistanceRequest struct {
	TableName   string    `json:"tableName"`
	RoomID      string    `json:"roomId"`
	AgentID     string    `json:"agentId,omitempty"`
	Embedding   []float32 `json:"embedding"`
	MaxDistance float64   `json:"maxDistance"`
	MatchCount  int       `json:"matchCount"`
	Unique      bool      `json:"unique,omitempty"`
}

// SearchMemoriesByEmbeddingRequest is the score-ordered search:
// results come back descending by similarity score 1/(1+distance),
// capped at Count if positive. RoomID is optional here.
type SearchMemoriesByEmbeddingRequest struct {
	AgentID   string    `json:"agentId"`
	TableName string    `json:"tableName"`
	RoomID    string    `json:"roomId,omitempty"`
	Embedding []float32 `json:"embedding"`
	Unique    bool      `json:"unique,omitempty"`
	Count     int       `json:"count,omitempty"`
}

// GetKnowledgeRequest fetches knowledge rows visible to AgentID (own
// plus shared), optionally point-filtered by ID and capped at Limit.
type GetKnowledgeRequest struct {
	ID      string `json:"id,omitempty"`
	AgentID string `json:"agentId"`
	Limit   int    `json:"limit,omitempty"`
}

// SearchKnowledgeRequest is the hybrid vector+keyword knowledge search.
type SearchKnowledgeRequest struct {
	AgentID        string    `json:"agentId"`
	Embedding      []float32 `json:"embedding"`
	MatchThreshold float64   `json:"matchThreshold"`
	MatchCount     int       `json:"matchCount"`
	SearchText     string    `json:"searchText,omitempty"`
}

// GetGoalsRequest filters goals by room, optionally by user and
// in-progress status, capped at Count if positive.
type GetGoalsRequest struct {
	RoomID         string `json:"roomId"`
	UserID         string `json:"userId,omitempty"`
	OnlyInProgress bool   `json:"onlyInProgress,omitempty"`
	Count          int    `json:"count,omitempty"`
}

// GetRelationshipRequest looks up the relationship between two
// accounts; the pair match is order-independent.
type GetRelationshipRequest struct {
	UserA string `json:"userA"`
	UserB string `json:"userB"`
}
