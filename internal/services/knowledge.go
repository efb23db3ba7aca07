package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/embermind/agentstore/internal/cache"
	"github.com/embermind/agentstore/internal/model"
	"github.com/embermind/agentstore/internal/store"
	"github.com/embermind/agentstore/internal/vector"
)

// Keyword-scoring constants for hybrid knowledge search.
const (
	keywordTextMultiplier  = 3.0
	keywordChunkMultiplier = 1.5
	keywordMainMultiplier  = 1.2
	// a strong keyword hit rescues a vector match at or above this score
	keywordRescueFloor = 0.3
)

// KnowledgeService implements idempotent knowledge ingestion and the
// hybrid vector+keyword search with result memoization. The search
// cache is never invalidated by knowledge mutations; callers must not
// assume coherence immediately after a write.
type KnowledgeService struct {
	store store.Store
	cache *cache.Manager // nil disables memoization
	log   zerolog.Logger
}

func NewKnowledgeService(s store.Store, c *cache.Manager, log zerolog.Logger) *KnowledgeService {
	return &KnowledgeService{store: s, cache: c, log: log}
}

func (s *KnowledgeService) GetKnowledge(ctx context.Context, req model.GetKnowledgeRequest) ([]*model.KnowledgeItem, error) {
	return s.store.Knowledge().Get(ctx, req)
}

// CreateKnowledge inserts item, treating a primary-key conflict as a
// no-op: shared knowledge is expected to be re-seeded across agent
// instances (logged at info), a duplicate private item is silently
// skipped (logged at debug). Any other failure propagates.
func (s *KnowledgeService) CreateKnowledge(ctx context.Context, item *model.KnowledgeItem) error {
	err := s.store.Knowledge().Create(ctx, item)
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrConflict) {
		if item.Content.Metadata.IsShared {
			s.log.Info().Str("id", item.ID).Msg("shared knowledge already exists, skipping")
		} else {
			s.log.Debug().Str("id", item.ID).Msg("knowledge already exists, skipping")
		}
		return nil
	}
	return err
}

// SearchKnowledge ranks the rows visible to the agent by the product
// of a vector score 1/(1+L2) and a keyword multiplier, serving and
// refreshing the per-(agent, searchText) cache entry.
func (s *KnowledgeService) SearchKnowledge(ctx context.Context, req model.SearchKnowledgeRequest) ([]*model.KnowledgeMatch, error) {
	key := searchCacheKey(req.AgentID, req.SearchText)
	if s.cache != nil {
		var cached []*model.KnowledgeMatch
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	candidates, err := s.store.Knowledge().ListCandidates(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(req.SearchText)
	matches := make([]*model.KnowledgeMatch, 0, len(candidates))
	for _, item := range candidates {
		if len(item.Embedding) != len(req.Embedding) {
			continue
		}
		vectorScore := vector.Score(vector.L2(item.Embedding, req.Embedding))

		keywordScore := 1.0
		if needle != "" && strings.Contains(strings.ToLower(item.Content.Text), needle) {
			keywordScore = keywordTextMultiplier
		}
		// chunk takes precedence over main; only one applies
		if item.Content.Metadata.IsChunk {
			keywordScore *= keywordChunkMultiplier
		} else if item.Content.Metadata.IsMain {
			keywordScore *= keywordMainMultiplier
		}

		if vectorScore >= req.MatchThreshold || (keywordScore > 1.0 && vectorScore >= keywordRescueFloor) {
			matches = append(matches, &model.KnowledgeMatch{
				KnowledgeItem: *item,
				Score:         vectorScore * keywordScore,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if req.MatchCount > 0 && len(matches) > req.MatchCount {
		matches = matches[:req.MatchCount]
	}

	if s.cache != nil {
		// no explicit expiry; staleness after mutations is accepted
		if err := s.cache.Set(ctx, key, matches, cache.SetOptions{}); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("knowledge search cache write failed")
		}
	}
	return matches, nil
}

func (s *KnowledgeService) RemoveKnowledge(ctx context.Context, id string) error {
	return s.store.Knowledge().Remove(ctx, id)
}

func (s *KnowledgeService) ClearKnowledge(ctx context.Context, agentID string, shared bool) error {
	return s.store.Knowledge().Clear(ctx, agentID, shared)
}

func searchCacheKey(agentID, searchText string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(searchText))))
	return fmt.Sprintf("knowledge_search_%s_%x", agentID, h.Sum64())
}
