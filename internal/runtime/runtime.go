// Package runtime composes the storage subsystem for the agent: the
// database adapter, the cache manager, the embedding provider, and the
// services layered on them. Out-of-scope collaborators (chat clients,
// plugins, voice pipelines) consume the store exclusively through this
// object.
package runtime

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"

	"github.com/embermind/agentstore/internal/cache"
	"github.com/embermind/agentstore/internal/config"
	"github.com/embermind/agentstore/internal/embeddings"
	"github.com/embermind/agentstore/internal/embeddings/local"
	"github.com/embermind/agentstore/internal/embeddings/ollama"
	"github.com/embermind/agentstore/internal/health"
	"github.com/embermind/agentstore/internal/services"
	"github.com/embermind/agentstore/internal/store"
	"github.com/embermind/agentstore/internal/store/sqlite"
)

// Runtime is the collaborator-facing composition of the subsystem.
type Runtime struct {
	Store        store.Store
	CacheManager *cache.Manager
	Embedder     embeddings.Provider
	Memories     *services.MemoryService
	Knowledge    *services.KnowledgeService
	Health       *health.Checker

	log zerolog.Logger
}

// New builds a Runtime from configuration: opens the database, applies
// the schema, selects the cache backend and embedding provider, and
// wires the services. The embedding provider is owned by the runtime
// and passed by reference; nothing here is a process-wide singleton.
func New(cfg *config.Config, log zerolog.Logger) (*Runtime, error) {
	st, err := sqlite.New(cfg.DBPath, cfg.EmbedDimensions)
	if err != nil {
		return nil, goerr.Wrap(err, "open store", goerr.V("path", cfg.DBPath))
	}

	backend, err := newCacheBackend(cfg, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	cm := cache.NewManager(backend)

	emb, err := newEmbedder(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	log.Info().
		Str("db_path", cfg.DBPath).
		Str("cache_store", cfg.CacheStore).
		Str("embed_provider", cfg.EmbedProvider).
		Int("embed_dimensions", cfg.EmbedDimensions).
		Msg("agent store initialized")

	components := []health.Component{{Name: "store", Pinger: st}}
	if pinger, ok := emb.(health.HealthPinger); ok {
		components = append(components, health.Component{Name: "embedder", Pinger: pinger})
	}

	return &Runtime{
		Store:        st,
		CacheManager: cm,
		Embedder:     emb,
		Memories:     services.NewMemoryService(st, cfg.EmbedDimensions, log),
		Knowledge:    services.NewKnowledgeService(st, cm, log),
		Health:       health.NewChecker(log, 5*time.Second, components...),
		log:          log,
	}, nil
}

func newCacheBackend(cfg *config.Config, st store.Store) (cache.Backend, error) {
	switch cfg.CacheStore {
	case "memory":
		return cache.NewMemoryBackend(), nil
	case "fs":
		return cache.NewFSBackend(cfg.CacheDir)
	case "db":
		return cache.NewDBBackend(st.Cache(), cfg.AgentID), nil
	default:
		return nil, goerr.New("unsupported cache store", goerr.V("store", cfg.CacheStore))
	}
}

func newEmbedder(cfg *config.Config) (embeddings.Provider, error) {
	switch cfg.EmbedProvider {
	case "local":
		return local.New(cfg.EmbedDimensions), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbedDimensions), nil
	default:
		return nil, goerr.New("unsupported embed provider", goerr.V("provider", cfg.EmbedProvider))
	}
}

// HealthPing verifies connectivity of every registered component.
func (r *Runtime) HealthPing(ctx context.Context) error {
	return r.Health.CheckNow(ctx)
}

// Close releases the underlying database handle.
func (r *Runtime) Close() error {
	return r.Store.Close()
}
