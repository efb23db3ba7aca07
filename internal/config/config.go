package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the agent memory store.
// Environment variables are parsed from the AGENTSTORE_ prefix,
// e.g. AGENTSTORE_DB_PATH, AGENTSTORE_CACHE_STORE.
type Config struct {
	// DBPath is the SQLite database file; ":memory:" selects a
	// private in-memory database.
	DBPath string `envconfig:"DB_PATH" default:"agentstore.db"`

	// EmbedProvider selects the embedding backend: local, ollama
	EmbedProvider   string `envconfig:"EMBED_PROVIDER" default:"local"`
	EmbedModel      string `envconfig:"EMBED_MODEL" default:"mxbai-embed-large"`
	EmbedDimensions int    `envconfig:"EMBED_DIMENSIONS" default:"384"`
	OllamaURL       string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`

	// CacheStore selects the cache backend: db, memory, fs
	CacheStore string `envconfig:"CACHE_STORE" default:"db"`
	CacheDir   string `envconfig:"CACHE_DIR" default:".agentstore-cache"`

	// AgentID scopes database cache entries and knowledge ownership
	// for this runtime instance.
	AgentID string `envconfig:"AGENT_ID" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults validates the selector fields.
func (c *Config) ResolveDefaults() error {
	switch c.EmbedProvider {
	case "local", "ollama":
	default:
		return fmt.Errorf("unsupported EMBED_PROVIDER: %s", c.EmbedProvider)
	}
	switch c.CacheStore {
	case "db", "memory", "fs":
	default:
		return fmt.Errorf("unsupported CACHE_STORE: %s", c.CacheStore)
	}
	if c.EmbedDimensions <= 0 {
		return fmt.Errorf("EMBED_DIMENSIONS must be positive")
	}
	return nil
}

// New creates a Config from the environment.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("AGENTSTORE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
