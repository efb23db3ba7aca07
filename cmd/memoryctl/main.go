// memoryctl inspects and exercises the embedded agent memory store:
// apply the schema, show table stats, run similarity searches, and
// read or write cache entries.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/embermind/agentstore/internal/config"
	"github.com/embermind/agentstore/internal/platform/logger"
	"github.com/embermind/agentstore/internal/runtime"
)

var (
	dbFlag    string
	agentFlag string

	rootCmd = &cobra.Command{
		Use:   "memoryctl",
		Short: "CLI for the embedded agent memory store",
	}
)

// openRuntime builds a Runtime from the environment, letting the
// --db / --agent flags override the corresponding settings.
func openRuntime() (*runtime.Runtime, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if agentFlag != "" {
		cfg.AgentID = agentFlag
	}
	log := logger.New("memoryctl", cfg.LogLevel)
	return runtime.New(cfg, log)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path (overrides AGENTSTORE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&agentFlag, "agent", "", "agent ID scope (overrides AGENTSTORE_AGENT_ID)")

	rootCmd.AddCommand(newInitCmd(), newHealthCmd(), newStatsCmd(), newSearchCmd(), newCacheCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
