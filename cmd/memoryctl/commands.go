package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/embermind/agentstore/internal/cache"
	"github.com/embermind/agentstore/internal/model"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database file and apply the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			if err := rt.HealthPing(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "schema applied")
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Ping the store and embedding provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			if err := rt.Health.CheckNow(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "healthy")
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var roomID, table string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count memories in a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			total, err := rt.Memories.CountMemories(cmd.Context(), roomID, false, table)
			if err != nil {
				return err
			}
			unique, err := rt.Memories.CountMemories(cmd.Context(), roomID, true, table)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "room=%s type=%s total=%d unique=%d\n", roomID, table, total, unique)
			return nil
		},
	}
	cmd.Flags().StringVarP(&roomID, "room", "r", "", "room ID (required)")
	cmd.Flags().StringVarP(&table, "type", "t", "messages", "memory type namespace")
	_ = cmd.MarkFlagRequired("room")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var roomID, table string
	var count int
	cmd := &cobra.Command{
		Use:   "search <query text>",
		Short: "Similarity-search memories by query text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			emb, err := rt.Embedder.Embed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			matches, err := rt.Memories.SearchMemoriesByEmbedding(cmd.Context(), model.SearchMemoriesByEmbeddingRequest{
				AgentID:   agentFlag,
				TableName: table,
				RoomID:    roomID,
				Embedding: emb,
				Count:     count,
			})
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintf(os.Stdout, "%.4f  %s  %s\n", m.Score, m.ID, m.Content.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&roomID, "room", "r", "", "room ID (optional)")
	cmd.Flags().StringVarP(&table, "type", "t", "messages", "memory type namespace")
	cmd.Flags().IntVarP(&count, "count", "k", 10, "max results")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Read and write cache entries",
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Fetch a cache entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			var value json.RawMessage
			ok, err := rt.CacheManager.Get(cmd.Context(), args[0], &value)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "(absent)")
				return nil
			}
			fmt.Fprintln(os.Stdout, string(value))
			return nil
		},
	}

	var ttl time.Duration
	setCmd := &cobra.Command{
		Use:   "set <key> <json value>",
		Short: "Store a cache entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			opts := cache.SetOptions{}
			if ttl > 0 {
				opts.Expires = time.Now().Add(ttl)
			}
			return rt.CacheManager.Set(cmd.Context(), args[0], json.RawMessage(args[1]), opts)
		},
	}
	setCmd.Flags().DurationVar(&ttl, "ttl", 0, "expiry duration (0 = never)")

	delCmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a cache entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			return rt.CacheManager.Delete(cmd.Context(), args[0])
		},
	}

	cacheCmd.AddCommand(getCmd, setCmd, delCmd)
	return cacheCmd
}
