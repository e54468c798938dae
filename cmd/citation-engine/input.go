// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/analysis"
	"github.com/pdiddy/citation-engine/internal/snapshot"
	"github.com/pdiddy/citation-engine/internal/store"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// addInputFlags adds the flags selecting where a snapshot is read from.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("snapshot", "", "snapshot file (.yaml, .yml or .json)")
	cmd.Flags().String("db", "", "store directory holding citations.db (default: store.dir)")
}

// addAnalysisFlags adds per-run overrides of the analysis config.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().Int("current-year", 0, "year anchoring velocity, trends and recency (0 = analysis.current_year or now)")
	cmd.Flags().Int("workers", 0, "worker goroutines per stage (0 = analysis.workers or GOMAXPROCS)")
	cmd.Flags().Float64("alpha", 0, "collaborative weight in [0, 1] (default analysis.collaborative_alpha)")
	cmd.Flags().Int("limit", 0, "maximum recommendations per user (0 = analysis.recommendation_limit)")
	cmd.Flags().Bool("json", false, "output results as JSON")
}

// analysisConfig returns the loaded analysis config with flag overrides.
func analysisConfig(cmd *cobra.Command) types.AnalysisConfig {
	c := cfg.Analysis
	if cmd.Flags().Changed("current-year") {
		c.CurrentYear, _ = cmd.Flags().GetInt("current-year")
	}
	if cmd.Flags().Changed("workers") {
		c.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("alpha") {
		c.CollaborativeAlpha, _ = cmd.Flags().GetFloat64("alpha")
	}
	if cmd.Flags().Changed("limit") {
		c.RecommendationLimit, _ = cmd.Flags().GetInt("limit")
	}
	return c
}

// storeDir returns --db when given, else the configured store directory.
func storeDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("db"); dir != "" {
		return dir
	}
	return cfg.Store.Dir
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	return store.Open(types.StoreConfig{Dir: storeDir(cmd)})
}

// loadInput reads the snapshot named by --snapshot, or the stored snapshot
// when --snapshot is not given.
func loadInput(ctx context.Context, cmd *cobra.Command) (types.Snapshot, error) {
	if path, _ := cmd.Flags().GetString("snapshot"); path != "" {
		return snapshot.Load(path)
	}
	if storeDir(cmd) == "" {
		return types.Snapshot{}, fmt.Errorf("provide --snapshot or --db")
	}
	s, err := openStore(cmd)
	if err != nil {
		return types.Snapshot{}, err
	}
	defer s.Close()
	return s.Snapshot(ctx)
}

func newEngine() *analysis.Engine {
	return analysis.New(analysis.WithLogger(logger), analysis.WithMetrics(collect))
}
