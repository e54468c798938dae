// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"time"

	"github.com/pdiddy/citation-engine/internal/breakthrough"
	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/internal/ranking"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Report is the structured result of one analysis run. A cancelled run
// carries only RunID, Status and timing; every other field is empty.
// Reports served from the cache share their slices, so callers must treat
// them as read-only.
type Report struct {
	RunID      string          `json:"run_id" yaml:"run_id"`
	Status     types.RunStatus `json:"status" yaml:"status"`
	Cached     bool            `json:"cached" yaml:"cached"`
	StartedAt  time.Time       `json:"started_at" yaml:"started_at"`
	Elapsed    time.Duration   `json:"elapsed_ns" yaml:"elapsed_ns"`
	GraphHash  string          `json:"graph_hash,omitempty" yaml:"graph_hash,omitempty"`
	ConfigHash string          `json:"config_hash,omitempty" yaml:"config_hash,omitempty"`

	DataQuality graph.Report    `json:"data_quality" yaml:"data_quality"`
	Warnings    []types.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	Ranking         RankingSummary             `json:"ranking" yaml:"ranking"`
	Nodes           []types.NodeMetrics        `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Clusters        []types.Cluster            `json:"clusters,omitempty" yaml:"clusters,omitempty"`
	Unclustered     []string                   `json:"unclustered,omitempty" yaml:"unclustered,omitempty"`
	Trends          types.TrendList            `json:"trends" yaml:"trends"`
	Opportunities   types.OpportunityList      `json:"opportunities" yaml:"opportunities"`
	Breakthroughs   types.BreakthroughSets     `json:"breakthroughs" yaml:"breakthroughs"`
	Thresholds      breakthrough.Thresholds    `json:"breakthrough_thresholds" yaml:"breakthrough_thresholds"`
	Recommendations []types.RecommendationList `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`

	graph *graph.Graph
	rank  *ranking.Result

	// computeWarnings are the graph-derived warnings shared by every run
	// that hits the same cache entry.
	computeWarnings []types.Warning
}

// RankingSummary describes how the ranking stage terminated.
type RankingSummary struct {
	Converged          bool    `json:"converged" yaml:"converged"`
	Iterations         int     `json:"iterations" yaml:"iterations"`
	Delta              float64 `json:"delta" yaml:"delta"`
	BetweennessSampled bool    `json:"betweenness_sampled" yaml:"betweenness_sampled"`
	BetweennessSources int     `json:"betweenness_sources" yaml:"betweenness_sources"`
	ClusterRounds      int     `json:"cluster_rounds" yaml:"cluster_rounds"`
}

// Node returns the metrics of pmid.
func (r *Report) Node(pmid string) (types.NodeMetrics, bool) {
	for _, n := range r.Nodes {
		if n.PMID == pmid {
			return n, true
		}
	}
	return types.NodeMetrics{}, false
}

// HasWarning reports whether the run raised a warning with code.
func (r *Report) HasWarning(code types.WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
