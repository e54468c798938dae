// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package breakthrough classifies papers against thresholds taken from the
// empirical distribution of the current snapshot. The Empirical quantile
// returns a data value, so multiplying a metric by a positive constant
// multiplies its threshold by the same constant and leaves the
// classification unchanged.
package breakthrough

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/internal/ranking"
	"github.com/pdiddy/citation-engine/internal/temporal"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Thresholds are the quantile cut-offs of one snapshot.
type Thresholds struct {
	CurrentVelocity   float64 `json:"current_velocity"`
	Velocity          float64 `json:"velocity"`
	PageRank          float64 `json:"pagerank"`
	Novelty           float64 `json:"novelty"`
	Interdisciplinary float64 `json:"interdisciplinary"`
	Reputation        float64 `json:"reputation"`
}

// ComputeThresholds takes the quantiles of every metric over all nodes.
func ComputeThresholds(g *graph.Graph, rank *ranking.Result, tm []temporal.Metrics, cfg types.AnalysisConfig) Thresholds {
	n := g.Len()
	velocity := make([]float64, n)
	novelty := make([]float64, n)
	inter := make([]float64, n)
	reputation := make([]float64, n)
	for i := 0; i < n; i++ {
		p := g.Node(i)
		velocity[i] = tm[i].Velocity
		novelty[i] = p.NoveltyScore
		inter[i] = p.InterdisciplinaryScore
		reputation[i] = p.AuthorReputationScore
	}
	sort.Float64s(velocity)
	return Thresholds{
		CurrentVelocity:   quantile(cfg.CurrentVelocityQuantile, velocity),
		Velocity:          quantile(cfg.TopQuantile, velocity),
		PageRank:          quantile(cfg.TopQuantile, sorted(rank.PageRank)),
		Novelty:           quantile(cfg.TopQuantile, sorted(novelty)),
		Interdisciplinary: quantile(cfg.TopQuantile, sorted(inter)),
		Reputation:        quantile(cfg.TopQuantile, sorted(reputation)),
	}
}

// Detect classifies the nodes of g. A metric must be strictly positive to
// meet its threshold. Predicted breakthroughs exclude papers that are
// already current. Each set is sorted by score desc, then pmid.
func Detect(g *graph.Graph, rank *ranking.Result, tm []temporal.Metrics, cfg types.AnalysisConfig) types.BreakthroughSets {
	sets := types.BreakthroughSets{
		Current:   make([]types.Breakthrough, 0),
		Emerging:  make([]types.Breakthrough, 0),
		Predicted: make([]types.Breakthrough, 0),
	}
	if g.Len() == 0 {
		return sets
	}
	th := ComputeThresholds(g, rank, tm, cfg)

	for i := 0; i < g.Len(); i++ {
		p := g.Node(i)
		v := tm[i].Velocity

		current := meets(v, th.CurrentVelocity) && meets(rank.PageRank[i], th.PageRank)
		if current {
			sets.Current = append(sets.Current, types.Breakthrough{PMID: p.PMID, Kind: types.BreakthroughCurrent, Score: v})
		}

		age := cfg.CurrentYear - p.Year
		if age >= 0 && age <= cfg.EmergingWindowYears && meets(v, th.Velocity) && meets(p.NoveltyScore, th.Novelty) {
			sets.Emerging = append(sets.Emerging, types.Breakthrough{PMID: p.PMID, Kind: types.BreakthroughEmerging, Score: v})
		}

		if !current && meets(p.InterdisciplinaryScore, th.Interdisciplinary) && meets(p.AuthorReputationScore, th.Reputation) {
			sets.Predicted = append(sets.Predicted, types.Breakthrough{
				PMID:  p.PMID,
				Kind:  types.BreakthroughPredicted,
				Score: p.InterdisciplinaryScore * p.AuthorReputationScore,
			})
		}
	}
	for _, set := range [][]types.Breakthrough{sets.Current, sets.Emerging, sets.Predicted} {
		sort.Slice(set, func(i, j int) bool {
			if set[i].Score != set[j].Score {
				return set[i].Score > set[j].Score
			}
			return set[i].PMID < set[j].PMID
		})
	}
	return sets
}

func meets(value, threshold float64) bool {
	return value > 0 && value >= threshold
}

func quantile(p float64, x []float64) float64 {
	return stat.Quantile(p, stat.Empirical, x, nil)
}

func sorted(x []float64) []float64 {
	out := append([]float64(nil), x...)
	sort.Float64s(out)
	return out
}
