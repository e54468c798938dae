// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trend predicts the growth of each cluster from the papers it
// publishes and the citations it receives over trailing windows ending at
// the analysis year.
package trend

import (
	"math"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/internal/temporal"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// plateauBand bounds the growth rates treated as flat, and the minimum
// acceleration treated as exponential.
const plateauBand = 0.05

// Predict computes one trend per cluster over a window of windowYears ending
// at cfg.CurrentYear. A non-positive windowYears falls back to
// cfg.TrendWindowYears. Clusters with no papers or citations in the current
// and previous windows are skipped.
func Predict(g *graph.Graph, clusters []types.Cluster, windowYears int, cfg types.AnalysisConfig) types.TrendList {
	if windowYears <= 0 {
		windowYears = cfg.TrendWindowYears
	}
	end := cfg.CurrentYear
	window := types.YearSpan{Start: end - windowYears + 1, End: end}

	list := types.TrendList{Trends: make([]types.Trend, 0, len(clusters))}
	for _, c := range clusters {
		s := collect(g, c)
		if !s.active(end-2*windowYears, end) {
			continue
		}
		g1 := meanChange(s.papers, end-windowYears, windowYears)
		g2 := meanChange(s.papers, end, windowYears)
		momentum := meanChange(s.citations, end, windowYears)

		w := cfg.TrendWeights
		z := w.Growth*g2 + w.Momentum*momentum + w.Interdisciplinary*s.interdisciplinary
		list.Trends = append(list.Trends, types.Trend{
			ClusterID:               c.ID,
			Window:                  window,
			GrowthRate:              g2,
			CitationMomentum:        momentum,
			BreakthroughProbability: logistic(z),
			PredictedTrajectory:     trajectory(g1, g2),
		})
	}
	if len(list.Trends) == 0 {
		list.Reason = types.ReasonInsufficientData
	}
	return list
}

// series holds the yearly activity of one cluster.
type series struct {
	papers            map[int]int
	citations         map[int]int
	interdisciplinary float64
}

func collect(g *graph.Graph, c types.Cluster) series {
	s := series{papers: make(map[int]int), citations: make(map[int]int)}
	n := 0
	for _, id := range c.Members {
		i, ok := g.Index(id)
		if !ok {
			continue
		}
		p := g.Node(i)
		s.papers[p.Year]++
		for year, k := range temporal.EventsByYear(g, i) {
			s.citations[year] += k
		}
		s.interdisciplinary += p.InterdisciplinaryScore
		n++
	}
	if n > 0 {
		s.interdisciplinary /= float64(n)
	}
	return s
}

// active reports whether any paper or citation falls in [from, to].
func (s series) active(from, to int) bool {
	for y := from; y <= to; y++ {
		if s.papers[y] > 0 || s.citations[y] > 0 {
			return true
		}
	}
	return false
}

// meanChange averages the year-over-year relative change of counts over the
// years ending at end. The previous year's count is floored at one so new
// activity after an empty year stays finite.
func meanChange(counts map[int]int, end, years int) float64 {
	total := 0.0
	for y := end - years + 1; y <= end; y++ {
		prev := float64(counts[y-1])
		total += (float64(counts[y]) - prev) / math.Max(prev, 1)
	}
	return total / float64(years)
}

// trajectory classifies growth from the previous window g1 and the current
// window g2.
func trajectory(g1, g2 float64) types.Trajectory {
	switch {
	case g2 < -plateauBand:
		return types.TrajectoryDecline
	case math.Abs(g2) <= plateauBand:
		return types.TrajectoryPlateau
	case g2-g1 > plateauBand:
		return types.TrajectoryExponential
	default:
		return types.TrajectoryLinear
	}
}

func logistic(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
