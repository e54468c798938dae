// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"context"
	"math"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// PageRankResult holds the output of PageRank.
type PageRankResult struct {
	Scores     []float64
	Converged  bool
	Iterations int
	Delta      float64
}

// PageRank computes PageRank by power iteration. Scores start at 1/N; each
// iteration computes
//
//	r'(v) = (1-d)/N + d * (Σ_{u→v} r(u)/out(u) + D/N)
//
// where D is the total rank held by dangling nodes (out-degree 0), spread
// uniformly so the total mass stays 1. Iteration stops when the L1 change
// drops below cfg.ConvergenceEpsilon or after cfg.MaxIterations rounds.
func PageRank(ctx context.Context, g *graph.Graph, cfg types.AnalysisConfig) (PageRankResult, error) {
	n := g.Len()
	if n == 0 {
		return PageRankResult{Converged: true}, nil
	}
	d := cfg.DampingFactor
	nf := float64(n)

	rank := make([]float64, n)
	next := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / nf
	}

	var dangling []int
	invOut := make([]float64, n)
	for i := 0; i < n; i++ {
		if out := g.OutDegree(i); out > 0 {
			invOut[i] = 1 / float64(out)
		} else {
			dangling = append(dangling, i)
		}
	}

	parts := chunks(n)
	res := PageRankResult{}
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if err := cancelled(ctx); err != nil {
			return PageRankResult{}, err
		}

		danglingMass := 0.0
		for _, i := range dangling {
			danglingMass += rank[i]
		}
		base := (1-d)/nf + d*danglingMass/nf

		// Each chunk writes a disjoint range of next; the barrier at the end
		// of fanOut separates iterations.
		err := fanOut(ctx, parts, cfg.Workers, func(_ context.Context, _ int, c chunk) error {
			for v := c.lo; v < c.hi; v++ {
				sum := 0.0
				for _, e := range g.In(v) {
					u := g.Edge(e).From
					sum += rank[u] * invOut[u]
				}
				next[v] = base + d*sum
			}
			return nil
		})
		if err != nil {
			return PageRankResult{}, types.ErrCancelled
		}

		delta := 0.0
		for i := range next {
			delta += math.Abs(next[i] - rank[i])
		}
		rank, next = next, rank

		res.Iterations = iter
		res.Delta = delta
		if delta < cfg.ConvergenceEpsilon {
			res.Converged = true
			break
		}
	}

	// Renormalize to absorb floating-point drift.
	total := 0.0
	for _, r := range rank {
		total += r
	}
	if total > 0 {
		for i := range rank {
			rank[i] /= total
		}
	}
	res.Scores = rank
	return res, nil
}
