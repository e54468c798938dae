// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranking computes structural importance over a citation graph:
// PageRank by power iteration with dangling-mass redistribution, closeness
// centrality by BFS from every node, and betweenness centrality by Brandes'
// algorithm (exact below a node-count threshold, sampled above it).
//
// All computations are deterministic. Work fans out across a bounded worker
// pool inside an iteration and joins at a barrier before the next one; the
// context is polled between iterations and a cancelled run returns
// types.ErrCancelled with no partial result.
package ranking

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Result holds per-node scores indexed by graph node index.
type Result struct {
	PageRank    []float64 `json:"pagerank"`
	Closeness   []float64 `json:"closeness"`
	Betweenness []float64 `json:"betweenness"`

	// Converged is false when PageRank stopped at MaxIterations; the scores
	// are then a best-effort estimate.
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Delta      float64 `json:"delta"`

	// BetweennessSampled is true when betweenness was estimated from
	// BetweennessSources sources instead of every node.
	BetweennessSampled bool `json:"betweenness_sampled"`
	BetweennessSources int  `json:"betweenness_sources"`
}

// Score returns the PageRank of pmid, or 0 when it is not in g.
func (r *Result) Score(g *graph.Graph, pmid string) float64 {
	i, ok := g.Index(pmid)
	if !ok {
		return 0
	}
	return r.PageRank[i]
}

// Warnings returns the degraded-confidence conditions of the result.
func (r *Result) Warnings() []types.Warning {
	var ws []types.Warning
	if !r.Converged {
		ws = append(ws, types.Warning{
			Code:    types.WarnConvergence,
			Subject: "pagerank",
			Detail:  fmt.Sprintf("stopped after %d iterations with L1 delta %.3g", r.Iterations, r.Delta),
		})
	}
	if r.BetweennessSampled {
		ws = append(ws, types.Warning{
			Code:    types.WarnBetweennessSampled,
			Subject: "betweenness",
			Detail:  fmt.Sprintf("estimated from %d sampled sources", r.BetweennessSources),
		})
	}
	return ws
}

// Compute runs PageRank, closeness and betweenness over g.
func Compute(ctx context.Context, g *graph.Graph, cfg types.AnalysisConfig) (*Result, error) {
	pr, err := PageRank(ctx, g, cfg)
	if err != nil {
		return nil, err
	}
	closeness, err := Closeness(ctx, g, cfg.Workers)
	if err != nil {
		return nil, err
	}
	bc, err := Betweenness(ctx, g, cfg.BetweennessSamplingThreshold, cfg.BetweennessSamples, cfg.Workers)
	if err != nil {
		return nil, err
	}

	return &Result{
		PageRank:           pr.Scores,
		Closeness:          closeness,
		Betweenness:        bc.Scores,
		Converged:          pr.Converged,
		Iterations:         pr.Iterations,
		Delta:              pr.Delta,
		BetweennessSampled: bc.Sampled,
		BetweennessSources: bc.Sources,
	}, nil
}

// chunkCount is the fixed number of partitions work is split into. It does
// not depend on the CPU count, so floating-point reductions over chunks run
// in the same order on every machine.
const chunkCount = 32

// chunk is a half-open index range.
type chunk struct{ lo, hi int }

// chunks splits [0, n) into at most chunkCount contiguous ranges.
func chunks(n int) []chunk {
	if n == 0 {
		return nil
	}
	k := chunkCount
	if n < k {
		k = n
	}
	out := make([]chunk, 0, k)
	size := (n + k - 1) / k
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, chunk{lo, hi})
	}
	return out
}

// fanOut runs fn once per chunk on at most workers goroutines and waits for
// all of them. A cancelled context stops chunks that have not started.
func fanOut(ctx context.Context, parts []chunk, workers int, fn func(ctx context.Context, idx int, c chunk) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for idx, c := range parts {
		eg.Go(func() error {
			if ctx.Err() != nil {
				return types.ErrCancelled
			}
			return fn(ctx, idx, c)
		})
	}
	return eg.Wait()
}

// cancelled maps a done context to types.ErrCancelled.
func cancelled(ctx context.Context) error {
	if ctx.Err() != nil {
		return types.ErrCancelled
	}
	return nil
}
