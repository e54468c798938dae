// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"context"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Closeness computes closeness centrality along citation edges with the
// Wasserman-Faust correction for disconnected graphs:
//
//	C(u) = (r/(n-1)) * (r/Σd)
//
// where r is the number of nodes reachable from u and Σd their total
// distance. Nodes that reach nothing score 0. Cost is O(V·(V+E)).
func Closeness(ctx context.Context, g *graph.Graph, workers int) ([]float64, error) {
	n := g.Len()
	scores := make([]float64, n)
	if n < 2 {
		return scores, nil
	}

	err := fanOut(ctx, chunks(n), workers, func(ctx context.Context, _ int, c chunk) error {
		dist := make([]int, n)
		queue := make([]int, 0, n)
		for u := c.lo; u < c.hi; u++ {
			if ctx.Err() != nil {
				return types.ErrCancelled
			}
			reached, total := bfsDistances(g, u, dist, queue[:0])
			if total == 0 {
				continue
			}
			r := float64(reached)
			scores[u] = (r / float64(n-1)) * (r / float64(total))
		}
		return nil
	})
	if err != nil {
		return nil, types.ErrCancelled
	}
	return scores, nil
}

// bfsDistances runs BFS from s over outgoing edges and returns the number of
// nodes reached (excluding s) and the sum of their distances. dist and queue
// are scratch buffers reused across calls.
func bfsDistances(g *graph.Graph, s int, dist []int, queue []int) (int, int) {
	for i := range dist {
		dist[i] = -1
	}
	dist[s] = 0
	queue = append(queue, s)
	reached, total := 0, 0
	for head := 0; head < len(queue); head++ {
		v := queue[head]
		for _, e := range g.Out(v) {
			w := g.Edge(e).To
			if dist[w] >= 0 {
				continue
			}
			dist[w] = dist[v] + 1
			reached++
			total += dist[w]
			queue = append(queue, w)
		}
	}
	return reached, total
}

// BetweennessResult holds the output of Betweenness.
type BetweennessResult struct {
	Scores  []float64
	Sampled bool
	Sources int
}

// Betweenness computes normalized betweenness centrality with Brandes'
// algorithm over citation edges. When the graph has at least threshold
// nodes, only samples evenly strided source nodes are expanded and the
// accumulated dependencies are scaled by n/samples; the result is then an
// estimate and Sampled is set. Scores are normalized by (n-1)(n-2).
func Betweenness(ctx context.Context, g *graph.Graph, threshold, samples, workers int) (BetweennessResult, error) {
	n := g.Len()
	res := BetweennessResult{Scores: make([]float64, n)}
	if n < 3 {
		res.Sources = n
		return res, nil
	}

	sources := make([]int, 0, n)
	if threshold > 0 && n >= threshold && samples > 0 && samples < n {
		for i := 0; i < samples; i++ {
			sources = append(sources, i*n/samples)
		}
		res.Sampled = true
	} else {
		for i := 0; i < n; i++ {
			sources = append(sources, i)
		}
	}
	res.Sources = len(sources)

	parts := chunks(len(sources))
	partial := make([][]float64, len(parts))
	err := fanOut(ctx, parts, workers, func(ctx context.Context, idx int, c chunk) error {
		acc := make([]float64, n)
		b := newBrandes(n)
		for _, s := range sources[c.lo:c.hi] {
			if ctx.Err() != nil {
				return types.ErrCancelled
			}
			b.run(g, s, acc)
		}
		partial[idx] = acc
		return nil
	})
	if err != nil {
		return BetweennessResult{}, types.ErrCancelled
	}

	// Reduce in chunk order so the sum does not depend on scheduling.
	for _, acc := range partial {
		for i, v := range acc {
			res.Scores[i] += v
		}
	}

	scale := 1 / float64((n-1)*(n-2))
	if res.Sampled {
		scale *= float64(n) / float64(len(sources))
	}
	for i := range res.Scores {
		res.Scores[i] *= scale
	}
	return res, nil
}

// brandes holds scratch state for single-source Brandes passes.
type brandes struct {
	stack []int
	queue []int
	dist  []int
	sigma []float64
	delta []float64
	pred  [][]int
}

func newBrandes(n int) *brandes {
	return &brandes{
		stack: make([]int, 0, n),
		queue: make([]int, 0, n),
		dist:  make([]int, n),
		sigma: make([]float64, n),
		delta: make([]float64, n),
		pred:  make([][]int, n),
	}
}

// run performs the BFS phase from s, then back-propagates pair dependencies
// in reverse BFS order and adds them to acc.
func (b *brandes) run(g *graph.Graph, s int, acc []float64) {
	for i := range b.dist {
		b.dist[i] = -1
		b.sigma[i] = 0
		b.delta[i] = 0
		b.pred[i] = b.pred[i][:0]
	}
	b.stack = b.stack[:0]
	b.queue = append(b.queue[:0], s)
	b.dist[s] = 0
	b.sigma[s] = 1

	for head := 0; head < len(b.queue); head++ {
		v := b.queue[head]
		b.stack = append(b.stack, v)
		for _, e := range g.Out(v) {
			w := g.Edge(e).To
			if b.dist[w] < 0 {
				b.dist[w] = b.dist[v] + 1
				b.queue = append(b.queue, w)
			}
			if b.dist[w] == b.dist[v]+1 {
				b.sigma[w] += b.sigma[v]
				b.pred[w] = append(b.pred[w], v)
			}
		}
	}

	for i := len(b.stack) - 1; i >= 0; i-- {
		w := b.stack[i]
		for _, v := range b.pred[w] {
			b.delta[v] += (b.sigma[v] / b.sigma[w]) * (1 + b.delta[w])
		}
		if w != s {
			acc[w] += b.delta[w]
		}
	}
}
