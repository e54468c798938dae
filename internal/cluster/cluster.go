// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster detects topical communities with weighted label
// propagation over the undirected projection of the citation graph.
//
// Labels are node indices, so the smallest label is the lexicographically
// smallest pmid. Each round sweeps the nodes in pmid order and updates
// labels in place; a node adopts the label with the largest total edge
// weight among its neighbors, ties to the smallest label. The ordered
// in-place sweep makes the result independent of scheduling and avoids the
// two-cycle oscillation of synchronous updates on bipartite structures.
package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/internal/ranking"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// centralCount is the number of central papers reported per cluster.
const centralCount = 3

// Result is the partition produced by Detect. Every node of the graph is
// in exactly one cluster or in Unclustered.
type Result struct {
	Clusters    []types.Cluster `json:"clusters"`
	Unclustered []string        `json:"unclustered"`
	Rounds      int             `json:"rounds"`
	Stable      bool            `json:"stable"`

	// assignment maps node index to position in Clusters, -1 when unclustered.
	assignment []int
}

// ClusterOf returns the position in Clusters of node i, or -1.
func (r *Result) ClusterOf(i int) int {
	if i < 0 || i >= len(r.assignment) {
		return -1
	}
	return r.assignment[i]
}

// Warnings reports a label sweep that hit the round cap.
func (r *Result) Warnings() []types.Warning {
	if r.Stable {
		return nil
	}
	return []types.Warning{{
		Code:    types.WarnClusterIterationCap,
		Subject: "cluster",
		Detail:  fmt.Sprintf("labels still changing after %d rounds", r.Rounds),
	}}
}

// Detect partitions g into clusters. rank supplies the PageRank used to pick
// central papers. The context is polled between rounds; a cancelled
// context yields types.ErrCancelled.
func Detect(ctx context.Context, g *graph.Graph, rank *ranking.Result, cfg types.AnalysisConfig) (*Result, error) {
	adj := g.Undirected()
	labels, rounds, stable, err := propagate(ctx, adj, cfg.ClusterMaxIterations)
	if err != nil {
		return nil, err
	}

	n := g.Len()
	groups := make(map[int][]int)
	res := &Result{Rounds: rounds, Stable: stable, assignment: make([]int, n)}
	for v := 0; v < n; v++ {
		res.assignment[v] = -1
		if !hasPositiveNeighbor(adj[v]) {
			continue
		}
		groups[labels[v]] = append(groups[labels[v]], v)
	}

	minSize := cfg.MinClusterSize
	if minSize < 1 {
		minSize = 1
	}
	var kept [][]int
	for _, members := range groups {
		if len(members) >= minSize {
			kept = append(kept, members)
		}
	}
	// Members are appended in index order, so members[0] is the smallest pmid.
	sort.Slice(kept, func(i, j int) bool {
		if len(kept[i]) != len(kept[j]) {
			return len(kept[i]) > len(kept[j])
		}
		return kept[i][0] < kept[j][0]
	})

	for pos, members := range kept {
		for _, v := range members {
			res.assignment[v] = pos
		}
		res.Clusters = append(res.Clusters, describe(g, rank, members, fmt.Sprintf("c%03d", pos+1), cfg.GrowthThreshold))
	}
	res.Unclustered = make([]string, 0)
	for v := 0; v < n; v++ {
		if res.assignment[v] < 0 {
			res.Unclustered = append(res.Unclustered, g.ID(v))
		}
	}
	return res, nil
}

// propagate runs label propagation for at most maxRounds rounds and returns
// the final labels, the number of rounds run and whether a round finished
// with no change.
func propagate(ctx context.Context, adj [][]graph.Neighbor, maxRounds int) ([]int, int, bool, error) {
	labels := make([]int, len(adj))
	for i := range labels {
		labels[i] = i
	}
	weights := make(map[int]float64)

	rounds := 0
	for rounds < maxRounds {
		if ctx.Err() != nil {
			return nil, rounds, false, types.ErrCancelled
		}
		rounds++
		changed := false
		for v, nbrs := range adj {
			clear(weights)
			for _, nb := range nbrs {
				if nb.Weight > 0 {
					weights[labels[nb.Node]] += nb.Weight
				}
			}
			if len(weights) == 0 {
				continue
			}
			best, bestW := -1, 0.0
			for label, w := range weights {
				if w > bestW || (w == bestW && label < best) {
					best, bestW = label, w
				}
			}
			if best != labels[v] {
				labels[v] = best
				changed = true
			}
		}
		if !changed {
			return labels, rounds, true, nil
		}
	}
	return labels, rounds, false, nil
}

func hasPositiveNeighbor(nbrs []graph.Neighbor) bool {
	for _, nb := range nbrs {
		if nb.Weight > 0 {
			return true
		}
	}
	return false
}

// describe builds the metadata of one cluster from its member indices.
func describe(g *graph.Graph, rank *ranking.Result, members []int, id string, threshold float64) types.Cluster {
	c := types.Cluster{ID: id, Members: make([]string, len(members))}
	span := types.YearSpan{Start: g.Node(members[0]).Year, End: g.Node(members[0]).Year}
	freq := make(map[string]int)
	for i, v := range members {
		p := g.Node(v)
		c.Members[i] = p.PMID
		span.Start = min(span.Start, p.Year)
		span.End = max(span.End, p.Year)
		for _, d := range p.ResearchDomains {
			freq[d]++
		}
	}
	c.TemporalSpan = span
	c.CentralPapers = central(g, rank, members)
	c.Domains = rankDomains(freq)
	c.Theme = theme(c.Domains, freq)
	c.GrowthTrajectory = growth(g, members, span, threshold)
	return c
}

// central returns the top pagerank members, ties by pmid.
func central(g *graph.Graph, rank *ranking.Result, members []int) []string {
	sorted := append([]int(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := rank.PageRank[sorted[i]], rank.PageRank[sorted[j]]
		if a != b {
			return a > b
		}
		return sorted[i] < sorted[j]
	})
	if len(sorted) > centralCount {
		sorted = sorted[:centralCount]
	}
	ids := make([]string, len(sorted))
	for i, v := range sorted {
		ids[i] = g.ID(v)
	}
	return ids
}

// rankDomains orders domains by member frequency desc, then name.
func rankDomains(freq map[string]int) []string {
	domains := make([]string, 0, len(freq))
	for d := range freq {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		if freq[domains[i]] != freq[domains[j]] {
			return freq[domains[i]] > freq[domains[j]]
		}
		return domains[i] < domains[j]
	})
	return domains
}

// theme labels a cluster with its top domain, joined by the runner-up when
// that one is carried by at least half as many members.
func theme(domains []string, freq map[string]int) string {
	switch {
	case len(domains) == 0:
		return "unlabeled"
	case len(domains) == 1 || 2*freq[domains[1]] < freq[domains[0]]:
		return domains[0]
	default:
		return strings.Join(domains[:2], " / ")
	}
}

// growth compares the citation totals of members published in the first and
// second half of the span. With an odd number of years the middle year
// belongs to neither half.
func growth(g *graph.Graph, members []int, span types.YearSpan, threshold float64) types.GrowthTrajectory {
	half := span.Years() / 2
	first, second := 0, 0
	for _, v := range members {
		p := g.Node(v)
		switch {
		case p.Year < span.Start+half:
			first += p.CitationCount
		case p.Year > span.End-half:
			second += p.CitationCount
		}
	}
	if first == 0 {
		if second > 0 {
			return types.GrowthEmerging
		}
		return types.GrowthMature
	}
	change := float64(second-first) / float64(first)
	switch {
	case change > threshold:
		return types.GrowthEmerging
	case change < -threshold:
		return types.GrowthDeclining
	default:
		return types.GrowthMature
	}
}
