// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossdomain finds pairs of clusters connected by bridging
// citations: edges between clusters whose endpoints carry dissimilar
// research domains.
package crossdomain

import (
	"math"
	"sort"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Find returns the cross-domain opportunities between clusters, sorted by
// innovation potential desc, then cluster ids. An edge is bridging when its
// endpoints sit in different clusters, both carry research domains and the
// Jaccard similarity of their domain sets is below
// cfg.ClusterSimilarityThreshold.
func Find(g *graph.Graph, clusters []types.Cluster, cfg types.AnalysisConfig) types.OpportunityList {
	member := make([]int, g.Len())
	for i := range member {
		member[i] = -1
	}
	for pos, c := range clusters {
		for _, id := range c.Members {
			if i, ok := g.Index(id); ok {
				member[i] = pos
			}
		}
	}

	type pairKey struct{ a, b int }
	type bridge struct {
		importance float64
		edges      int
		nodes      map[int]bool
	}
	bridges := make(map[pairKey]*bridge)
	for _, e := range g.Edges() {
		ca, cb := member[e.From], member[e.To]
		if ca < 0 || cb < 0 || ca == cb {
			continue
		}
		if !Bridging(g.Node(e.From).ResearchDomains, g.Node(e.To).ResearchDomains, cfg.ClusterSimilarityThreshold) {
			continue
		}
		key := pairKey{min(ca, cb), max(ca, cb)}
		br := bridges[key]
		if br == nil {
			br = &bridge{nodes: make(map[int]bool)}
			bridges[key] = br
		}
		br.importance += e.Importance
		br.edges++
		br.nodes[e.From] = true
		br.nodes[e.To] = true
	}

	list := types.OpportunityList{Opportunities: make([]types.CrossDomainOpportunity, 0, len(bridges))}
	for key, br := range bridges {
		a, b := clusters[key.a], clusters[key.b]
		strength := br.importance / math.Sqrt(float64(a.Size()*b.Size()))

		nodes := make([]int, 0, len(br.nodes))
		for v := range br.nodes {
			nodes = append(nodes, v)
		}
		sort.Ints(nodes)
		ids := make([]string, len(nodes))
		novelty := 0.0
		for i, v := range nodes {
			ids[i] = g.ID(v)
			novelty += g.Node(v).NoveltyScore
		}
		novelty /= float64(len(nodes))

		list.Opportunities = append(list.Opportunities, types.CrossDomainOpportunity{
			ClusterA:            a.ID,
			ClusterB:            b.ID,
			DomainA:             primaryDomain(a),
			DomainB:             primaryDomain(b),
			ConnectionStrength:  strength,
			BridgingEdges:       br.edges,
			BridgingNodes:       ids,
			InnovationPotential: strength * novelty,
		})
	}
	sort.Slice(list.Opportunities, func(i, j int) bool {
		oi, oj := list.Opportunities[i], list.Opportunities[j]
		if oi.InnovationPotential != oj.InnovationPotential {
			return oi.InnovationPotential > oj.InnovationPotential
		}
		if oi.ClusterA != oj.ClusterA {
			return oi.ClusterA < oj.ClusterA
		}
		return oi.ClusterB < oj.ClusterB
	})
	if len(list.Opportunities) == 0 {
		list.Reason = types.ReasonNoBridges
	}
	return list
}

// Bridging reports whether two domain sets are dissimilar enough for an
// edge between them to bridge domains. Papers without domains never bridge.
func Bridging(a, b []string, threshold float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return Jaccard(a, b) < threshold
}

// Jaccard returns |a ∩ b| / |a ∪ b| of two string sets.
func Jaccard(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		if seen[s] {
			continue
		}
		seen[s] = true
		if set[s] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func primaryDomain(c types.Cluster) string {
	if len(c.Domains) == 0 {
		return "unlabeled"
	}
	return c.Domains[0]
}
