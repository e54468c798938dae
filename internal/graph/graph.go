// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph assembles validated papers and citations into an immutable
// directed citation graph. A Graph is built once per analysis run and is safe
// for concurrent reads; nothing mutates it after Build returns.
package graph

import (
	"sort"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Edge is a kept citation with its endpoints resolved to node indices.
type Edge struct {
	From int // citing node index
	To   int // cited node index
	types.Citation
}

// Graph is the immutable citation graph of one snapshot. Nodes are stored in
// ascending pmid order, so node index order is lexicographic id order.
type Graph struct {
	nodes []types.Paper
	index map[string]int
	edges []Edge

	// out[i] and in[i] hold edge indices, sorted by the opposite endpoint.
	out [][]int
	in  [][]int

	hash string
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of kept edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the paper at index i.
func (g *Graph) Node(i int) types.Paper { return g.nodes[i] }

// ID returns the pmid at index i.
func (g *Graph) ID(i int) string { return g.nodes[i].PMID }

// Index returns the node index of pmid.
func (g *Graph) Index(pmid string) (int, bool) {
	i, ok := g.index[pmid]
	return i, ok
}

// Edge returns edge e.
func (g *Graph) Edge(e int) Edge { return g.edges[e] }

// Edges returns the kept edges. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Out returns the indices of edges leaving node i. The slice must not be modified.
func (g *Graph) Out(i int) []int { return g.out[i] }

// In returns the indices of edges entering node i. The slice must not be modified.
func (g *Graph) In(i int) []int { return g.in[i] }

// OutDegree returns the number of papers node i cites.
func (g *Graph) OutDegree(i int) int { return len(g.out[i]) }

// InDegree returns the number of papers in the graph citing node i.
func (g *Graph) InDegree(i int) int { return len(g.in[i]) }

// Hash returns the hex SHA-256 content hash of the node and edge set.
func (g *Graph) Hash() string { return g.hash }

// IDs returns all pmids in index order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.PMID
	}
	return ids
}

// Neighbor is one entry of the undirected weighted projection.
type Neighbor struct {
	Node   int
	Weight float64
}

// Undirected returns the undirected projection of the graph where each edge
// weighs importance × semantic similarity. Reciprocal citations are merged by
// summing their weights. Neighbor lists are sorted by node index.
func (g *Graph) Undirected() [][]Neighbor {
	acc := make([]map[int]float64, len(g.nodes))
	for i := range acc {
		acc[i] = make(map[int]float64)
	}
	for _, e := range g.edges {
		w := e.Importance * e.SemanticSimilarity
		acc[e.From][e.To] += w
		acc[e.To][e.From] += w
	}

	adj := make([][]Neighbor, len(g.nodes))
	for i, m := range acc {
		list := make([]Neighbor, 0, len(m))
		for j, w := range m {
			list = append(list, Neighbor{Node: j, Weight: w})
		}
		sort.Slice(list, func(a, b int) bool { return list[a].Node < list[b].Node })
		adj[i] = list
	}
	return adj
}
