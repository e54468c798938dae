// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package temporal computes per-node citation dynamics: velocity, the
// half-life year of the citing events and the peak citing year. A citing
// event is an in-edge of the node, dated by the citing paper's year.
package temporal

import (
	"sort"

	"github.com/pdiddy/citation-engine/internal/graph"
)

// Metrics holds the temporal view of one node.
type Metrics struct {
	Velocity float64

	// HalfLifeYear is nil when the node has fewer than two citing events.
	HalfLifeYear *int

	// PeakYear is nil when the node has no citing events.
	PeakYear *int

	// Events is the number of citing events inside the graph.
	Events int
}

// Analyze returns the metrics of every node, indexed by node index.
func Analyze(g *graph.Graph, currentYear int) []Metrics {
	out := make([]Metrics, g.Len())
	years := make([]int, 0)
	for i := range out {
		p := g.Node(i)
		out[i].Velocity = Velocity(p.CitationCount, p.Year, currentYear)

		years = years[:0]
		for _, e := range g.In(i) {
			years = append(years, g.Node(g.Edge(e).From).Year)
		}
		sort.Ints(years)
		out[i].Events = len(years)
		out[i].HalfLifeYear = halfLife(years)
		out[i].PeakYear = peak(years)
	}
	return out
}

// Velocity returns citations per year since publication, with the age
// floored at one year.
func Velocity(citations, year, currentYear int) float64 {
	age := currentYear - year
	if age < 1 {
		age = 1
	}
	return float64(citations) / float64(age)
}

// halfLife returns the earliest year by which at least half of the sorted
// citing years have occurred.
func halfLife(sorted []int) *int {
	if len(sorted) < 2 {
		return nil
	}
	y := sorted[(len(sorted)+1)/2-1]
	return &y
}

// peak returns the year with the most citing events, ties to the earliest.
func peak(sorted []int) *int {
	if len(sorted) == 0 {
		return nil
	}
	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestCount {
			best, bestCount = sorted[i], j-i
		}
		i = j
	}
	return &best
}

// EventsByYear counts the citing events of node i per citing year.
func EventsByYear(g *graph.Graph, i int) map[int]int {
	counts := make(map[int]int)
	for _, e := range g.In(i) {
		counts[g.Node(g.Edge(e).From).Year]++
	}
	return counts
}
