// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestVelocity(t *testing.T) {
	tests := []struct {
		name      string
		citations int
		year      int
		current   int
		want      float64
	}{
		{"ten years", 100, 2014, 2024, 10},
		{"same year floors age", 7, 2024, 2024, 7},
		{"future year floors age", 7, 2026, 2024, 7},
		{"no citations", 0, 2000, 2024, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Velocity(tt.citations, tt.year, tt.current), 1e-12)
		})
	}
}

func TestAnalyze(t *testing.T) {
	papers := []types.Paper{
		{PMID: "A", Year: 2010, CitationCount: 28},
		{PMID: "B", Year: 2012},
		{PMID: "C", Year: 2015},
		{PMID: "D", Year: 2015},
		{PMID: "E", Year: 2018},
	}
	var citations []types.Citation
	for _, from := range []string{"B", "C", "D", "E"} {
		citations = append(citations, types.Citation{CitingID: from, CitedID: "A"})
	}
	citations = append(citations, types.Citation{CitingID: "E", CitedID: "B"})

	g, _, err := graph.Build(papers, citations)
	require.NoError(t, err)

	m := Analyze(g, 2024)
	require.Len(t, m, 5)

	a := m[0]
	assert.InDelta(t, 2.0, a.Velocity, 1e-12)
	assert.Equal(t, 4, a.Events)
	require.NotNil(t, a.HalfLifeYear)
	assert.Equal(t, 2015, *a.HalfLifeYear)
	require.NotNil(t, a.PeakYear)
	assert.Equal(t, 2015, *a.PeakYear)

	// One citing event: peak exists, half-life does not.
	b := m[1]
	assert.Nil(t, b.HalfLifeYear)
	require.NotNil(t, b.PeakYear)
	assert.Equal(t, 2018, *b.PeakYear)

	// No citing events.
	e := m[4]
	assert.Nil(t, e.HalfLifeYear)
	assert.Nil(t, e.PeakYear)
	assert.Equal(t, 0, e.Events)

	assert.Equal(t, map[int]int{2012: 1, 2015: 2, 2018: 1}, EventsByYear(g, 0))
}

func TestPeak_TiesResolveToEarliest(t *testing.T) {
	y := peak([]int{2001, 2001, 2003, 2003, 2005})
	require.NotNil(t, y)
	assert.Equal(t, 2001, *y)
}

func TestHalfLife(t *testing.T) {
	y := halfLife([]int{2001, 2002})
	require.NotNil(t, y)
	assert.Equal(t, 2001, *y)

	y = halfLife([]int{2001, 2002, 2003})
	require.NotNil(t, y)
	assert.Equal(t, 2002, *y)

	assert.Nil(t, halfLife([]int{2001}))
}
