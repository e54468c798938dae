// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// cohort builds a cluster that publishes perYear[y] papers in year y. Every
// paper cites the first paper of the cohort.
func cohort(t *testing.T, perYear map[int]int, interdisciplinary float64) (*graph.Graph, types.Cluster) {
	t.Helper()
	var papers []types.Paper
	var citations []types.Citation
	first := ""
	for year := 2000; year <= 2030; year++ {
		for k := 0; k < perYear[year]; k++ {
			id := fmt.Sprintf("P%d-%02d", year, k)
			papers = append(papers, types.Paper{PMID: id, Year: year, InterdisciplinaryScore: interdisciplinary})
			if first == "" {
				first = id
				continue
			}
			citations = append(citations, types.Citation{CitingID: id, CitedID: first})
		}
	}
	g, _, err := graph.Build(papers, citations)
	require.NoError(t, err)
	return g, types.Cluster{ID: "c001", Members: g.IDs()}
}

func config(year int) types.AnalysisConfig {
	cfg := types.DefaultAnalysisConfig()
	cfg.CurrentYear = year
	return cfg
}

func TestPredict_Accelerating(t *testing.T) {
	g, c := cohort(t, map[int]int{2017: 1, 2018: 1, 2019: 1, 2020: 1, 2021: 2, 2022: 4, 2023: 8}, 0.5)

	list := Predict(g, []types.Cluster{c}, 3, config(2023))
	require.Len(t, list.Trends, 1)
	assert.Equal(t, types.ReasonNone, list.Reason)

	tr := list.Trends[0]
	assert.Equal(t, "c001", tr.ClusterID)
	assert.Equal(t, types.YearSpan{Start: 2021, End: 2023}, tr.Window)
	assert.InDelta(t, 1.0, tr.GrowthRate, 1e-12)
	assert.Equal(t, types.TrajectoryExponential, tr.PredictedTrajectory)
	assert.Greater(t, tr.CitationMomentum, 0.0)
	assert.Greater(t, tr.BreakthroughProbability, 0.5)
	assert.Less(t, tr.BreakthroughProbability, 1.0)
}

func TestPredict_WindowFallsBackToConfig(t *testing.T) {
	g, c := cohort(t, map[int]int{2020: 2, 2021: 2, 2022: 2, 2023: 2}, 0)
	cfg := config(2023)
	cfg.TrendWindowYears = 2

	list := Predict(g, []types.Cluster{c}, 0, cfg)
	require.Len(t, list.Trends, 1)
	assert.Equal(t, types.YearSpan{Start: 2022, End: 2023}, list.Trends[0].Window)
	assert.Equal(t, types.TrajectoryPlateau, list.Trends[0].PredictedTrajectory)
}

func TestPredict_SkipsDormantClusters(t *testing.T) {
	g, c := cohort(t, map[int]int{2000: 3, 2001: 2}, 0)

	list := Predict(g, []types.Cluster{c}, 3, config(2023))
	assert.Empty(t, list.Trends)
	assert.Equal(t, types.ReasonInsufficientData, list.Reason)

	list = Predict(g, nil, 3, config(2023))
	assert.Equal(t, types.ReasonInsufficientData, list.Reason)
}

func TestTrajectory(t *testing.T) {
	tests := []struct {
		name   string
		g1, g2 float64
		want   types.Trajectory
	}{
		{"shrinking", 0.2, -0.3, types.TrajectoryDecline},
		{"flat", 0.5, 0.01, types.TrajectoryPlateau},
		{"flat edge", 0, -0.05, types.TrajectoryPlateau},
		{"accelerating", 0.1, 0.4, types.TrajectoryExponential},
		{"steady", 0.3, 0.3, types.TrajectoryLinear},
		{"slowing", 0.6, 0.2, types.TrajectoryLinear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trajectory(tt.g1, tt.g2))
		})
	}
}

func TestMeanChange(t *testing.T) {
	counts := map[int]int{2019: 0, 2020: 2, 2021: 4, 2022: 2}
	// (2-0)/1, (4-2)/2, (2-4)/4
	assert.InDelta(t, (2.0+1.0-0.5)/3, meanChange(counts, 2022, 3), 1e-12)
}

func TestLogisticBounds(t *testing.T) {
	assert.InDelta(t, 0.5, logistic(0), 1e-12)
	assert.Greater(t, logistic(50), 0.99)
	assert.Less(t, logistic(-50), 0.01)
}
