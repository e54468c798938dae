// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/internal/ranking"
	"github.com/pdiddy/citation-engine/pkg/types"
)

type fixture struct {
	g       *graph.Graph
	rank    *ranking.Result
	profile types.UserCitationProfile
	peers   []types.UserCitationProfile
	cfg     types.AnalysisConfig
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	papers := []types.Paper{
		{PMID: "P1", Year: 2020, ResearchDomains: []string{"genomics"}},
		{PMID: "P2", Year: 2021, ResearchDomains: []string{"genomics"}},
		{PMID: "P3", Year: 2019, ResearchDomains: []string{"physics"}},
		{PMID: "P4", Year: 2023, ResearchDomains: []string{"genomics"}, Methodology: types.MethodExperimental, NoveltyScore: 0.8},
		{PMID: "P5", Year: 2010, ResearchDomains: []string{"physics"}},
		{PMID: "P6", Year: 2015, ResearchDomains: []string{"genomics"}},
		{PMID: "P7", Year: 2022, ResearchDomains: []string{"chemistry"}},
	}
	citations := []types.Citation{
		{CitingID: "P2", CitedID: "P1"}, {CitingID: "P4", CitedID: "P1"},
		{CitingID: "P4", CitedID: "P6"}, {CitingID: "P3", CitedID: "P5"},
		{CitingID: "P7", CitedID: "P3"},
	}
	g, _, err := graph.Build(papers, citations)
	require.NoError(t, err)
	rank, err := ranking.Compute(context.Background(), g, types.DefaultAnalysisConfig())
	require.NoError(t, err)

	novelty := 0.8
	cfg := types.DefaultAnalysisConfig()
	cfg.CurrentYear = 2024
	return fixture{
		g:    g,
		rank: rank,
		profile: types.UserCitationProfile{
			UserID:     "u1",
			Interacted: []string{"P1", "P2"},
			Preferences: types.Preferences{
				Domains:       map[string]float64{"Genomics": 1},
				Methodologies: map[types.MethodologyType]float64{types.MethodExperimental: 1},
				Novelty:       &novelty,
			},
		},
		peers: []types.UserCitationProfile{
			{UserID: "u2", Interacted: []string{"P1", "P2", "P3"}},
			{UserID: "u3", Interacted: []string{"P7"}},
			{UserID: "u4", Interacted: []string{"P1", "P5", "P6", "P7", "missing"}},
		},
		cfg: cfg,
	}
}

func (f fixture) run() types.RecommendationList {
	return Recommend(f.g, f.rank, f.profile, f.peers, f.cfg)
}

func TestRecommend_ByteIdentical(t *testing.T) {
	f := newFixture(t)
	first, err := json.Marshal(f.run())
	require.NoError(t, err)
	second, err := json.Marshal(f.run())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	f.peers = []types.UserCitationProfile{f.peers[2], f.peers[0], f.peers[1]}
	shuffled, err := json.Marshal(f.run())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(shuffled))
}

func TestRecommend_ExcludesInteracted(t *testing.T) {
	f := newFixture(t)
	list := f.run()
	require.NotEmpty(t, list.Recommendations)
	assert.Equal(t, "u1", list.UserID)
	for _, r := range list.Recommendations {
		assert.NotContains(t, f.profile.Interacted, r.PMID)
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
		assert.GreaterOrEqual(t, r.Confidence, 0.5)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}
	for i := 1; i < len(list.Recommendations); i++ {
		assert.GreaterOrEqual(t, list.Recommendations[i-1].Score, list.Recommendations[i].Score)
	}
}

func TestRecommend_CollaborativeOnly(t *testing.T) {
	f := newFixture(t)
	f.cfg.CollaborativeAlpha = 1

	list := f.run()
	require.Len(t, list.Recommendations, 5)
	top := list.Recommendations[0]
	assert.Equal(t, "P3", top.PMID)
	assert.Equal(t, types.SignalCollaborative, top.Dominant)
	assert.InDelta(t, 1.0, top.Score, 1e-12)
	assert.Contains(t, top.Reasoning, "similar researchers")

	// P4 has no peer reads but still matches on content.
	last := list.Recommendations[4]
	assert.Equal(t, "P4", last.PMID)
	assert.Equal(t, 0.0, last.Score)
}

func TestRecommend_KeepsLowestCandidate(t *testing.T) {
	g, _, err := graph.Build([]types.Paper{
		{PMID: "A", Year: 2020}, {PMID: "B", Year: 2023}, {PMID: "C", Year: 2010},
	}, nil)
	require.NoError(t, err)
	cfg := types.DefaultAnalysisConfig()
	cfg.CurrentYear = 2024
	rank, err := ranking.Compute(context.Background(), g, cfg)
	require.NoError(t, err)

	list := Recommend(g, rank, types.UserCitationProfile{UserID: "u1", Interacted: []string{"A"}}, nil, cfg)
	assert.Empty(t, list.Reason)
	require.Len(t, list.Recommendations, 2)
	assert.Equal(t, "B", list.Recommendations[0].PMID)
	assert.Equal(t, "C", list.Recommendations[1].PMID)
	assert.Equal(t, 0.0, list.Recommendations[1].Score)
}

func TestRecommend_ContentOnly(t *testing.T) {
	f := newFixture(t)
	f.cfg.CollaborativeAlpha = 0

	list := f.run()
	require.NotEmpty(t, list.Recommendations)
	top := list.Recommendations[0]
	assert.Equal(t, "P4", top.PMID)
	assert.Equal(t, types.SignalContent, top.Dominant)
	assert.Contains(t, top.Reasoning, "genomics")
}

func TestRecommend_Limit(t *testing.T) {
	f := newFixture(t)
	f.cfg.RecommendationLimit = 2
	assert.Len(t, f.run().Recommendations, 2)
}

func TestRecommend_EmptyProfile(t *testing.T) {
	f := newFixture(t)
	f.profile.Interacted = nil

	list := f.run()
	assert.Empty(t, list.Recommendations)
	assert.NotNil(t, list.Recommendations)
	assert.Equal(t, types.ReasonInsufficientData, list.Reason)
	assert.Equal(t, "u1", list.UserID)
}

func TestRecommend_NoCandidates(t *testing.T) {
	f := newFixture(t)
	f.profile.Interacted = f.g.IDs()

	list := f.run()
	assert.Empty(t, list.Recommendations)
	assert.Equal(t, types.ReasonNoCandidates, list.Reason)
}

func TestNormalize(t *testing.T) {
	cands := []candidate{{collab: 2}, {collab: 4}, {collab: 3}}
	normalize(cands, func(c *candidate) *float64 { return &c.collab })
	assert.Equal(t, []float64{0, 1, 0.5}, []float64{cands[0].collab, cands[1].collab, cands[2].collab})

	flat := []candidate{{content: 0.3}, {content: 0.3}}
	normalize(flat, func(c *candidate) *float64 { return &c.content })
	assert.Equal(t, 1.0, flat[0].content)

	zero := []candidate{{content: 0}, {content: 0}}
	normalize(zero, func(c *candidate) *float64 { return &c.content })
	assert.Equal(t, 0.0, zero[1].content)
}

func TestCompleteness(t *testing.T) {
	assert.Equal(t, 0.0, Completeness(types.UserCitationProfile{}))
	assert.Equal(t, 0.25, Completeness(types.UserCitationProfile{Interacted: []string{"P1"}}))
	assert.Equal(t, 1.0, Completeness(newFixture(t).profile))
}

func TestContentScore(t *testing.T) {
	novelty := 0.5
	prefs := types.Preferences{
		Domains: map[string]float64{"genomics": 1, "physics": 1},
		Novelty: &novelty,
		Weights: types.FacetWeights{Domain: 1, Novelty: 1},
	}
	p := types.Paper{Year: 2000, ResearchDomains: []string{"genomics"}, NoveltyScore: 0.5}
	// Recency weight is zero, so only domain (0.5) and novelty (1.0) count.
	assert.InDelta(t, 0.75, contentScore(p, prefs, 2024), 1e-12)
}
