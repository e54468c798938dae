// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/snapshot"
	"github.com/pdiddy/citation-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Dir: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fixture() types.Snapshot {
	novelty := 0.3
	return types.Snapshot{
		Papers: []types.Paper{
			{
				PMID: "B", Title: "Beta", Authors: []string{"Grace Hopper"}, Journal: "Science",
				Year: 2020, CitationCount: 12, ResearchDomains: []string{"genomics", "statistics"},
				Methodology: types.MethodComputational, NoveltyScore: 0.6, InterdisciplinaryScore: 0.4,
				AuthorReputationScore: 2.5, JournalImpactFactor: 31.2,
			},
			{PMID: "A", Title: "Alpha", Year: 2018},
		},
		Citations: []types.Citation{
			{CitingID: "B", CitedID: "A", Context: types.ContextMethodology, Sentiment: types.SentimentPositive,
				Importance: 0.9, TemporalDistance: 2, SemanticSimilarity: 0.7},
			{CitingID: "B", CitedID: "missing", Importance: 0.1},
		},
		Profiles: []types.UserCitationProfile{
			{
				UserID:     "u2",
				Interacted: []string{"B", "A"},
				Preferences: types.Preferences{
					Domains:       map[string]float64{"genomics": 0.8},
					Methodologies: map[types.MethodologyType]float64{types.MethodReview: 0.5},
					Novelty:       &novelty,
					Weights:       types.FacetWeights{Domain: 2, Methodology: 1, Novelty: 1, Recency: 0.5},
				},
			},
			{UserID: "u1", Interacted: []string{"A"}},
		},
	}
}

func TestImport_SnapshotRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	summary, err := s.Import(ctx, fixture())
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Papers: 2, Citations: 2, Profiles: 2, Interactions: 3}, summary)

	got, err := s.Snapshot(ctx)
	require.NoError(t, err)

	want := fixture()
	want.Papers[0], want.Papers[1] = want.Papers[1], want.Papers[0]
	want.Profiles[0], want.Profiles[1] = want.Profiles[1], want.Profiles[0]
	assert.Equal(t, want, got)
}

func TestImport_IsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Import(ctx, fixture())
	require.NoError(t, err)

	updated := fixture()
	updated.Papers[1].Title = "Alpha, revised"
	summary, err := s.Import(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Interactions)

	got, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Papers, 2)
	assert.Len(t, got.Citations, 2)
	assert.Equal(t, "Alpha, revised", got.Papers[0].Title)
}

func TestProfileAndPeers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Import(ctx, fixture())
	require.NoError(t, err)

	p, ok, err := s.Profile(ctx, "u2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "A"}, p.Interacted)
	assert.Equal(t, 0.8, p.Preferences.Domains["genomics"])

	_, ok, err = s.Profile(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	peers, err := s.Peers(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, "u1", peers[0].UserID)
}

func TestRecordInteraction(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordInteraction(ctx, "u9", "P1"))
	require.NoError(t, s.RecordInteraction(ctx, "u9", "P2"))
	require.NoError(t, s.RecordInteraction(ctx, "u9", "P1"))

	p, ok, err := s.Profile(ctx, "u9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"P1", "P2"}, p.Interacted)
	assert.Empty(t, p.Preferences.Domains)

	assert.Error(t, s.RecordInteraction(ctx, "", "P1"))
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Import(ctx, fixture())
	require.NoError(t, err)

	yamlPath, err := s.ExportYAML(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "export.yaml"), yamlPath)

	jsonPath, err := s.ExportJSON(ctx)
	require.NoError(t, err)

	want, err := s.Snapshot(ctx)
	require.NoError(t, err)
	for _, path := range []string{yamlPath, jsonPath} {
		got, err := snapshot.Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(types.StoreConfig{})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Open(types.StoreConfig{Dir: file})
	assert.Error(t, err)
}
