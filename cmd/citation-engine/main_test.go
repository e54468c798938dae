// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/analysis"
	"github.com/pdiddy/citation-engine/pkg/types"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	require.NoError(t, setDefaults(v))
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := loadConfig(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), c)
	assert.Equal(t, 0.85, c.Analysis.DampingFactor)
	assert.Equal(t, 30*time.Second, c.Provider.Timeout)
	assert.Equal(t, "data", c.Store.Dir)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citation-engine.yaml")
	doc := `
log:
  level: debug
  format: json
analysis:
  damping_factor: 0.9
  collaborative_alpha: 0
  trend_weights:
    growth: 2
provider:
  email: me@example.com
  timeout: 5s
  include_references: true
store:
  dir: /var/lib/citations
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, 0.9, c.Analysis.DampingFactor)
	assert.Equal(t, 0.0, c.Analysis.CollaborativeAlpha)
	assert.Equal(t, 2.0, c.Analysis.TrendWeights.Growth)
	assert.Equal(t, 1.0, c.Analysis.TrendWeights.Momentum)
	assert.Equal(t, 100, c.Analysis.MaxIterations)
	assert.Equal(t, "me@example.com", c.Provider.Email)
	assert.Equal(t, 5*time.Second, c.Provider.Timeout)
	assert.True(t, c.Provider.IncludeReferences)
	assert.Equal(t, 5.0, c.Provider.RequestsPerSecond)
	assert.Equal(t, "/var/lib/citations", c.Store.Dir)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("CITATION_ENGINE_ANALYSIS_RECOMMENDATION_LIMIT", "7")
	t.Setenv("CITATION_ENGINE_PROVIDER_EMAIL", "env@example.com")

	v := newViper(t)
	v.SetEnvPrefix("CITATION_ENGINE")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Analysis.RecommendationLimit)
	assert.Equal(t, "env@example.com", c.Provider.Email)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := newViper(t)
	v.Set("analysis.damping_factor", 1.5)

	_, err := loadConfig(v)
	assert.ErrorContains(t, err, "damping_factor")
}

func TestPrintReport(t *testing.T) {
	snap := types.Snapshot{
		Papers: []types.Paper{
			{PMID: "A", Year: 2018, ResearchDomains: []string{"genomics"}},
			{PMID: "B", Year: 2019, ResearchDomains: []string{"genomics"}},
			{PMID: "C", Year: 2020, ResearchDomains: []string{"genomics"}},
		},
		Citations: []types.Citation{
			{CitingID: "B", CitedID: "A", Importance: 1, SemanticSimilarity: 1},
			{CitingID: "C", CitedID: "A", Importance: 1, SemanticSimilarity: 1},
			{CitingID: "C", CitedID: "B", Importance: 1, SemanticSimilarity: 1},
		},
		Profiles: []types.UserCitationProfile{{UserID: "u1"}},
	}
	c := types.DefaultAnalysisConfig()
	c.CurrentYear = 2021

	rep, err := analysis.New().Run(context.Background(), snap, c)
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, rep, 2)
	out := buf.String()

	assert.Contains(t, out, "papers: 3/3 kept, citations: 3/3 kept")
	assert.Contains(t, out, "recommendations for u1: INSUFFICIENT_DATA")
	assert.Contains(t, out, "1     A ")
}

func TestTopNodes(t *testing.T) {
	nodes := []types.NodeMetrics{{PMID: "B", PageRank: 0.2}, {PMID: "A", PageRank: 0.2}, {PMID: "C", PageRank: 0.6}}
	top := topNodes(nodes, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "C", top[0].PMID)
	assert.Equal(t, "A", top[1].PMID)
	assert.Equal(t, "B", nodes[0].PMID)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	cut := truncate("ééééééééééééééééé", 10)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "ééééééé...", cut)
	assert.Equal(t, "éééé", truncate("éééé", 10))
}
