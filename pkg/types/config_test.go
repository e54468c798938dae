package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisConfig_NormalizeFillsZeroValues(t *testing.T) {
	got := AnalysisConfig{}.Normalize()
	want := DefaultAnalysisConfig()
	want.CollaborativeAlpha = 0
	want.CurrentYear = time.Now().Year()
	assert.Equal(t, want, got)
}

func TestAnalysisConfig_NormalizeKeepsExplicitValues(t *testing.T) {
	c := DefaultAnalysisConfig()
	c.DampingFactor = 0.7
	c.CollaborativeAlpha = 1
	c.CurrentYear = 2020
	c.Workers = 4

	got := c.Normalize()
	assert.Equal(t, 0.7, got.DampingFactor)
	assert.Equal(t, 1.0, got.CollaborativeAlpha)
	assert.Equal(t, 2020, got.CurrentYear)
	assert.Equal(t, 4, got.Workers)
}

func TestAnalysisConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AnalysisConfig)
		errMsg string
	}{
		{"defaults", func(*AnalysisConfig) {}, ""},
		{"damping zero", func(c *AnalysisConfig) { c.DampingFactor = 0 }, "damping_factor"},
		{"damping one", func(c *AnalysisConfig) { c.DampingFactor = 1 }, "damping_factor"},
		{"alpha above one", func(c *AnalysisConfig) { c.CollaborativeAlpha = 1.2 }, "collaborative_alpha"},
		{"alpha negative", func(c *AnalysisConfig) { c.CollaborativeAlpha = -0.1 }, "collaborative_alpha"},
		{"alpha bounds", func(c *AnalysisConfig) { c.CollaborativeAlpha = 0 }, ""},
		{"similarity above one", func(c *AnalysisConfig) { c.ClusterSimilarityThreshold = 1.5 }, "cluster_similarity_threshold"},
		{"peer similarity above one", func(c *AnalysisConfig) { c.PeerSimilarityThreshold = 2 }, "peer_similarity_threshold"},
		{"quantile one", func(c *AnalysisConfig) { c.TopQuantile = 1 }, "top_quantile"},
		{"both quantiles invalid", func(c *AnalysisConfig) {
			c.CurrentVelocityQuantile = 1.5
			c.TopQuantile = -1
		}, "current_velocity_quantile must be in (0, 1), got 1.5"},
		{"negative iterations", func(c *AnalysisConfig) { c.MaxIterations = -1 }, "iteration caps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultAnalysisConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSnapshot_ProfileAndPeers(t *testing.T) {
	s := Snapshot{Profiles: []UserCitationProfile{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}}}

	p, ok := s.Profile("u2")
	require.True(t, ok)
	assert.Equal(t, "u2", p.UserID)

	_, ok = s.Profile("u9")
	assert.False(t, ok)

	peers := s.Peers("u2")
	require.Len(t, peers, 2)
	assert.Equal(t, "u1", peers[0].UserID)
	assert.Equal(t, "u3", peers[1].UserID)
}

func TestEnums_ValidAndNormalize(t *testing.T) {
	assert.True(t, MethodologyType("").Valid())
	assert.False(t, MethodologyType("astrology").Valid())
	assert.Equal(t, MethodUnspecified, MethodologyType("").Normalize())
	assert.Equal(t, ContextBackground, CitationContext("").Normalize())
	assert.False(t, CitationContext("preface").Valid())
	assert.Equal(t, SentimentNeutral, Sentiment("").Normalize())
	assert.True(t, SentimentCritical.Valid())
}
