// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/pkg/types"
)

func sample() types.Snapshot {
	novelty := 0.4
	return types.Snapshot{
		Papers: []types.Paper{
			{PMID: "A", Title: "Alpha", Year: 2018, ResearchDomains: []string{"genomics"}, NoveltyScore: 0.7},
			{PMID: "B", Title: "Beta", Year: 2020, Methodology: types.MethodReview},
		},
		Citations: []types.Citation{
			{CitingID: "B", CitedID: "A", Context: types.ContextResults, Importance: 0.8, SemanticSimilarity: 0.6},
		},
		Profiles: []types.UserCitationProfile{{
			UserID:     "u1",
			Interacted: []string{"A"},
			Preferences: types.Preferences{
				Domains: map[string]float64{"genomics": 1},
				Novelty: &novelty,
			},
		}},
	}
}

func TestWriteLoad(t *testing.T) {
	for _, name := range []string{"snap.yaml", "snap.yml", "nested/dir/snap.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Write(path, sample()))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, sample(), got)
		})
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatFor("a/b.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("noext"))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatYAML, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" json ", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDecode_YAMLFieldNames(t *testing.T) {
	doc := `
papers:
  - pmid: "123"
    year: 2021
    research_domains: [oncology]
    novelty_score: 0.5
citations:
  - citing_id: "123"
    cited_id: "456"
    importance: 0.9
`
	s, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, s.Papers, 1)
	assert.Equal(t, "123", s.Papers[0].PMID)
	assert.Equal(t, []string{"oncology"}, s.Papers[0].ResearchDomains)
	assert.Equal(t, 0.5, s.Papers[0].NoveltyScore)
	require.Len(t, s.Citations, 1)
	assert.Equal(t, 0.9, s.Citations[0].Importance)
}

func TestDecode_Empty(t *testing.T) {
	s, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, s.Papers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
