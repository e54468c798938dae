// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAlexEmail, "user@example.com\n")
				writeFile(t, dir, OpenAlexAPIKey, "  oa_abc123  \n")
				return dir
			},
			want: Secrets{OpenAlexEmail: "user@example.com", OpenAlexAPIKey: "oa_abc123"},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAlexEmail, "me@example.com")
				writeFile(t, dir, "empty-key", "   \n\t  ")
				writeFile(t, dir, ".hidden-key", "secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{OpenAlexEmail: "me@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, filepath.Dir(path), "file", "x")

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	s := Secrets{OpenAlexEmail: "a", OpenAlexAPIKey: "b", "zeta": "c"}
	assert.Equal(t, []string{OpenAlexAPIKey, OpenAlexEmail, "zeta"}, s.Keys())
}

func TestApplyProvider(t *testing.T) {
	s := Secrets{OpenAlexEmail: "secret@example.com", OpenAlexAPIKey: "oa_key"}

	pc := s.ApplyProvider(types.ProviderConfig{})
	assert.Equal(t, "secret@example.com", pc.Email)
	assert.Equal(t, "oa_key", pc.APIKey)

	pc = s.ApplyProvider(types.ProviderConfig{Email: "config@example.com"})
	assert.Equal(t, "config@example.com", pc.Email)

	pc = Secrets{}.ApplyProvider(types.ProviderConfig{MaxWorks: 10})
	assert.Equal(t, types.ProviderConfig{MaxWorks: 10}, pc)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
