// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/citation-engine/internal/snapshot"
)

// Export writes the stored snapshot to <dir>/export.yaml or
// <dir>/export.json and returns the path written.
func (s *Store) Export(ctx context.Context, format snapshot.Format) (string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	data, err := snapshot.Marshal(snap, format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, "export."+string(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// ExportYAML writes the stored snapshot to <dir>/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	return s.Export(ctx, snapshot.FormatYAML)
}

// ExportJSON writes the stored snapshot to <dir>/export.json.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	return s.Export(ctx, snapshot.FormatJSON)
}
