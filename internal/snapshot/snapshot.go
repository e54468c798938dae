// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot reads and writes analysis snapshots as YAML or JSON
// files. The format is chosen by file extension: .json is JSON, anything
// else is YAML.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Format identifies a snapshot encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown snapshot format %q (want yaml or json)", s)
}

// FormatFor returns the format implied by the extension of path.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads the snapshot at path.
func Load(path string) (types.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	s, err := Decode(f, FormatFor(path))
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return s, nil
}

// Write stores s at path, creating parent directories as needed.
func Write(path string, s types.Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	data, err := Marshal(s, FormatFor(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Decode reads one snapshot from r in the given format.
func Decode(r io.Reader, format Format) (types.Snapshot, error) {
	var s types.Snapshot
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return types.Snapshot{}, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
			return types.Snapshot{}, fmt.Errorf("parsing YAML: %w", err)
		}
	}
	return s, nil
}

// Marshal encodes s in the given format.
func Marshal(s types.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	}
}
