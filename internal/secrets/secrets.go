// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider credentials from a directory of plain-text
// files. The filename is the key and the trimmed file contents the value,
// so credentials stay out of citation-engine.yaml and the environment.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/internal/logging"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Recognized key files.
const (
	OpenAlexEmail  = "openalex-email"
	OpenAlexAPIKey = "openalex-api-key"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty set. Unreadable files are logged and
// skipped.
func Load(dir string, log logging.Logger) (Secrets, error) {
	if log == nil {
		log = logging.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", logging.String("key", name), logging.Err(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Keys returns the loaded key names in sorted order. Values are never
// exposed for logging.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyProvider fills the OpenAlex credentials of pc that are not already
// set by config.
func (s Secrets) ApplyProvider(pc types.ProviderConfig) types.ProviderConfig {
	if pc.Email == "" {
		pc.Email = s[OpenAlexEmail]
	}
	if pc.APIKey == "" {
		pc.APIKey = s[OpenAlexAPIKey]
	}
	return pc
}
