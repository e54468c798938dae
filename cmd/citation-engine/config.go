// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/logging"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// appConfig mirrors citation-engine.yaml.
type appConfig struct {
	Log      logging.Config       `yaml:"log"`
	Analysis types.AnalysisConfig `yaml:"analysis"`
	Provider types.ProviderConfig `yaml:"provider"`
	Store    types.StoreConfig    `yaml:"store"`
}

func defaultConfig() appConfig {
	return appConfig{
		Log:      logging.Config{Level: "info", Format: "console"},
		Analysis: types.DefaultAnalysisConfig(),
		Provider: types.ProviderConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "citation-engine/" + version,
			},
			RequestsPerSecond: 5,
			MaxRetries:        3,
			MaxWorks:          500,
		},
		Store: types.StoreConfig{Dir: "data"},
	}
}

// setDefaults registers every key of defaultConfig with v, so environment
// variables and bound flags are seen by Unmarshal.
func setDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parsing defaults: %w", err)
	}
	flatten("", tree, v.SetDefault)
	v.SetDefault("provider.email", "")
	return nil
}

func flatten(prefix string, tree map[string]any, set func(string, any)) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			flatten(key, sub, set)
			continue
		}
		set(key, val)
	}
}

// loadConfig decodes v into an appConfig using the yaml struct tags.
func loadConfig(v *viper.Viper) (appConfig, error) {
	c := defaultConfig()
	err := v.Unmarshal(&c, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.Squash = true
	})
	if err != nil {
		return appConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Analysis.Normalize().Validate(); err != nil {
		return appConfig{}, fmt.Errorf("invalid analysis config: %w", err)
	}
	return c, nil
}
