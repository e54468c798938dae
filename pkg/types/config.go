package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by collaborators that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds settings for the OpenAlex bibliographic provider.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for OpenAlex polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey is sent as the api_key parameter when set. Usually loaded
	// from .secrets/openalex-api-key.
	APIKey string `json:"-" yaml:"-"`

	// RequestsPerSecond caps the request rate (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 and 5xx (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// IncludeReferences also fetches the works each seed cites, so edges
	// out of the seed set can be kept.
	IncludeReferences bool `json:"include_references" yaml:"include_references"`

	// MaxWorks caps the total number of works in one snapshot (default 500).
	MaxWorks int `json:"max_works" yaml:"max_works"`
}

// StoreConfig holds settings for the SQLite interaction store.
type StoreConfig struct {
	// Dir is the directory that holds citations.db and export files.
	Dir string `json:"dir" yaml:"dir"`
}

// TrendWeights weights the inputs of the breakthrough probability.
type TrendWeights struct {
	Growth            float64 `json:"growth" yaml:"growth"`
	Momentum          float64 `json:"momentum" yaml:"momentum"`
	Interdisciplinary float64 `json:"interdisciplinary" yaml:"interdisciplinary"`
}

// AnalysisConfig holds every tunable of an analysis run. Zero values are
// replaced by defaults in Normalize.
type AnalysisConfig struct {
	// PageRank.
	DampingFactor      float64 `json:"damping_factor" yaml:"damping_factor"`
	MaxIterations      int     `json:"max_iterations" yaml:"max_iterations"`
	ConvergenceEpsilon float64 `json:"convergence_epsilon" yaml:"convergence_epsilon"`

	// Centrality. Above BetweennessSamplingThreshold nodes, betweenness is
	// estimated from BetweennessSamples source nodes.
	BetweennessSamplingThreshold int `json:"betweenness_sampling_threshold" yaml:"betweenness_sampling_threshold"`
	BetweennessSamples           int `json:"betweenness_samples" yaml:"betweenness_samples"`

	// Clustering.
	ClusterMaxIterations int     `json:"cluster_max_iterations" yaml:"cluster_max_iterations"`
	MinClusterSize       int     `json:"min_cluster_size" yaml:"min_cluster_size"`
	GrowthThreshold      float64 `json:"growth_threshold" yaml:"growth_threshold"`

	// Cross-domain. Edges whose endpoint domain sets have Jaccard similarity
	// below this value are bridging.
	ClusterSimilarityThreshold float64 `json:"cluster_similarity_threshold" yaml:"cluster_similarity_threshold"`

	// Trends.
	TrendWindowYears int          `json:"trend_window_years" yaml:"trend_window_years"`
	TrendWeights     TrendWeights `json:"trend_weights" yaml:"trend_weights"`

	// Recommendations.
	CollaborativeAlpha      float64 `json:"collaborative_alpha" yaml:"collaborative_alpha"`
	RecommendationLimit     int     `json:"recommendation_limit" yaml:"recommendation_limit"`
	PeerSimilarityThreshold float64 `json:"peer_similarity_threshold" yaml:"peer_similarity_threshold"`

	// Breakthroughs.
	CurrentVelocityQuantile float64 `json:"current_velocity_quantile" yaml:"current_velocity_quantile"`
	TopQuantile             float64 `json:"top_quantile" yaml:"top_quantile"`
	EmergingWindowYears     int     `json:"emerging_window_years" yaml:"emerging_window_years"`

	// CurrentYear anchors velocity, trend windows and recency. Zero means
	// the wall-clock year at normalization time.
	CurrentYear int `json:"current_year" yaml:"current_year"`

	// Workers bounds per-iteration fan-out. Zero means GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultAnalysisConfig returns the documented defaults.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		DampingFactor:                0.85,
		MaxIterations:                100,
		ConvergenceEpsilon:           1e-6,
		BetweennessSamplingThreshold: 5000,
		BetweennessSamples:           256,
		ClusterMaxIterations:         100,
		MinClusterSize:               2,
		GrowthThreshold:              0.15,
		ClusterSimilarityThreshold:   0.2,
		TrendWindowYears:             3,
		TrendWeights:                 TrendWeights{Growth: 1, Momentum: 1, Interdisciplinary: 1},
		CollaborativeAlpha:           0.5,
		RecommendationLimit:          20,
		PeerSimilarityThreshold:      0.1,
		CurrentVelocityQuantile:      0.95,
		TopQuantile:                  0.90,
		EmergingWindowYears:          2,
	}
}

// Normalize returns a copy of c with zero values replaced by defaults.
// CollaborativeAlpha is kept as given, since 0 is a meaningful value; use
// DefaultAnalysisConfig as the starting point to get 0.5.
func (c AnalysisConfig) Normalize() AnalysisConfig {
	d := DefaultAnalysisConfig()
	if c.DampingFactor == 0 {
		c.DampingFactor = d.DampingFactor
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.ConvergenceEpsilon <= 0 {
		c.ConvergenceEpsilon = d.ConvergenceEpsilon
	}
	if c.BetweennessSamplingThreshold <= 0 {
		c.BetweennessSamplingThreshold = d.BetweennessSamplingThreshold
	}
	if c.BetweennessSamples <= 0 {
		c.BetweennessSamples = d.BetweennessSamples
	}
	if c.ClusterMaxIterations <= 0 {
		c.ClusterMaxIterations = d.ClusterMaxIterations
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = d.MinClusterSize
	}
	if c.GrowthThreshold <= 0 {
		c.GrowthThreshold = d.GrowthThreshold
	}
	if c.ClusterSimilarityThreshold <= 0 {
		c.ClusterSimilarityThreshold = d.ClusterSimilarityThreshold
	}
	if c.TrendWindowYears <= 0 {
		c.TrendWindowYears = d.TrendWindowYears
	}
	if c.TrendWeights == (TrendWeights{}) {
		c.TrendWeights = d.TrendWeights
	}
	if c.RecommendationLimit <= 0 {
		c.RecommendationLimit = d.RecommendationLimit
	}
	if c.PeerSimilarityThreshold <= 0 {
		c.PeerSimilarityThreshold = d.PeerSimilarityThreshold
	}
	if c.CurrentVelocityQuantile <= 0 {
		c.CurrentVelocityQuantile = d.CurrentVelocityQuantile
	}
	if c.TopQuantile <= 0 {
		c.TopQuantile = d.TopQuantile
	}
	if c.EmergingWindowYears <= 0 {
		c.EmergingWindowYears = d.EmergingWindowYears
	}
	if c.CurrentYear <= 0 {
		c.CurrentYear = time.Now().Year()
	}
	return c
}

// Validate rejects out-of-range settings.
func (c AnalysisConfig) Validate() error {
	if c.DampingFactor <= 0 || c.DampingFactor >= 1 {
		return fmt.Errorf("damping_factor must be in (0, 1), got %v", c.DampingFactor)
	}
	if c.CollaborativeAlpha < 0 || c.CollaborativeAlpha > 1 {
		return fmt.Errorf("collaborative_alpha must be in [0, 1], got %v", c.CollaborativeAlpha)
	}
	if c.ClusterSimilarityThreshold > 1 {
		return fmt.Errorf("cluster_similarity_threshold must be at most 1, got %v", c.ClusterSimilarityThreshold)
	}
	if c.PeerSimilarityThreshold > 1 {
		return fmt.Errorf("peer_similarity_threshold must be at most 1, got %v", c.PeerSimilarityThreshold)
	}
	quantiles := []struct {
		name string
		q    float64
	}{
		{"current_velocity_quantile", c.CurrentVelocityQuantile},
		{"top_quantile", c.TopQuantile},
	}
	for _, qt := range quantiles {
		if qt.q <= 0 || qt.q >= 1 {
			return fmt.Errorf("%s must be in (0, 1), got %v", qt.name, qt.q)
		}
	}
	if c.MaxIterations < 0 || c.ClusterMaxIterations < 0 {
		return fmt.Errorf("iteration caps must not be negative")
	}
	return nil
}
