// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation engine:
// the input records (Paper, Citation, UserCitationProfile, Snapshot), the
// analysis configuration, and the structured results handed to the
// presentation layer (clusters, trends, opportunities, recommendations,
// breakthroughs).
package types

// GrowthTrajectory summarizes how a cluster's citations are shifting across
// its temporal span.
type GrowthTrajectory string

const (
	GrowthEmerging  GrowthTrajectory = "emerging"
	GrowthMature    GrowthTrajectory = "mature"
	GrowthDeclining GrowthTrajectory = "declining"
)

// YearSpan is an inclusive range of publication years.
type YearSpan struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Years returns the number of years covered by the span.
func (s YearSpan) Years() int {
	return s.End - s.Start + 1
}

// Cluster is one topical community of papers.
type Cluster struct {
	ID               string           `json:"id" yaml:"id"`
	Members          []string         `json:"members" yaml:"members"`
	CentralPapers    []string         `json:"central_papers" yaml:"central_papers"`
	Theme            string           `json:"theme" yaml:"theme"`
	Domains          []string         `json:"domains,omitempty" yaml:"domains,omitempty"`
	TemporalSpan     YearSpan         `json:"temporal_span" yaml:"temporal_span"`
	GrowthTrajectory GrowthTrajectory `json:"growth_trajectory" yaml:"growth_trajectory"`
}

// Size returns the member count.
func (c Cluster) Size() int { return len(c.Members) }

// Trajectory is the predicted shape of a cluster's future growth.
type Trajectory string

const (
	TrajectoryExponential Trajectory = "exponential"
	TrajectoryLinear      Trajectory = "linear"
	TrajectoryPlateau     Trajectory = "plateau"
	TrajectoryDecline     Trajectory = "decline"
)

// Trend is the forward-looking summary of one cluster.
type Trend struct {
	ClusterID               string     `json:"cluster_id" yaml:"cluster_id"`
	Window                  YearSpan   `json:"window" yaml:"window"`
	GrowthRate              float64    `json:"growth_rate" yaml:"growth_rate"`
	CitationMomentum        float64    `json:"citation_momentum" yaml:"citation_momentum"`
	BreakthroughProbability float64    `json:"breakthrough_probability" yaml:"breakthrough_probability"`
	PredictedTrajectory     Trajectory `json:"predicted_trajectory" yaml:"predicted_trajectory"`
}

// TrendList holds the trends of a run. Reason is set when Trends is empty.
type TrendList struct {
	Trends []Trend    `json:"trends" yaml:"trends"`
	Reason ReasonCode `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// CrossDomainOpportunity is a pair of clusters linked by bridging citations
// between dissimilar research domains.
type CrossDomainOpportunity struct {
	ClusterA            string   `json:"cluster_a" yaml:"cluster_a"`
	ClusterB            string   `json:"cluster_b" yaml:"cluster_b"`
	DomainA             string   `json:"domain_a" yaml:"domain_a"`
	DomainB             string   `json:"domain_b" yaml:"domain_b"`
	ConnectionStrength  float64  `json:"connection_strength" yaml:"connection_strength"`
	BridgingEdges       int      `json:"bridging_edges" yaml:"bridging_edges"`
	BridgingNodes       []string `json:"bridging_nodes" yaml:"bridging_nodes"`
	InnovationPotential float64  `json:"innovation_potential" yaml:"innovation_potential"`
}

// OpportunityList holds the cross-domain opportunities of a run.
type OpportunityList struct {
	Opportunities []CrossDomainOpportunity `json:"opportunities" yaml:"opportunities"`
	Reason        ReasonCode               `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Signal names the recommendation signal that dominated a score.
type Signal string

const (
	SignalCollaborative Signal = "collaborative"
	SignalContent       Signal = "content"
)

// Recommendation is one ranked paper for a user.
type Recommendation struct {
	PMID          string  `json:"pmid" yaml:"pmid"`
	Score         float64 `json:"score" yaml:"score"`
	Collaborative float64 `json:"collaborative" yaml:"collaborative"`
	Content       float64 `json:"content" yaml:"content"`
	Dominant      Signal  `json:"dominant" yaml:"dominant"`
	Reasoning     string  `json:"reasoning" yaml:"reasoning"`
	Confidence    float64 `json:"confidence" yaml:"confidence"`
}

// RecommendationList holds ranked recommendations for one user.
type RecommendationList struct {
	UserID          string           `json:"user_id" yaml:"user_id"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	Reason          ReasonCode       `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// BreakthroughKind distinguishes the breakthrough classifications.
type BreakthroughKind string

const (
	BreakthroughCurrent   BreakthroughKind = "current"
	BreakthroughEmerging  BreakthroughKind = "emerging"
	BreakthroughPredicted BreakthroughKind = "predicted"
)

// Breakthrough flags one paper. Score is the metric the kind ranks by.
type Breakthrough struct {
	PMID  string           `json:"pmid" yaml:"pmid"`
	Kind  BreakthroughKind `json:"kind" yaml:"kind"`
	Score float64          `json:"score" yaml:"score"`
}

// BreakthroughSets holds the three breakthrough classifications.
type BreakthroughSets struct {
	Current   []Breakthrough `json:"current" yaml:"current"`
	Emerging  []Breakthrough `json:"emerging" yaml:"emerging"`
	Predicted []Breakthrough `json:"predicted" yaml:"predicted"`
}
