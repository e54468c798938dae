// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MethodologyType classifies the research approach of a paper. The set is
// closed: values outside it are rejected when a graph is built.
type MethodologyType string

const (
	MethodUnspecified   MethodologyType = "unspecified"
	MethodExperimental  MethodologyType = "experimental"
	MethodObservational MethodologyType = "observational"
	MethodComputational MethodologyType = "computational"
	MethodTheoretical   MethodologyType = "theoretical"
	MethodReview        MethodologyType = "review"
	MethodMetaAnalysis  MethodologyType = "meta_analysis"
	MethodClinicalTrial MethodologyType = "clinical_trial"
)

// Methodologies lists every valid MethodologyType in declaration order.
var Methodologies = []MethodologyType{
	MethodUnspecified, MethodExperimental, MethodObservational, MethodComputational,
	MethodTheoretical, MethodReview, MethodMetaAnalysis, MethodClinicalTrial,
}

// Valid reports whether m is one of the declared methodologies. The empty
// string is treated as unspecified.
func (m MethodologyType) Valid() bool {
	if m == "" {
		return true
	}
	for _, v := range Methodologies {
		if m == v {
			return true
		}
	}
	return false
}

// Normalize maps the empty value to MethodUnspecified.
func (m MethodologyType) Normalize() MethodologyType {
	if m == "" {
		return MethodUnspecified
	}
	return m
}

// Paper holds the attributes of one node in the citation graph as supplied
// by the bibliographic data provider. Scores such as novelty and author
// reputation are opaque inputs; the engine never derives them.
type Paper struct {
	// PMID is the unique paper identifier (PubMed ID or provider ID).
	PMID string `json:"pmid" yaml:"pmid" validate:"required"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Journal is the publication venue.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year" validate:"required,gt=0"`

	// CitationCount is the raw citation count reported by the provider. It
	// may exceed the in-degree, since most citing papers are not in the snapshot.
	CitationCount int `json:"citation_count" yaml:"citation_count" validate:"gte=0"`

	// ResearchDomains is the set of topical domains the paper belongs to.
	ResearchDomains []string `json:"research_domains,omitempty" yaml:"research_domains,omitempty" validate:"omitempty,dive,required"`

	// Methodology is the research approach.
	Methodology MethodologyType `json:"methodology,omitempty" yaml:"methodology,omitempty" validate:"omitempty,oneof=unspecified experimental observational computational theoretical review meta_analysis clinical_trial"`

	NoveltyScore           float64 `json:"novelty_score" yaml:"novelty_score" validate:"gte=0,lte=1"`
	InterdisciplinaryScore float64 `json:"interdisciplinary_score" yaml:"interdisciplinary_score" validate:"gte=0,lte=1"`
	AuthorReputationScore  float64 `json:"author_reputation_score" yaml:"author_reputation_score" validate:"gte=0"`
	JournalImpactFactor    float64 `json:"journal_impact_factor" yaml:"journal_impact_factor" validate:"gte=0"`
}

// NodeMetrics is the computed view of one node after an analysis run.
type NodeMetrics struct {
	PMID                  string  `json:"pmid" yaml:"pmid"`
	InDegree              int     `json:"in_degree" yaml:"in_degree"`
	OutDegree             int     `json:"out_degree" yaml:"out_degree"`
	PageRank              float64 `json:"pagerank_score" yaml:"pagerank_score"`
	BetweennessCentrality float64 `json:"betweenness_centrality" yaml:"betweenness_centrality"`
	ClosenessCentrality   float64 `json:"closeness_centrality" yaml:"closeness_centrality"`
	CitationVelocity      float64 `json:"citation_velocity" yaml:"citation_velocity"`

	// CitationHalfLifeYear is nil when fewer than two citing events exist.
	CitationHalfLifeYear *int `json:"citation_half_life,omitempty" yaml:"citation_half_life,omitempty"`

	// PeakCitationYear is nil when the paper has no citing events.
	PeakCitationYear *int `json:"peak_citation_year,omitempty" yaml:"peak_citation_year,omitempty"`
}
