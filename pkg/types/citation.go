// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationContext identifies the section of the citing paper where a
// citation appears.
type CitationContext string

const (
	ContextBackground  CitationContext = "background"
	ContextMethodology CitationContext = "methodology"
	ContextResults     CitationContext = "results"
	ContextDiscussion  CitationContext = "discussion"
)

// Valid reports whether c is a declared context. Empty means background.
func (c CitationContext) Valid() bool {
	switch c {
	case "", ContextBackground, ContextMethodology, ContextResults, ContextDiscussion:
		return true
	}
	return false
}

// Normalize maps the empty value to ContextBackground.
func (c CitationContext) Normalize() CitationContext {
	if c == "" {
		return ContextBackground
	}
	return c
}

// Sentiment is the stance of the citing paper toward the cited work.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentCritical Sentiment = "critical"
)

// Valid reports whether s is a declared sentiment. Empty means neutral.
func (s Sentiment) Valid() bool {
	switch s {
	case "", SentimentPositive, SentimentNeutral, SentimentNegative, SentimentCritical:
		return true
	}
	return false
}

// Normalize maps the empty value to SentimentNeutral.
func (s Sentiment) Normalize() Sentiment {
	if s == "" {
		return SentimentNeutral
	}
	return s
}

// Citation is a directed edge: CitingID cites CitedID.
type Citation struct {
	CitingID string `json:"citing_id" yaml:"citing_id" validate:"required"`
	CitedID  string `json:"cited_id" yaml:"cited_id" validate:"required"`

	Context   CitationContext `json:"context,omitempty" yaml:"context,omitempty" validate:"omitempty,oneof=background methodology results discussion"`
	Sentiment Sentiment       `json:"sentiment,omitempty" yaml:"sentiment,omitempty" validate:"omitempty,oneof=positive neutral negative critical"`

	// Importance weights the edge in clustering and bridging strength.
	Importance float64 `json:"importance" yaml:"importance" validate:"gte=0,lte=1"`

	// TemporalDistance is citing.Year - cited.Year. The graph builder
	// overwrites any supplied value with the derived one.
	TemporalDistance int `json:"temporal_distance" yaml:"temporal_distance"`

	// SemanticSimilarity is the opaque similarity of the two papers.
	SemanticSimilarity float64 `json:"semantic_similarity" yaml:"semantic_similarity" validate:"gte=0,lte=1"`
}
