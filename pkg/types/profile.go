// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FacetWeights weights the content-based facets of a recommendation.
type FacetWeights struct {
	Domain      float64 `json:"domain" yaml:"domain"`
	Methodology float64 `json:"methodology" yaml:"methodology"`
	Novelty     float64 `json:"novelty" yaml:"novelty"`
	Recency     float64 `json:"recency" yaml:"recency"`
}

// DefaultFacetWeights weights every facet equally.
func DefaultFacetWeights() FacetWeights {
	return FacetWeights{Domain: 1, Methodology: 1, Novelty: 1, Recency: 1}
}

// Preferences holds a user's stated content preferences.
type Preferences struct {
	// Domains maps a research domain to an interest weight in [0, 1].
	Domains map[string]float64 `json:"domains,omitempty" yaml:"domains,omitempty"`

	// Methodologies maps a methodology to an interest weight in [0, 1].
	Methodologies map[MethodologyType]float64 `json:"methodologies,omitempty" yaml:"methodologies,omitempty"`

	// Novelty is the preferred novelty score. Nil means no preference.
	Novelty *float64 `json:"novelty,omitempty" yaml:"novelty,omitempty"`

	// Weights balances the facets. A zero value means equal weights.
	Weights FacetWeights `json:"weights" yaml:"weights"`
}

// UserCitationProfile is the interaction history and preferences of one user,
// supplied by the user interaction store.
type UserCitationProfile struct {
	UserID      string      `json:"user_id" yaml:"user_id"`
	Interacted  []string    `json:"interacted" yaml:"interacted"`
	Preferences Preferences `json:"preferences" yaml:"preferences"`
}

// InteractedSet returns the interacted pmids as a set.
func (p UserCitationProfile) InteractedSet() map[string]bool {
	set := make(map[string]bool, len(p.Interacted))
	for _, id := range p.Interacted {
		set[id] = true
	}
	return set
}
