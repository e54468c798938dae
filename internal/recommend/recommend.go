// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend ranks papers for one user by blending a collaborative
// signal from similar profiles with a content signal matched against the
// user's stated preferences. Every map is iterated in sorted key order, so
// identical inputs produce identical output.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/internal/ranking"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// recencyHalfAge is the age in years at which the recency facet scores 0.5.
const recencyHalfAge = 5.0

// candidate is one uninteracted paper being scored.
type candidate struct {
	node    int
	collab  float64
	content float64
	peers   int
	final   float64

	// signal is set when either raw score is positive.
	signal bool
}

// Recommend returns up to cfg.RecommendationLimit papers for profile. peers
// are the other profiles of the interaction store. An empty interacted set
// yields an empty list tagged types.ReasonInsufficientData; no candidate
// with a positive raw collaborative or content score yields
// types.ReasonNoCandidates.
func Recommend(g *graph.Graph, rank *ranking.Result, profile types.UserCitationProfile, peers []types.UserCitationProfile, cfg types.AnalysisConfig) types.RecommendationList {
	list := types.RecommendationList{UserID: profile.UserID, Recommendations: make([]types.Recommendation, 0)}
	interacted := profile.InteractedSet()
	prefs := normalizePreferences(profile.Preferences)
	if len(interacted) == 0 {
		list.Reason = types.ReasonInsufficientData
		return list
	}

	cands := make([]candidate, 0, g.Len())
	pos := make(map[int]int, g.Len())
	for i := 0; i < g.Len(); i++ {
		if interacted[g.ID(i)] {
			continue
		}
		pos[i] = len(cands)
		cands = append(cands, candidate{node: i, content: contentScore(g.Node(i), prefs, cfg.CurrentYear)})
	}
	if len(cands) == 0 {
		list.Reason = types.ReasonNoCandidates
		return list
	}

	for _, peer := range sortedPeers(peers) {
		sim := jaccard(interacted, peer.InteractedSet())
		if sim < cfg.PeerSimilarityThreshold || sim == 0 {
			continue
		}
		for _, id := range sortedKeys(peer.InteractedSet()) {
			i, ok := g.Index(id)
			if !ok {
				continue
			}
			if c, ok := pos[i]; ok {
				cands[c].collab += sim
				cands[c].peers++
			}
		}
	}

	for k := range cands {
		cands[k].signal = cands[k].collab > 0 || cands[k].content > 0
	}
	normalize(cands, func(c *candidate) *float64 { return &c.collab })
	normalize(cands, func(c *candidate) *float64 { return &c.content })

	alpha := cfg.CollaborativeAlpha
	scored := cands[:0]
	for _, c := range cands {
		c.final = alpha*c.collab + (1-alpha)*c.content
		if c.signal {
			scored = append(scored, c)
		}
	}
	if len(scored) == 0 {
		list.Reason = types.ReasonNoCandidates
		return list
	}
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.final != b.final {
			return a.final > b.final
		}
		ra, rb := rank.PageRank[a.node], rank.PageRank[b.node]
		if ra != rb {
			return ra > rb
		}
		return g.ID(a.node) < g.ID(b.node)
	})

	completeness := Completeness(profile)
	limit := cfg.RecommendationLimit
	if limit <= 0 || limit > len(scored) {
		limit = len(scored)
	}
	for k, c := range scored[:limit] {
		margin := c.final
		if k+1 < len(scored) {
			margin = c.final - scored[k+1].final
		}
		dominant := types.SignalContent
		if alpha*c.collab > (1-alpha)*c.content {
			dominant = types.SignalCollaborative
		}
		list.Recommendations = append(list.Recommendations, types.Recommendation{
			PMID:          g.ID(c.node),
			Score:         c.final,
			Collaborative: c.collab,
			Content:       c.content,
			Dominant:      dominant,
			Reasoning:     reasoning(g.Node(c.node), prefs, c, dominant),
			Confidence:    completeness * (0.5 + 0.5*math.Min(margin, 1)),
		})
	}
	return list
}

// contentScore is the weighted mean of the facets the user has preferences
// for. Recency is always scored.
func contentScore(p types.Paper, prefs types.Preferences, currentYear int) float64 {
	w := prefs.Weights
	if w == (types.FacetWeights{}) {
		w = types.DefaultFacetWeights()
	}
	total, weight := 0.0, 0.0
	add := func(facetWeight, score float64) {
		if facetWeight <= 0 {
			return
		}
		total += facetWeight * score
		weight += facetWeight
	}

	if len(prefs.Domains) > 0 {
		add(w.Domain, domainMatch(p.ResearchDomains, prefs.Domains))
	}
	if len(prefs.Methodologies) > 0 {
		add(w.Methodology, clamp01(prefs.Methodologies[p.Methodology.Normalize()]))
	}
	if prefs.Novelty != nil {
		add(w.Novelty, 1-math.Abs(p.NoveltyScore-*prefs.Novelty))
	}
	age := float64(max(0, currentYear-p.Year))
	add(w.Recency, 1/(1+age/recencyHalfAge))

	if weight == 0 {
		return 0
	}
	return clamp01(total / weight)
}

// domainMatch is the share of the user's positive domain interest covered
// by the paper's domains.
func domainMatch(domains []string, prefs map[string]float64) float64 {
	denom := 0.0
	for _, d := range sortedKeys(prefs) {
		if v := prefs[d]; v > 0 {
			denom += v
		}
	}
	if denom == 0 {
		return 0
	}
	num := 0.0
	for _, d := range domains {
		if v := prefs[d]; v > 0 {
			num += v
		}
	}
	return clamp01(num / denom)
}

// Completeness is the share of profile signals present: interactions,
// domain, methodology and novelty preferences.
func Completeness(profile types.UserCitationProfile) float64 {
	present := 0
	if len(profile.Interacted) > 0 {
		present++
	}
	if len(profile.Preferences.Domains) > 0 {
		present++
	}
	if len(profile.Preferences.Methodologies) > 0 {
		present++
	}
	if profile.Preferences.Novelty != nil {
		present++
	}
	return float64(present) / 4
}

// normalize min-max scales one signal over cands to [0, 1]. A constant
// signal maps to 1 when positive and 0 otherwise.
func normalize(cands []candidate, field func(*candidate) *float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range cands {
		v := *field(&cands[i])
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for i := range cands {
		f := field(&cands[i])
		switch {
		case hi == lo && hi > 0:
			*f = 1
		case hi == lo:
			*f = 0
		default:
			*f = (*f - lo) / (hi - lo)
		}
	}
}

func reasoning(p types.Paper, prefs types.Preferences, c candidate, dominant types.Signal) string {
	if dominant == types.SignalCollaborative {
		return fmt.Sprintf("read by %d similar researchers (collaborative %.2f, content %.2f)", c.peers, c.collab, c.content)
	}
	var matched []string
	for _, d := range p.ResearchDomains {
		if prefs.Domains[d] > 0 {
			matched = append(matched, d)
		}
	}
	if len(matched) == 0 {
		return fmt.Sprintf("matches your content preferences (content %.2f, collaborative %.2f)", c.content, c.collab)
	}
	return fmt.Sprintf("matches your interest in %s (content %.2f, collaborative %.2f)", strings.Join(matched, ", "), c.content, c.collab)
}

// normalizePreferences folds domain keys the way graph.Build folds paper
// domains, keeping the larger weight on collisions.
func normalizePreferences(prefs types.Preferences) types.Preferences {
	if len(prefs.Domains) == 0 {
		return prefs
	}
	domains := make(map[string]float64, len(prefs.Domains))
	for _, k := range sortedKeys(prefs.Domains) {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if v, ok := domains[key]; !ok || prefs.Domains[k] > v {
			domains[key] = prefs.Domains[k]
		}
	}
	prefs.Domains = domains
	return prefs
}

func jaccard(a, b map[string]bool) float64 {
	inter := 0
	for id := range a {
		if b[id] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func sortedPeers(peers []types.UserCitationProfile) []types.UserCitationProfile {
	out := append([]types.UserCitationProfile(nil), peers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
