// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Snapshot materializes every stored paper, citation and profile. Papers
// are ordered by pmid, citations by (citing, cited) and profiles by user ID.
func (s *Store) Snapshot(ctx context.Context) (types.Snapshot, error) {
	papers, err := s.papers(ctx)
	if err != nil {
		return types.Snapshot{}, err
	}
	citations, err := s.citations(ctx)
	if err != nil {
		return types.Snapshot{}, err
	}
	profiles, err := s.profiles(ctx, "", "")
	if err != nil {
		return types.Snapshot{}, err
	}
	return types.Snapshot{Papers: papers, Citations: citations, Profiles: profiles}, nil
}

// Profile returns the profile of userID and whether it exists.
func (s *Store) Profile(ctx context.Context, userID string) (types.UserCitationProfile, bool, error) {
	ps, err := s.profiles(ctx, "user_id = ?", userID)
	if err != nil || len(ps) == 0 {
		return types.UserCitationProfile{}, false, err
	}
	return ps[0], true, nil
}

// Peers returns every profile other than userID's, ordered by user ID.
func (s *Store) Peers(ctx context.Context, userID string) ([]types.UserCitationProfile, error) {
	return s.profiles(ctx, "user_id != ?", userID)
}

func (s *Store) papers(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, title, authors, journal, year, citation_count, research_domains, methodology,
			novelty_score, interdisciplinary_score, author_reputation_score, journal_impact_factor
		 FROM papers ORDER BY pmid`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		var authors, domains, methodology string
		if err := rows.Scan(&p.PMID, &p.Title, &authors, &p.Journal, &p.Year, &p.CitationCount,
			&domains, &methodology, &p.NoveltyScore, &p.InterdisciplinaryScore,
			&p.AuthorReputationScore, &p.JournalImpactFactor); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		json.Unmarshal([]byte(authors), &p.Authors)
		json.Unmarshal([]byte(domains), &p.ResearchDomains)
		p.Methodology = types.MethodologyType(methodology)
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (s *Store) citations(ctx context.Context) ([]types.Citation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT citing_id, cited_id, context, sentiment, importance, temporal_distance, semantic_similarity
		 FROM citations ORDER BY citing_id, cited_id`)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var citations []types.Citation
	for rows.Next() {
		var c types.Citation
		var section, sentiment string
		if err := rows.Scan(&c.CitingID, &c.CitedID, &section, &sentiment,
			&c.Importance, &c.TemporalDistance, &c.SemanticSimilarity); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		c.Context = types.CitationContext(section)
		c.Sentiment = types.Sentiment(sentiment)
		citations = append(citations, c)
	}
	return citations, rows.Err()
}

// profiles loads profiles matching where (empty for all) with their
// interactions in recording order.
func (s *Store) profiles(ctx context.Context, where, arg string) ([]types.UserCitationProfile, error) {
	query := `SELECT user_id, preferences FROM profiles`
	var args []any
	if where != "" {
		query += " WHERE " + where
		args = append(args, arg)
	}
	query += " ORDER BY user_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}

	var profiles []types.UserCitationProfile
	for rows.Next() {
		var p types.UserCitationProfile
		var prefs sql.NullString
		if err := rows.Scan(&p.UserID, &prefs); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		if prefs.Valid && prefs.String != "" {
			if err := json.Unmarshal([]byte(prefs.String), &p.Preferences); err != nil {
				rows.Close()
				return nil, fmt.Errorf("decoding preferences for %s: %w", p.UserID, err)
			}
		}
		profiles = append(profiles, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}

	for i := range profiles {
		interacted, err := s.interactions(ctx, profiles[i].UserID)
		if err != nil {
			return nil, err
		}
		profiles[i].Interacted = interacted
	}
	return profiles, nil
}

func (s *Store) interactions(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid FROM interactions WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	interacted := []string{}
	for rows.Next() {
		var pmid string
		if err := rows.Scan(&pmid); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		interacted = append(interacted, pmid)
	}
	return interacted, rows.Err()
}
