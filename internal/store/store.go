// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists snapshots and user interactions in SQLite. It is
// the user interaction store collaborator of the analysis engine: profiles
// and peers are read from it, and the stored papers and citations can be
// materialized back into a snapshot for a run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

const dbFile = "citations.db"

// Store manages the citation SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the database at cfg.Dir/citations.db and creates
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: cfg.Dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and export files.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	// Citations carry no foreign keys: the graph builder reports edges with
	// unknown endpoints, so they are stored as supplied.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			pmid TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			journal TEXT,
			year INTEGER,
			citation_count INTEGER,
			research_domains TEXT,
			methodology TEXT,
			novelty_score REAL,
			interdisciplinary_score REAL,
			author_reputation_score REAL,
			journal_impact_factor REAL
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			citing_id TEXT NOT NULL,
			cited_id TEXT NOT NULL,
			context TEXT,
			sentiment TEXT,
			importance REAL,
			temporal_distance INTEGER,
			semantic_similarity REAL,
			PRIMARY KEY (citing_id, cited_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_cited ON citations(cited_id)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			preferences TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL REFERENCES profiles(user_id),
			pmid TEXT NOT NULL,
			recorded_at TEXT,
			UNIQUE (user_id, pmid)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from an Import.
type ImportSummary struct {
	Papers       int
	Citations    int
	Profiles     int
	Interactions int
}

// Import upserts every paper, citation and profile of snap in one
// transaction. Interactions are merged with those already stored.
func (s *Store) Import(ctx context.Context, snap types.Snapshot) (ImportSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary ImportSummary

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (pmid, title, authors, journal, year, citation_count, research_domains,
			methodology, novelty_score, interdisciplinary_score, author_reputation_score, journal_impact_factor)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, journal=excluded.journal,
			year=excluded.year, citation_count=excluded.citation_count,
			research_domains=excluded.research_domains, methodology=excluded.methodology,
			novelty_score=excluded.novelty_score, interdisciplinary_score=excluded.interdisciplinary_score,
			author_reputation_score=excluded.author_reputation_score,
			journal_impact_factor=excluded.journal_impact_factor`)
	if err != nil {
		return summary, fmt.Errorf("preparing paper insert: %w", err)
	}
	defer paperStmt.Close()

	for _, p := range snap.Papers {
		authors, _ := json.Marshal(p.Authors)
		domains, _ := json.Marshal(p.ResearchDomains)
		_, err := paperStmt.ExecContext(ctx,
			p.PMID, p.Title, string(authors), p.Journal, p.Year, p.CitationCount, string(domains),
			string(p.Methodology), p.NoveltyScore, p.InterdisciplinaryScore,
			p.AuthorReputationScore, p.JournalImpactFactor,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting paper %s: %w", p.PMID, err)
		}
		summary.Papers++
	}

	citeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (citing_id, cited_id, context, sentiment, importance, temporal_distance, semantic_similarity)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(citing_id, cited_id) DO UPDATE SET
			context=excluded.context, sentiment=excluded.sentiment, importance=excluded.importance,
			temporal_distance=excluded.temporal_distance, semantic_similarity=excluded.semantic_similarity`)
	if err != nil {
		return summary, fmt.Errorf("preparing citation insert: %w", err)
	}
	defer citeStmt.Close()

	for _, c := range snap.Citations {
		_, err := citeStmt.ExecContext(ctx,
			c.CitingID, c.CitedID, string(c.Context), string(c.Sentiment),
			c.Importance, c.TemporalDistance, c.SemanticSimilarity,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting citation %s->%s: %w", c.CitingID, c.CitedID, err)
		}
		summary.Citations++
	}

	for _, p := range snap.Profiles {
		prefs, err := json.Marshal(p.Preferences)
		if err != nil {
			return summary, fmt.Errorf("encoding preferences for %s: %w", p.UserID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (user_id, preferences) VALUES (?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET preferences=excluded.preferences`,
			p.UserID, string(prefs),
		)
		if err != nil {
			return summary, fmt.Errorf("upserting profile %s: %w", p.UserID, err)
		}
		summary.Profiles++

		for _, pmid := range p.Interacted {
			n, err := insertInteraction(ctx, tx, p.UserID, pmid)
			if err != nil {
				return summary, err
			}
			summary.Interactions += n
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}
	return summary, nil
}

// RecordInteraction stores that userID interacted with pmid, creating an
// empty profile for a new user. Repeated interactions are ignored.
func (s *Store) RecordInteraction(ctx context.Context, userID, pmid string) error {
	if userID == "" || pmid == "" {
		return errors.New("user ID and pmid are required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO profiles (user_id, preferences) VALUES (?, '{}')`, userID,
	); err != nil {
		return fmt.Errorf("creating profile %s: %w", userID, err)
	}
	if _, err := insertInteraction(ctx, tx, userID, pmid); err != nil {
		return err
	}
	return tx.Commit()
}

func insertInteraction(ctx context.Context, tx *sql.Tx, userID, pmid string) (int, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO interactions (user_id, pmid, recorded_at) VALUES (?, ?, ?)`,
		userID, pmid, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("recording interaction %s/%s: %w", userID, pmid, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
