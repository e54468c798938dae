// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis orchestrates one analysis run over a snapshot: build the
// graph, rank and date its nodes, cluster them, then derive trends,
// cross-domain opportunities, breakthroughs and recommendations.
//
// An Engine is safe for concurrent use. Every run builds its own graph and
// shares nothing mutable with other runs except the report cache, which is
// keyed by the graph content hash and the normalized config hash.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citation-engine/internal/breakthrough"
	"github.com/pdiddy/citation-engine/internal/cluster"
	"github.com/pdiddy/citation-engine/internal/crossdomain"
	"github.com/pdiddy/citation-engine/internal/graph"
	"github.com/pdiddy/citation-engine/internal/logging"
	"github.com/pdiddy/citation-engine/internal/metrics"
	"github.com/pdiddy/citation-engine/internal/ranking"
	"github.com/pdiddy/citation-engine/internal/recommend"
	"github.com/pdiddy/citation-engine/internal/temporal"
	"github.com/pdiddy/citation-engine/internal/trend"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Engine runs analyses and caches their reports.
type Engine struct {
	log     logging.Logger
	metrics *metrics.Metrics
	cache   *reportCache

	// onCompute is called at the start of every uncached computation.
	onCompute func(ctx context.Context)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the metric collectors. The default is unregistered.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCacheSize sets how many reports the engine keeps.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cache = newReportCache(n) }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:     logging.NewNop(),
		metrics: metrics.New(nil),
		cache:   newReportCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("analysis")
	return e
}

// Run analyzes snap with cfg. Recommendations are produced for every
// profile in the snapshot. A cancelled context yields a report with
// StatusCancelled and no results. An empty node set or an invalid config
// is returned as an error.
func (e *Engine) Run(ctx context.Context, snap types.Snapshot, cfg types.AnalysisConfig) (*Report, error) {
	rep, err := e.analyze(ctx, snap, cfg)
	if err != nil || rep.Status == types.StatusCancelled {
		return rep, err
	}

	cfg = cfg.Normalize()
	profiles := append([]types.UserCitationProfile(nil), snap.Profiles...)
	sort.SliceStable(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	for _, p := range profiles {
		rep.Recommendations = append(rep.Recommendations,
			recommend.Recommend(rep.graph, rep.rank, p, snap.Peers(p.UserID), cfg))
	}
	return rep, nil
}

// Recommend ranks papers for userID against the analysis of snap. An
// unknown user yields an empty list tagged types.ReasonUnknownUser. A
// cancelled context returns types.ErrCancelled.
func (e *Engine) Recommend(ctx context.Context, snap types.Snapshot, userID string, cfg types.AnalysisConfig) (types.RecommendationList, error) {
	profile, ok := snap.Profile(userID)
	if !ok {
		return types.RecommendationList{
			UserID:          userID,
			Recommendations: make([]types.Recommendation, 0),
			Reason:          types.ReasonUnknownUser,
		}, nil
	}

	rep, err := e.analyze(ctx, snap, cfg)
	if err != nil {
		return types.RecommendationList{}, err
	}
	if rep.Status == types.StatusCancelled {
		return types.RecommendationList{}, types.ErrCancelled
	}
	return recommend.Recommend(rep.graph, rep.rank, profile, snap.Peers(userID), cfg.Normalize()), nil
}

// analyze returns a per-call copy of the graph analysis of snap, computed
// or taken from the cache.
func (e *Engine) analyze(ctx context.Context, snap types.Snapshot, cfg types.AnalysisConfig) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := e.log.With(logging.String("run_id", runID))
	if ctx.Err() != nil {
		return e.cancelled(log, runID, start), nil
	}

	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}

	g, dq, err := graph.Build(snap.Papers, snap.Citations)
	e.recordDrops(log, dq)
	if err != nil {
		log.Error("graph build failed", logging.Err(err))
		return nil, fmt.Errorf("building graph: %w", err)
	}
	cfgHash, err := configHash(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("analysis started",
		logging.Int("nodes", g.Len()),
		logging.Int("edges", g.EdgeCount()),
		logging.String("graph_hash", g.Hash()[:12]))

	core, lookup, err := e.cache.do(ctx, g.Hash()+":"+cfgHash, func(ctx context.Context) (*Report, error) {
		return e.compute(ctx, log, g, cfg)
	})
	if errors.Is(err, types.ErrCancelled) {
		return e.cancelled(log, runID, start), nil
	}
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveCache(lookup)
	elapsed := time.Since(start)

	rep := *core
	rep.RunID = runID
	rep.Cached = lookup == metrics.CacheHit
	rep.StartedAt = start
	rep.Elapsed = elapsed
	rep.ConfigHash = cfgHash
	rep.DataQuality = dq
	rep.Warnings = append(qualityWarnings(dq), core.computeWarnings...)
	rep.Status = types.StatusComplete
	if len(rep.Warnings) > 0 {
		rep.Status = types.StatusDegraded
	}
	e.metrics.ObserveRun(rep.Status, lookup, elapsed)

	log.Info("analysis finished",
		logging.String("status", string(rep.Status)),
		logging.String("cache", lookup),
		logging.Int("clusters", len(rep.Clusters)),
		logging.Int("warnings", len(rep.Warnings)),
		logging.Duration("elapsed", elapsed))
	return &rep, nil
}

// compute runs the graph-derived stages. Stages that do not depend on each
// other run concurrently.
func (e *Engine) compute(ctx context.Context, log logging.Logger, g *graph.Graph, cfg types.AnalysisConfig) (*Report, error) {
	if e.onCompute != nil {
		e.onCompute(ctx)
	}

	var (
		rank *ranking.Result
		tm   []temporal.Metrics
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		rank, err = ranking.Compute(egCtx, g, cfg)
		return err
	})
	eg.Go(func() error {
		tm = temporal.Analyze(g, cfg.CurrentYear)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	e.metrics.PageRankIterations.Observe(float64(rank.Iterations))
	e.metrics.GraphNodes.Set(float64(g.Len()))

	clusters, err := cluster.Detect(ctx, g, rank, cfg)
	if err != nil {
		return nil, err
	}

	var (
		trends types.TrendList
		opps   types.OpportunityList
		derive errgroup.Group
	)
	derive.Go(func() error {
		trends = trend.Predict(g, clusters.Clusters, cfg.TrendWindowYears, cfg)
		return nil
	})
	derive.Go(func() error {
		opps = crossdomain.Find(g, clusters.Clusters, cfg)
		return nil
	})
	if err := derive.Wait(); err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, types.ErrCancelled
	}

	warnings := append(rank.Warnings(), clusters.Warnings()...)
	for _, w := range warnings {
		log.Warn("degraded result", logging.String("code", string(w.Code)), logging.String("detail", w.Detail))
	}

	return &Report{
		GraphHash: g.Hash(),
		Ranking: RankingSummary{
			Converged:          rank.Converged,
			Iterations:         rank.Iterations,
			Delta:              rank.Delta,
			BetweennessSampled: rank.BetweennessSampled,
			BetweennessSources: rank.BetweennessSources,
			ClusterRounds:      clusters.Rounds,
		},
		Nodes:           nodeMetrics(g, rank, tm),
		Clusters:        clusters.Clusters,
		Unclustered:     clusters.Unclustered,
		Trends:          trends,
		Opportunities:   opps,
		Breakthroughs:   breakthrough.Detect(g, rank, tm, cfg),
		Thresholds:      breakthrough.ComputeThresholds(g, rank, tm, cfg),
		graph:           g,
		rank:            rank,
		computeWarnings: warnings,
	}, nil
}

// cancelled builds the report of a run whose context was cancelled.
func (e *Engine) cancelled(log logging.Logger, runID string, start time.Time) *Report {
	elapsed := time.Since(start)
	log.Warn("analysis cancelled", logging.Duration("elapsed", elapsed))
	e.metrics.ObserveRun(types.StatusCancelled, "", elapsed)
	return &Report{RunID: runID, Status: types.StatusCancelled, StartedAt: start, Elapsed: elapsed}
}

func (e *Engine) recordDrops(log logging.Logger, dq graph.Report) {
	counts := make(map[graph.IssueCode]int)
	for _, is := range dq.Issues {
		counts[is.Code]++
		log.Debug("record dropped",
			logging.String("code", string(is.Code)),
			logging.String("record", is.Record),
			logging.String("detail", is.Detail))
	}
	for code, n := range counts {
		e.metrics.ObserveDrop(string(code), n)
	}
}

// qualityWarnings turns causality drops into one warning each and folds the
// remaining drops into a single data-quality warning.
func qualityWarnings(dq graph.Report) []types.Warning {
	var ws []types.Warning
	other := 0
	for _, is := range dq.Issues {
		if is.Code == graph.IssueCausalityViolation {
			ws = append(ws, types.Warning{Code: types.WarnCausalityViolation, Subject: is.Record, Detail: is.Detail})
			continue
		}
		other++
	}
	if other > 0 {
		ws = append(ws, types.Warning{
			Code:   types.WarnDataQuality,
			Detail: fmt.Sprintf("%d records dropped; see data_quality", other),
		})
	}
	return ws
}

func nodeMetrics(g *graph.Graph, rank *ranking.Result, tm []temporal.Metrics) []types.NodeMetrics {
	out := make([]types.NodeMetrics, g.Len())
	for i := range out {
		out[i] = types.NodeMetrics{
			PMID:                  g.ID(i),
			InDegree:              g.InDegree(i),
			OutDegree:             g.OutDegree(i),
			PageRank:              rank.PageRank[i],
			BetweennessCentrality: rank.Betweenness[i],
			ClosenessCentrality:   rank.Closeness[i],
			CitationVelocity:      tm[i].Velocity,
			CitationHalfLifeYear:  tm[i].HalfLifeYear,
			PeakCitationYear:      tm[i].PeakYear,
		}
	}
	return out
}

// configHash identifies a normalized config. Workers is excluded since
// results do not depend on it.
func configHash(cfg types.AnalysisConfig) (string, error) {
	cfg.Workers = 0
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("hashing config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
