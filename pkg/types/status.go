// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

var (
	// ErrEmptyGraph is returned when no valid paper remains after validation.
	ErrEmptyGraph = errors.New("no valid papers in snapshot")

	// ErrCancelled is returned by iterative computations that observed a
	// cancelled context between iterations. Partial results are discarded.
	ErrCancelled = errors.New("analysis cancelled")
)

// RunStatus is the outcome of an analysis run.
type RunStatus string

const (
	// StatusComplete means every stage finished with full confidence.
	StatusComplete RunStatus = "complete"

	// StatusDegraded means results are usable but carry warnings, such as
	// PageRank not converging or betweenness being sampled.
	StatusDegraded RunStatus = "degraded"

	// StatusCancelled means the run was cancelled and holds no results.
	StatusCancelled RunStatus = "cancelled"
)

// ReasonCode tags an empty result so callers can branch on why it is empty.
type ReasonCode string

const (
	ReasonNone             ReasonCode = ""
	ReasonInsufficientData ReasonCode = "INSUFFICIENT_DATA"
	ReasonNoCandidates     ReasonCode = "NO_CANDIDATES"
	ReasonNoBridges        ReasonCode = "NO_BRIDGES"
	ReasonUnknownUser      ReasonCode = "UNKNOWN_USER"
)

// WarningCode classifies a non-fatal condition raised during a run.
type WarningCode string

const (
	WarnCausalityViolation  WarningCode = "causality_violation"
	WarnDataQuality         WarningCode = "data_quality"
	WarnConvergence         WarningCode = "convergence"
	WarnBetweennessSampled  WarningCode = "betweenness_sampled"
	WarnClusterIterationCap WarningCode = "cluster_iteration_cap"
)

// Warning is a typed, non-fatal condition attached to a run report.
type Warning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Subject string      `json:"subject,omitempty" yaml:"subject,omitempty"`
	Detail  string      `json:"detail" yaml:"detail"`
}
