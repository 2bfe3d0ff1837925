// Package core orchestrates the report pipeline: fetch, normalize, resolve
// status history, aggregate and project. Every run is a single stateless
// batch; the only durable artifact is the rendered report (and, when
// enabled, the snapshot archive row).
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sprintlens/sprintlens/core/agg"
	"github.com/sprintlens/sprintlens/core/velocity"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
)

// errMissingCalendar rejects snapshot recording without a sprint calendar.
var errMissingCalendar = fmt.Errorf("velocity needs the sprint calendar: set --sprint-start and --sprint-end")

// BuildSprintReport runs the full pipeline and returns a fully-resolved,
// JSON-serializable report. store may be nil when the snapshot archive is
// disabled; now is injected for testability.
func BuildSprintReport(ctx context.Context, client contract.JiraClient, store contract.SnapshotStore, cfg *contract.Config, now time.Time, log zerolog.Logger) (*schema.SprintReport, error) {
	raw, warnings, err := FetchIssues(ctx, client, cfg, log)
	if err != nil {
		return nil, err
	}

	issues := normalizeAll(FilterTypes(raw, cfg), cfg)
	total, measured, assumed := agg.Totals(issues)

	report := &schema.SprintReport{
		Sprint:         cfg.Sprint,
		GeneratedAt:    now,
		Dimension:      cfg.Dimension,
		IssueCount:     len(issues),
		SkippedCount:   len(warnings),
		TotalPoints:    total,
		MeasuredPoints: measured,
		AssumedPoints:  assumed,
		Buckets:        agg.Aggregate(issues, agg.KeyForDimension(cfg.Dimension)),
		Warnings:       warnings,
	}

	if !cfg.SprintStart.IsZero() && !cfg.SprintEnd.IsZero() {
		snap := buildVelocity(issues, cfg, now)
		report.Velocity = &snap
		if store != nil {
			report.Delta = snapshotDelta(ctx, store, snap, log)
		}
	}

	// The run summary is printed even for partial-failure runs.
	log.Info().
		Int("issues", report.IssueCount).
		Int("skipped", report.SkippedCount).
		Float64("points", report.TotalPoints).
		Float64("assumed", report.AssumedPoints).
		Msg("sprint report built")
	return report, nil
}

// BuildBurndownReport computes the S-curve daily plan and the overrun
// projection for a sprint. It requires the sprint calendar to be configured.
func BuildBurndownReport(ctx context.Context, client contract.JiraClient, cfg *contract.Config, now time.Time, log zerolog.Logger) (*schema.BurndownReport, error) {
	if cfg.SprintStart.IsZero() || cfg.SprintEnd.IsZero() {
		return nil, fmt.Errorf("burndown needs the sprint calendar: set --sprint-start and --sprint-end")
	}

	raw, warnings, err := FetchIssues(ctx, client, cfg, log)
	if err != nil {
		return nil, err
	}
	issues := normalizeAll(FilterTypes(raw, cfg), cfg)

	snap := buildVelocity(issues, cfg, now)
	overrun := velocity.Project(
		snap.CommittedPoints-snap.DeliveredPoints,
		snap.CurrentVelocity,
		WorkingDaysRemaining(now, cfg.SprintEnd),
	)

	report := &schema.BurndownReport{
		Sprint:      cfg.Sprint,
		GeneratedAt: now,
		Velocity:    snap,
		DailyPlan:   velocity.Distribute(snap.CommittedPoints, snap.TotalWorkingDays),
		Overrun:     &overrun,
		Warnings:    warnings,
	}

	log.Info().
		Int("issues", len(issues)).
		Int("skipped", len(warnings)).
		Float64("committed", snap.CommittedPoints).
		Float64("delivered", snap.DeliveredPoints).
		Msg("burndown report built")
	return report, nil
}

// normalizeAll applies point and category normalization to every issue.
func normalizeAll(raw []schema.Issue, cfg *contract.Config) []schema.NormalizedIssue {
	issues := make([]schema.NormalizedIssue, 0, len(raw))
	for _, issue := range raw {
		issues = append(issues, Normalize(issue, cfg))
	}
	return issues
}

// DeliveredPoints sums the points of issues that transitioned into one of
// the completed target statuses within the configured window, under the
// configured resolution policy. The current-status fallback covers issues
// created directly in a completed status.
func DeliveredPoints(issues []schema.NormalizedIssue, cfg *contract.Config) float64 {
	window := Window{From: cfg.WindowFrom, To: cfg.WindowTo}
	var delivered float64
	for i := range issues {
		if at := ResolveTransitionOrCurrent(&issues[i].Issue, cfg.CompletedTargets, window, cfg.Policy); at != nil {
			delivered += issues[i].NormPoints
		}
	}
	return delivered
}

// buildVelocity derives the sprint's velocity snapshot from the normalized
// issue set and the configured calendar.
func buildVelocity(issues []schema.NormalizedIssue, cfg *contract.Config, now time.Time) schema.VelocitySnapshot {
	committed, _, _ := agg.Totals(issues)
	delivered := DeliveredPoints(issues, cfg)

	totalDays := CountWorkingDays(cfg.SprintStart, cfg.SprintEnd)
	elapsedEnd := now
	if elapsedEnd.After(cfg.SprintEnd) {
		elapsedEnd = cfg.SprintEnd
	}
	elapsed := CountWorkingDays(cfg.SprintStart, elapsedEnd)

	return velocity.BuildSnapshot(cfg.Sprint, cfg.SprintStart, totalDays, elapsed, committed, delivered, now)
}

// snapshotDelta compares a fresh snapshot with the latest archived one for
// the same sprint. Archive failures only cost the delta, never the report.
func snapshotDelta(ctx context.Context, store contract.SnapshotStore, snap schema.VelocitySnapshot, log zerolog.Logger) *schema.SnapshotDelta {
	prev, err := store.Latest(ctx, snap.Sprint, snap.TakenAt)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot archive lookup failed")
		return nil
	}
	if prev == nil {
		return nil
	}
	delivered := snap.DeliveredPoints - prev.DeliveredPoints
	committed := snap.CommittedPoints - prev.CommittedPoints
	vel := snap.CurrentVelocity - prev.CurrentVelocity
	return &schema.SnapshotDelta{
		DeliveredDelta: &delivered,
		CommittedDelta: &committed,
		VelocityDelta:  &vel,
	}
}
