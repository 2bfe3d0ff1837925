// Package schema has the domain models, report structures and enumerations
// shared by all parts of sprintlens.
package schema

import "time"

// Assignee identifies the person an issue is assigned to.
// AccountID is the stable identifier; DisplayName is for humans only.
type Assignee struct {
	DisplayName string `json:"display_name"`
	AccountID   string `json:"account_id"`
}

// ChangeEntry is one field-level change from an issue changelog, ordered by
// occurrence. Only entries whose Field is "status" are consulted by the
// transition resolver.
type ChangeEntry struct {
	At     time.Time `json:"at"`
	Author string    `json:"author"`
	Field  string    `json:"field"`
	From   string    `json:"from"`
	To     string    `json:"to"`
}

// Issue is a trackable work item fetched from the tracker. It is constructed
// fresh from an API response at the start of a run and discarded at process
// exit; the only durable artifact is the rendered report.
type Issue struct {
	Key         string        `json:"key"`
	Summary     string        `json:"summary"`
	Type        string        `json:"type"`
	Status      string        `json:"status"`
	Points      *float64      `json:"points,omitempty"`
	Assignee    *Assignee     `json:"assignee,omitempty"`
	Priority    string        `json:"priority,omitempty"`
	FixVersions []string      `json:"fix_versions,omitempty"`
	Team        string        `json:"team,omitempty"`
	EpicKey     string        `json:"epic_key,omitempty"`
	Created     time.Time     `json:"created"`
	Updated     time.Time     `json:"updated"`
	History     []ChangeEntry `json:"history,omitempty"`
}

// NormalizedIssue is an Issue after point normalization and status-category
// resolution. Defaulted records that the point value was assumed rather than
// measured, so reports can surface the two totals separately.
type NormalizedIssue struct {
	Issue
	NormPoints float64 `json:"norm_points"`
	Defaulted  bool    `json:"defaulted"`
	Category   string  `json:"category"`
}

// Bucket holds the running count and point sum for one distinct key of a
// partition, plus its share of the partition total.
type Bucket struct {
	Key            string  `json:"key"`
	Count          int     `json:"count"`
	Points         float64 `json:"points"`
	PercentOfTotal float64 `json:"percent_of_total"`
}

// VelocitySnapshot captures the point-in-time burn state of a sprint.
type VelocitySnapshot struct {
	Sprint             string    `json:"sprint"`
	TakenAt            time.Time `json:"taken_at"`
	StartDate          time.Time `json:"start_date"`
	TotalWorkingDays   int       `json:"total_working_days"`
	ElapsedWorkingDays int       `json:"elapsed_working_days"`
	CommittedPoints    float64   `json:"committed_points"`
	DeliveredPoints    float64   `json:"delivered_points"`
	TargetVelocity     float64   `json:"target_velocity"`
	CurrentVelocity    float64   `json:"current_velocity"`
	PredictedTotal     int       `json:"predicted_total"`
	UpliftNeededPct    float64   `json:"uplift_needed_pct"`
}

// SnapshotDelta is the change between a snapshot and the previous one stored
// in the archive for the same sprint. Nil fields mean no prior snapshot.
type SnapshotDelta struct {
	DeliveredDelta *float64 `json:"delivered_delta,omitempty"`
	CommittedDelta *float64 `json:"committed_delta,omitempty"`
	VelocityDelta  *float64 `json:"velocity_delta,omitempty"`
}

// DailyTarget is one day of the S-curve burn distribution.
type DailyTarget struct {
	Day    int     `json:"day"`    // 1-based working-day index
	Share  float64 `json:"share"`  // fraction of the committed total
	Points float64 `json:"points"` // absolute target, rounded to 2 decimals
}

// OverrunProjection walks the calendar to a deadline and reports how far the
// sprint is ahead of or behind schedule. OverrunDays is nil when the current
// velocity is zero: the projection is unknown, not "on schedule".
type OverrunProjection struct {
	RemainingPoints      float64  `json:"remaining_points"`
	WorkingDaysRemaining int      `json:"working_days_remaining"`
	DaysNeeded           float64  `json:"days_needed"`
	OverrunDays          *int     `json:"overrun_days,omitempty"`
}

// SprintReport is the fully-resolved result of a report run. It is a plain,
// JSON-serializable structure with no pending I/O so rendering is a pure
// function of it.
type SprintReport struct {
	Sprint         string            `json:"sprint"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Dimension      Dimension         `json:"dimension"`
	IssueCount     int               `json:"issue_count"`
	SkippedCount   int               `json:"skipped_count"`
	TotalPoints    float64           `json:"total_points"`
	MeasuredPoints float64           `json:"measured_points"`
	AssumedPoints  float64           `json:"assumed_points"`
	Buckets        []Bucket          `json:"buckets"`
	Velocity       *VelocitySnapshot `json:"velocity,omitempty"`
	Delta          *SnapshotDelta    `json:"delta,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// BurndownReport is the fully-resolved result of a burndown run.
type BurndownReport struct {
	Sprint      string             `json:"sprint"`
	GeneratedAt time.Time          `json:"generated_at"`
	Velocity    VelocitySnapshot   `json:"velocity"`
	DailyPlan   []DailyTarget      `json:"daily_plan"`
	Overrun     *OverrunProjection `json:"overrun,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}
