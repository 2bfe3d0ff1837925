// Package contract provides interfaces and shared configuration for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/sprintlens/sprintlens/schema"
)

// JiraClient defines the tracker operations the core pipeline needs.
// This allows the fetch and aggregation logic to be tested without a live
// JIRA instance.
type JiraClient interface {
	// SearchIssues runs a JQL search and returns the matching issues with the
	// requested fields. A zero-match search returns an empty slice, not an error.
	SearchIssues(ctx context.Context, jql string, maxResults int) ([]schema.Issue, error)

	// IssueDetail fetches the full record for one issue, expanding the
	// changelog when requested.
	IssueDetail(ctx context.Context, key string, expandChangelog bool) (*schema.Issue, error)

	// FieldTable returns the display-name to field-id mapping discovered from
	// the tracker, used to locate the story-point custom field.
	FieldTable(ctx context.Context) (map[string]string, error)
}

// SnapshotStore defines the interface for the durable sprint-snapshot archive.
// This allows the archive layer to be mocked for testing.
type SnapshotStore interface {
	// Record appends one velocity snapshot to the archive.
	Record(ctx context.Context, snap schema.VelocitySnapshot) error

	// Latest returns the most recent snapshot for a sprint taken before
	// the given time, or nil when the archive has none.
	Latest(ctx context.Context, sprint string, before time.Time) (*schema.VelocitySnapshot, error)

	// List returns up to limit snapshots for a sprint, newest first.
	// An empty sprint lists snapshots across all sprints.
	List(ctx context.Context, sprint string, limit int) ([]schema.VelocitySnapshot, error)

	// Status returns row counts and backend information for operator display.
	Status(ctx context.Context) (SnapshotStatus, error)

	// Clear removes all archived snapshots.
	Clear(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}

// SnapshotStatus holds archive statistics for operator display.
type SnapshotStatus struct {
	Backend       schema.DatabaseBackend
	Enabled       bool
	SnapshotCount int
	SprintCount   int
	OldestTakenAt time.Time
	NewestTakenAt time.Time
}
