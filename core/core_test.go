package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reportFixtureClient wires the canonical three-issue sprint: one estimated
// and closed, one unestimated story in dev, one whose detail fetch fails.
func reportFixtureClient(t *testing.T) *contract.MockJiraClient {
	t.Helper()
	client := &contract.MockJiraClient{}

	stubs := []schema.Issue{{Key: "PLAT-1"}, {Key: "PLAT-2"}, {Key: "PLAT-3"}}
	client.On("SearchIssues", mock.Anything, mock.Anything, mock.Anything).Return(stubs, nil)

	issueA := &schema.Issue{
		Key: "PLAT-1", Type: "Story", Status: "Closed", Points: ptr(5),
		Created: day(2026, 8, 17),
		History: []schema.ChangeEntry{statusChange(day(2026, 8, 20), "In Progress", "Closed")},
	}
	issueB := &schema.Issue{
		Key: "PLAT-2", Type: "Story", Status: "In Dev", Points: ptr(0),
		Created: day(2026, 8, 17),
	}
	client.On("IssueDetail", mock.Anything, "PLAT-1", true).Return(issueA, nil)
	client.On("IssueDetail", mock.Anything, "PLAT-2", true).Return(issueB, nil)
	client.On("IssueDetail", mock.Anything, "PLAT-3", true).Return(nil, errors.New("503 from tracker"))
	return client
}

func TestBuildSprintReport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sprint = "Sprint 42"
	cfg.JQL = `sprint = "Sprint 42"`
	cfg.Workers = 2
	cfg.MaxResults = 100
	now := day(2026, 8, 26)

	client := reportFixtureClient(t)
	report, err := BuildSprintReport(context.Background(), client, nil, cfg, now, zerolog.Nop())
	require.NoError(t, err)

	t.Run("totals split measured and assumed", func(t *testing.T) {
		assert.Equal(t, 2, report.IssueCount)
		assert.Equal(t, 1, report.SkippedCount)
		assert.Equal(t, 7.0, report.TotalPoints)
		assert.Equal(t, 5.0, report.MeasuredPoints)
		assert.Equal(t, 2.0, report.AssumedPoints)
	})

	t.Run("skipped issue produces a warning", func(t *testing.T) {
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "PLAT-3")
	})

	t.Run("buckets partition the issue set", func(t *testing.T) {
		var count int
		var points float64
		for _, b := range report.Buckets {
			count += b.Count
			points += b.Points
		}
		assert.Equal(t, report.IssueCount, count)
		assert.InDelta(t, report.TotalPoints, points, 1e-9)
	})

	t.Run("no calendar means no velocity", func(t *testing.T) {
		assert.Nil(t, report.Velocity)
		assert.Nil(t, report.Delta)
	})
}

func TestBuildSprintReportWithVelocity(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sprint = "Sprint 42"
	cfg.JQL = `sprint = "Sprint 42"`
	cfg.Workers = 2
	cfg.MaxResults = 100
	cfg.SprintStart = day(2026, 8, 17)
	cfg.SprintEnd = day(2026, 8, 28)
	now := day(2026, 8, 21) // Friday of week one: 5 elapsed working days

	client := reportFixtureClient(t)
	store := &contract.MockSnapshotStore{}
	prev := &schema.VelocitySnapshot{Sprint: "Sprint 42", DeliveredPoints: 2, CommittedPoints: 7, CurrentVelocity: 0.5}
	store.On("Latest", mock.Anything, "Sprint 42", now).Return(prev, nil)

	report, err := BuildSprintReport(context.Background(), client, store, cfg, now, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, report.Velocity)

	v := report.Velocity
	assert.Equal(t, 10, v.TotalWorkingDays)
	assert.Equal(t, 5, v.ElapsedWorkingDays)
	assert.Equal(t, 7.0, v.CommittedPoints)
	assert.Equal(t, 5.0, v.DeliveredPoints) // only the closed issue delivered
	assert.InDelta(t, 1.0, v.CurrentVelocity, 1e-9)
	assert.Equal(t, 10, v.PredictedTotal)

	require.NotNil(t, report.Delta)
	require.NotNil(t, report.Delta.DeliveredDelta)
	assert.InDelta(t, 3.0, *report.Delta.DeliveredDelta, 1e-9)
	store.AssertExpectations(t)
}

func TestBuildSprintReportSearchFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.JQL = "project = PLAT"
	cfg.Workers = 2

	client := &contract.MockJiraClient{}
	client.On("SearchIssues", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := BuildSprintReport(context.Background(), client, nil, cfg, time.Now(), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue search failed")
}

func TestBuildSprintReportEmptySearch(t *testing.T) {
	cfg := testConfig(t)
	cfg.JQL = "project = PLAT"
	cfg.Workers = 2

	client := &contract.MockJiraClient{}
	client.On("SearchIssues", mock.Anything, mock.Anything, mock.Anything).
		Return([]schema.Issue{}, nil)

	report, err := BuildSprintReport(context.Background(), client, nil, cfg, time.Now(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, report.IssueCount)
	assert.Equal(t, 0.0, report.TotalPoints)
	assert.Empty(t, report.Buckets)
}

func TestBuildBurndownReport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sprint = "Sprint 42"
	cfg.JQL = `sprint = "Sprint 42"`
	cfg.Workers = 2
	cfg.MaxResults = 100

	t.Run("calendar is required", func(t *testing.T) {
		client := reportFixtureClient(t)
		_, err := BuildBurndownReport(context.Background(), client, cfg, day(2026, 8, 21), zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sprint calendar")
	})

	cfg.SprintStart = day(2026, 8, 17)
	cfg.SprintEnd = day(2026, 8, 28)

	t.Run("daily plan sums to the commitment", func(t *testing.T) {
		client := reportFixtureClient(t)
		report, err := BuildBurndownReport(context.Background(), client, cfg, day(2026, 8, 21), zerolog.Nop())
		require.NoError(t, err)

		require.Len(t, report.DailyPlan, 10)
		var sum float64
		for _, dayTarget := range report.DailyPlan {
			sum += dayTarget.Points
		}
		assert.InDelta(t, report.Velocity.CommittedPoints, sum, 1e-9)

		require.NotNil(t, report.Overrun)
		assert.Equal(t, 6, report.Overrun.WorkingDaysRemaining)
	})
}

func TestFetchIssuesOrderIndependence(t *testing.T) {
	cfg := testConfig(t)
	cfg.JQL = "project = PLAT"
	cfg.Workers = 4

	client := &contract.MockJiraClient{}
	stubs := []schema.Issue{{Key: "PLAT-9"}, {Key: "PLAT-1"}, {Key: "PLAT-5"}}
	client.On("SearchIssues", mock.Anything, mock.Anything, mock.Anything).Return(stubs, nil)
	for _, stub := range stubs {
		key := stub.Key
		client.On("IssueDetail", mock.Anything, key, true).Return(&schema.Issue{Key: key, Type: "Story"}, nil)
	}

	issues, warnings, err := FetchIssues(context.Background(), client, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, issues, 3)
	assert.Equal(t, "PLAT-1", issues[0].Key)
	assert.Equal(t, "PLAT-5", issues[1].Key)
	assert.Equal(t, "PLAT-9", issues[2].Key)
}

func TestDeliveredPoints(t *testing.T) {
	cfg := testConfig(t)
	issues := []schema.NormalizedIssue{
		{
			Issue: schema.Issue{
				Key: "PLAT-1", Status: "Closed",
				History: []schema.ChangeEntry{statusChange(day(2026, 8, 20), "In Progress", "Closed")},
			},
			NormPoints: 5,
		},
		{
			Issue:      schema.Issue{Key: "PLAT-2", Status: "In Dev", Created: day(2026, 8, 17)},
			NormPoints: 2,
		},
		{
			// Created directly in Done; no changelog, fallback applies.
			Issue:      schema.Issue{Key: "PLAT-3", Status: "Done", Created: day(2026, 8, 18)},
			NormPoints: 3,
		},
	}
	assert.InDelta(t, 8.0, DeliveredPoints(issues, cfg), 1e-9)
}
