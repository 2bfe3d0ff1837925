package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableConfig returns a config tuned for deterministic table output.
func tableConfig() *contract.Config {
	return &contract.Config{
		Precision: 1,
		UseColors: false,
		Workers:   4,
		Width:     100,
	}
}

// fixtureReport builds a small two-bucket report with velocity.
func fixtureReport() *schema.SprintReport {
	return &schema.SprintReport{
		Sprint:         "Sprint 42",
		GeneratedAt:    time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC),
		Dimension:      schema.ByCategory,
		IssueCount:     3,
		SkippedCount:   1,
		TotalPoints:    7,
		MeasuredPoints: 5,
		AssumedPoints:  2,
		Buckets: []schema.Bucket{
			{Key: "Completed", Count: 2, Points: 5, PercentOfTotal: 71.4},
			{Key: "In Dev", Count: 1, Points: 2, PercentOfTotal: 28.6},
		},
		Velocity: &schema.VelocitySnapshot{
			Sprint:          "Sprint 42",
			CommittedPoints: 40,
			TargetVelocity:  4,
			CurrentVelocity: 2.5,
			PredictedTotal:  25,
			UpliftNeededPct: 60,
		},
		Warnings: []string{"PLAT-3: 503 from tracker"},
	}
}

func TestWriteReportTable(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(1)
	require.NoError(t, writeReportTable(fixtureReport(), tableConfig(), fmtFloat, intFmt, 80*time.Millisecond, &buf))

	out := buf.String()
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "71.4%")
	assert.Contains(t, out, "Sprint Sprint 42: 3 issues, 7.0 points total (5.0 measured, 2.0 assumed)")
	assert.Contains(t, out, "Skipped 1 issues")
	assert.Contains(t, out, "predicted 25 of 40.0 points [Off Track]")
	assert.Contains(t, out, "Uplift needed to land the commitment: 60.0%")
	assert.Contains(t, out, "Warning: PLAT-3: 503 from tracker")
	assert.Contains(t, out, "with 4 workers")
}

func TestWriteReportTableDelta(t *testing.T) {
	report := fixtureReport()
	delivered := 3.0
	velocity := 0.75
	report.Delta = &schema.SnapshotDelta{DeliveredDelta: &delivered, VelocityDelta: &velocity}

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(1)
	require.NoError(t, writeReportTable(report, tableConfig(), fmtFloat, intFmt, time.Millisecond, &buf))

	assert.Contains(t, buf.String(), "Since last snapshot: delivered +3.0, committed +0.0, velocity +0.75")
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(1)
	require.NoError(t, writeReportCSV(&buf, fixtureReport(), fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"sprint", "dimension", "key", "issues", "points", "percent_of_total"}, records[0])
	assert.Equal(t, []string{"Sprint 42", "category", "Completed", "2", "5.0", "71.4"}, records[1])
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, fixtureReport()))

	var decoded schema.SprintReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Sprint 42", decoded.Sprint)
	require.Len(t, decoded.Buckets, 2)
	assert.Equal(t, 5.0, decoded.Buckets[0].Points)
	require.NotNil(t, decoded.Velocity)
	assert.Equal(t, 25, decoded.Velocity.PredictedTotal)
}

func TestWriteBurndownTable(t *testing.T) {
	overrun := 2
	report := &schema.BurndownReport{
		Sprint: "Sprint 42",
		Velocity: schema.VelocitySnapshot{
			CommittedPoints: 40,
			TargetVelocity:  4,
			CurrentVelocity: 2.5,
			PredictedTotal:  25,
		},
		DailyPlan: []schema.DailyTarget{
			{Day: 1, Share: 0.4, Points: 16},
			{Day: 2, Share: 0.6, Points: 24},
		},
		Overrun: &schema.OverrunProjection{
			RemainingPoints:      30,
			WorkingDaysRemaining: 10,
			DaysNeeded:           12,
			OverrunDays:          &overrun,
		},
	}

	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writeBurndownTable(report, tableConfig(), fmtFloat, 5*time.Millisecond, &buf))

	out := buf.String()
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, "40.00") // cumulative after day 2
	assert.Contains(t, out, "Overrun: 2 working days past the deadline")
	assert.Contains(t, out, "Burndown completed in")

	t.Run("unknown overrun reads differently", func(t *testing.T) {
		report.Overrun.OverrunDays = nil
		buf.Reset()
		require.NoError(t, writeBurndownTable(report, tableConfig(), fmtFloat, 5*time.Millisecond, &buf))
		assert.Contains(t, buf.String(), "Overrun: unknown, no completions observed yet")
	})

	t.Run("on schedule", func(t *testing.T) {
		zero := 0
		report.Overrun.OverrunDays = &zero
		buf.Reset()
		require.NoError(t, writeBurndownTable(report, tableConfig(), fmtFloat, 5*time.Millisecond, &buf))
		assert.Contains(t, buf.String(), "On schedule:")
	})
}

func TestWriteBurndownCSV(t *testing.T) {
	report := &schema.BurndownReport{
		Sprint: "Sprint 42",
		DailyPlan: []schema.DailyTarget{
			{Day: 1, Share: 0.0532, Points: 5.32},
		},
	}

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(1)
	require.NoError(t, writeBurndownCSV(&buf, report, fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"sprint", "day", "share", "target_points"}, records[0])
	assert.Equal(t, []string{"Sprint 42", "1", "0.0532", "5.32"}, records[1])
}

func TestGetMaxTableKeyWidth(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		assert.Equal(t, 60, GetMaxTableKeyWidth(&contract.Config{Width: 120}))
		assert.Equal(t, 40, GetMaxTableKeyWidth(&contract.Config{Width: 80}))
	})

	t.Run("narrow terminals clamp to the minimum", func(t *testing.T) {
		assert.Equal(t, 12, GetMaxTableKeyWidth(&contract.Config{Width: 45}))
	})

	t.Run("wide terminals clamp to the maximum", func(t *testing.T) {
		assert.Equal(t, 60, GetMaxTableKeyWidth(&contract.Config{Width: 500}))
	})
}

func TestTruncateKey(t *testing.T) {
	assert.Equal(t, "short", TruncateKey("short", 20))
	assert.Equal(t, "a-very-lo...", TruncateKey("a-very-long-bucket-key", 12))
	assert.Equal(t, "ab", TruncateKey("abcdef", 2))
	assert.Len(t, TruncateKey(strings.Repeat("x", 100), 12), 12)
}

// fixtureBurndown builds a small two-day plan with an overrun projection.
func fixtureBurndown() *schema.BurndownReport {
	overrun := 2
	return &schema.BurndownReport{
		Sprint:      "Sprint 42",
		GeneratedAt: time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC),
		Velocity: schema.VelocitySnapshot{
			CommittedPoints: 40,
			DeliveredPoints: 10,
			TargetVelocity:  4,
			CurrentVelocity: 2.5,
			PredictedTotal:  25,
		},
		DailyPlan: []schema.DailyTarget{
			{Day: 1, Share: 0.4, Points: 16},
			{Day: 2, Share: 0.6, Points: 24},
		},
		Overrun: &schema.OverrunProjection{
			RemainingPoints:      30,
			WorkingDaysRemaining: 10,
			DaysNeeded:           12,
			OverrunDays:          &overrun,
		},
	}
}

// requireNonEmptyFile asserts an artifact was written with content.
func requireNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteExcel(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	t.Run("report workbook", func(t *testing.T) {
		cfg := tableConfig()
		cfg.OutputFile = filepath.Join(t.TempDir(), "report.xlsx")
		require.NoError(t, writeReportExcel(fixtureReport(), cfg, fmtFloat))
		requireNonEmptyFile(t, cfg.OutputFile)
	})

	t.Run("burndown workbook", func(t *testing.T) {
		cfg := tableConfig()
		cfg.OutputFile = filepath.Join(t.TempDir(), "plan.xlsx")
		require.NoError(t, writeBurndownExcel(fixtureBurndown(), cfg, fmtFloat))
		requireNonEmptyFile(t, cfg.OutputFile)
	})
}

func TestWritePDF(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	t.Run("report page", func(t *testing.T) {
		cfg := tableConfig()
		cfg.OutputFile = filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, writeReportPDF(fixtureReport(), cfg, fmtFloat))
		requireNonEmptyFile(t, cfg.OutputFile)
	})

	t.Run("burndown page", func(t *testing.T) {
		cfg := tableConfig()
		cfg.OutputFile = filepath.Join(t.TempDir(), "plan.pdf")
		require.NoError(t, writeBurndownPDF(fixtureBurndown(), cfg, fmtFloat))
		requireNonEmptyFile(t, cfg.OutputFile)
	})
}

func TestDefaultArtifactName(t *testing.T) {
	at := time.Date(2026, 8, 21, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "sprintlens_sprint-42_2026-08-21.xlsx", defaultArtifactName("Sprint 42", at, "xlsx"))
	assert.Equal(t, "sprintlens_sprint_2026-08-21.pdf", defaultArtifactName("", at, "pdf"))
}
