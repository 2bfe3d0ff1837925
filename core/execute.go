package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/internal/outwriter"
)

// ExecuteReport runs the report pipeline and prints the result using the
// configured output format. It serves as the main entry point for the
// 'report' command.
func ExecuteReport(ctx context.Context, client contract.JiraClient, store contract.SnapshotStore, cfg *contract.Config, log zerolog.Logger) error {
	start := time.Now()
	report, err := BuildSprintReport(ctx, client, store, cfg, time.Now().UTC(), log)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteSprintReport(report, cfg, duration)
}

// ExecuteBurndown runs the burndown pipeline and prints the daily plan.
// It serves as the main entry point for the 'burndown' command.
func ExecuteBurndown(ctx context.Context, client contract.JiraClient, cfg *contract.Config, log zerolog.Logger) error {
	start := time.Now()
	report, err := BuildBurndownReport(ctx, client, cfg, time.Now().UTC(), log)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteBurndown(report, cfg, duration)
}

// ExecuteSnapshotRecord runs the report pipeline and archives the resulting
// velocity snapshot. It serves as the main entry point for the
// 'snapshot record' command.
func ExecuteSnapshotRecord(ctx context.Context, client contract.JiraClient, store contract.SnapshotStore, cfg *contract.Config, log zerolog.Logger) error {
	report, err := BuildSprintReport(ctx, client, store, cfg, time.Now().UTC(), log)
	if err != nil {
		return err
	}
	if report.Velocity == nil {
		return errMissingCalendar
	}
	if err := store.Record(ctx, *report.Velocity); err != nil {
		return err
	}
	log.Info().
		Str("sprint", report.Velocity.Sprint).
		Float64("delivered", report.Velocity.DeliveredPoints).
		Msg("snapshot recorded")
	return nil
}
