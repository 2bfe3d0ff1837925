package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprintlens/sprintlens/core"
	"github.com/sprintlens/sprintlens/internal/contract"
)

// burndownCmd builds the daily burn plan and overrun projection.
var burndownCmd = &cobra.Command{
	Use:   "burndown [sprint]",
	Short: "Show the S-curve daily burn plan for a sprint.",
	Long: `Project how the sprint's committed points should burn down day by day.

The plan follows an S-curve: slow start while work ramps up, peak burn
mid-sprint, and a taper at the end. Weekends are excluded; targets cover
working days only. The projection also estimates whether the sprint will
overrun its deadline at the current delivery velocity.

Requires the sprint calendar (--sprint-start and --sprint-end).

Examples:
  # Daily targets for a two-week sprint
  sprintlens burndown "Sprint 42" --project PLAT --sprint-start 2026-08-17 --sprint-end 2026-08-28

  # Machine-readable plan for dashboards
  sprintlens burndown "Sprint 42" --project PLAT --sprint-start 2026-08-17 --sprint-end 2026-08-28 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	PostRun: closeStore,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBurndown(rootCtx, client, cfg, log); err != nil {
			contract.LogFatal("Cannot build burndown", err)
		}
	},
}
