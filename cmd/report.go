package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprintlens/sprintlens/core"
	"github.com/sprintlens/sprintlens/internal/contract"
)

// reportCmd builds the sprint story-point report.
var reportCmd = &cobra.Command{
	Use:   "report [sprint]",
	Short: "Show point totals and velocity for a sprint.",
	Long: `Fetch a sprint's issues from JIRA and aggregate their story points.

Points are normalized before aggregation: estimable issue types (Story, Bug
by default) with no estimate receive a configurable fallback so committed
scope is never silently undercounted. The report separates measured points
from assumed points.

Results are grouped along one dimension (status category by default) and
can include a velocity projection when the sprint calendar is configured.

Examples:
  # Report on a sprint by name
  sprintlens report "Sprint 42" --project PLAT

  # Break the sprint down by assignee
  sprintlens report "Sprint 42" --project PLAT --by assignee

  # Include velocity against the sprint calendar
  sprintlens report "Sprint 42" --project PLAT --sprint-start 2026-08-17 --sprint-end 2026-08-28

  # Export to CSV for tracking
  sprintlens report "Sprint 42" --project PLAT --output csv --output-file sprint42.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	PostRun: closeStore,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, client, store, cfg, log); err != nil {
			contract.LogFatal("Cannot build sprint report", err)
		}
	},
}
