package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sprintlens/sprintlens/core"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/internal/snapstore"
	"github.com/sprintlens/sprintlens/schema"
)

// snapshotSetup loads minimal configuration needed for archive operations.
// This is used by commands that need archive access without tracker
// credentials or full shared setup.
func snapshotSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get archive-related config values
	backendStr := viper.GetString("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	var err error
	store, err = snapstore.New(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot archive: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for archive commands.
func snapshotSetupWrapper(_ *cobra.Command, args []string) error {
	if err := snapshotSetup(); err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Sprint = args[0]
	}
	return nil
}

// snapshotMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the store or create tables,
// allowing migrations to run on a fresh database.
func snapshotMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = snapstore.DefaultDBFilePath()
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr

	return nil
}

// snapshotCmd focused on snapshot archive management.
//
// Note: most snapshot subcommands use minimal initialization (snapshotSetup)
// instead of the full sharedSetup. This avoids requiring tracker credentials
// for local archive operations. Only 'record' talks to the tracker.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the historical velocity snapshot archive",
	Long: `Manage archived velocity snapshots used for sprint-over-sprint deltas.

When enabled, sprintlens can archive each sprint's velocity state, storing:
- Committed and delivered point totals
- Target, current and predicted velocity
- The sprint calendar the numbers were computed against

Reports for the same sprint then show what changed since the last snapshot.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show archive statistics
  record  - Fetch the sprint and archive its current velocity
  clear   - Remove all archived snapshots
  migrate - Run database schema migrations
  export  - Export snapshots to Parquet for analytics

Examples:
  # Check archive status
  sprintlens snapshot status --snapshot-backend sqlite

  # Archive today's velocity for a sprint
  sprintlens snapshot record "Sprint 42" --project PLAT --snapshot-backend sqlite \
    --sprint-start 2026-08-17 --sprint-end 2026-08-28

  # Export for analysis in pandas/DuckDB
  sprintlens snapshot export --snapshot-backend sqlite --output-file snapshots.parquet`,
}

// snapshotStatusCmd shows archive statistics.
var snapshotStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show snapshot archive statistics",
	PreRunE: snapshotSetupWrapper,
	PostRun: closeStore,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := store.Status(rootCtx)
		if err != nil {
			return err
		}
		if !status.Enabled {
			cmd.Println("Snapshot archive is disabled (backend: none)")
			return nil
		}
		cmd.Printf("Backend:   %s\n", status.Backend)
		cmd.Printf("Snapshots: %d\n", status.SnapshotCount)
		cmd.Printf("Sprints:   %d\n", status.SprintCount)
		if status.SnapshotCount > 0 {
			cmd.Printf("Oldest:    %s\n", status.OldestTakenAt.Format(contract.DateFormat))
			cmd.Printf("Newest:    %s\n", status.NewestTakenAt.Format(contract.DateFormat))
		}
		return nil
	},
}

// snapshotRecordCmd archives the current velocity state of a sprint.
var snapshotRecordCmd = &cobra.Command{
	Use:     "record [sprint]",
	Short:   "Fetch the sprint and archive its current velocity",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	PostRun: closeStore,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotRecord(rootCtx, client, store, cfg, log); err != nil {
			contract.LogFatal("Cannot record snapshot", err)
		}
	},
}

// snapshotClearCmd removes all archived snapshots.
var snapshotClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all archived snapshots",
	PreRunE: snapshotSetupWrapper,
	PostRun: closeStore,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := store.Clear(rootCtx); err != nil {
			return err
		}
		cmd.Println("Snapshot archive cleared")
		return nil
	},
}

// snapshotMigrateCmd runs schema migrations for the archive database.
var snapshotMigrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Run snapshot archive schema migrations",
	PreRunE: snapshotMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		return snapstore.Migrate(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion)
	},
}

// snapshotExportCmd exports archived snapshots to Parquet.
var snapshotExportCmd = &cobra.Command{
	Use:     "export [sprint]",
	Short:   "Export archived snapshots to Parquet",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: snapshotSetupWrapper,
	PostRun: closeStore,
	RunE: func(_ *cobra.Command, _ []string) error {
		return snapstore.ExecuteExport(rootCtx, store, cfg.Sprint, cfg.OutputFile)
	},
}
