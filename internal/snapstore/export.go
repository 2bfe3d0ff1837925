package snapstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/internal/parquet"
)

// exportListLimit bounds how many archived rows a single export pulls.
const exportListLimit = 10000

// ExecuteExport writes the archived snapshots to a Parquet file.
func ExecuteExport(ctx context.Context, store contract.SnapshotStore, sprint, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get archive status: %w", err)
	}

	if status.SnapshotCount == 0 {
		return errors.New("no archived snapshots found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d across %d sprints\n", status.SnapshotCount, status.SprintCount)

	snaps, err := store.List(ctx, sprint, exportListLimit)
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}

	records := parquet.ConvertSnapshotRecords(snaps)
	if err := parquet.WriteSnapshotsParquet(records, outputFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	fmt.Printf("Exported %d snapshots to: %s\n", len(records), outputFile)

	fmt.Println("\nExport complete! The Parquet file can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
