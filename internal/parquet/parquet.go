// Package parquet provides data structures and functions for exporting
// archived sprint snapshots to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/sprintlens/sprintlens/schema"
)

// SprintSnapshot represents one archived velocity snapshot.
// This struct maps to the sprint_snapshots database table.
type SprintSnapshot struct {
	// Sprint is the sprint label the snapshot was taken for
	Sprint string `parquet:"sprint,snappy"`

	// TakenAt is when the snapshot was recorded (stored as TIMESTAMP with nanosecond precision)
	TakenAt time.Time `parquet:"taken_at,snappy"`

	// StartDate is the first day of the sprint
	StartDate time.Time `parquet:"start_date,snappy"`

	// TotalWorkingDays is the number of weekdays in the sprint window
	TotalWorkingDays int32 `parquet:"total_working_days,snappy"`

	// ElapsedWorkingDays is the number of weekdays elapsed when the snapshot was taken
	ElapsedWorkingDays int32 `parquet:"elapsed_working_days,snappy"`

	// CommittedPoints is the normalized point total in scope
	CommittedPoints float64 `parquet:"committed_points,snappy"`

	// DeliveredPoints is the point total completed by snapshot time
	DeliveredPoints float64 `parquet:"delivered_points,snappy"`

	// TargetVelocity is points per working day needed to land the commitment
	TargetVelocity float64 `parquet:"target_velocity,snappy"`

	// CurrentVelocity is points per elapsed working day actually delivered
	CurrentVelocity float64 `parquet:"current_velocity,snappy"`

	// PredictedTotal is the projected delivery at current velocity
	PredictedTotal int32 `parquet:"predicted_total,snappy"`

	// UpliftNeededPct is the velocity increase needed to still land on time
	UpliftNeededPct float64 `parquet:"uplift_needed_pct,snappy"`
}

// ConvertSnapshotRecords converts snapshot rows to their Parquet representation.
func ConvertSnapshotRecords(snaps []schema.VelocitySnapshot) []SprintSnapshot {
	out := make([]SprintSnapshot, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, SprintSnapshot{
			Sprint:             s.Sprint,
			TakenAt:            s.TakenAt,
			StartDate:          s.StartDate,
			TotalWorkingDays:   int32(s.TotalWorkingDays),
			ElapsedWorkingDays: int32(s.ElapsedWorkingDays),
			CommittedPoints:    s.CommittedPoints,
			DeliveredPoints:    s.DeliveredPoints,
			TargetVelocity:     s.TargetVelocity,
			CurrentVelocity:    s.CurrentVelocity,
			PredictedTotal:     int32(s.PredictedTotal),
			UpliftNeededPct:    s.UpliftNeededPct,
		})
	}
	return out
}

// WriteSnapshotsParquet writes a slice of SprintSnapshot structs to a Parquet file.
func WriteSnapshotsParquet(data []SprintSnapshot, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the SprintSnapshot struct tags
	writer := parquet.NewGenericWriter[SprintSnapshot](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
