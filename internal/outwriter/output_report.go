package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSprintReport outputs the sprint report, dispatching based on the
// output format configured.
func PrintSprintReport(report *schema.SprintReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ExcelOut:
		return writeReportExcel(report, cfg, fmtFloat)
	case schema.PDFOut:
		return writeReportPDF(report, cfg, fmtFloat)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(report *schema.SprintReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{string(report.Dimension), "Issues", "Points", "% of Total"}
	table.Header(headers)

	// 2. Configure numeric alignment for a minimal look
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxKeyWidth := GetMaxTableKeyWidth(cfg)
	var data [][]string
	for _, b := range report.Buckets {
		row := []string{
			TruncateKey(b.Key, maxKeyWidth),    // Bucket key
			fmt.Sprintf(intFmt, b.Count),       // Issue count
			fmtFloat(b.Points),                 // Point sum
			fmtFloat(b.PercentOfTotal) + "%",   // Share of the partition
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Summary footer
	if _, err := fmt.Fprintf(writer, "Sprint %s: %d issues, %s points total (%s measured, %s assumed)\n",
		report.Sprint, report.IssueCount,
		fmtFloat(report.TotalPoints), fmtFloat(report.MeasuredPoints), fmtFloat(report.AssumedPoints)); err != nil {
		return err
	}
	if report.SkippedCount > 0 {
		if _, err := fmt.Fprintf(writer, "Skipped %d issues whose details could not be fetched\n", report.SkippedCount); err != nil {
			return err
		}
	}
	if report.Velocity != nil {
		if err := writeVelocityLines(writer, report.Velocity, report.Delta, cfg, fmtFloat); err != nil {
			return err
		}
	}
	for _, warning := range report.Warnings {
		if _, err := fmt.Fprintf(writer, "Warning: %s\n", warning); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Report completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeVelocityLines prints the velocity block shared by the report and
// burndown tables.
func writeVelocityLines(writer io.Writer, v *schema.VelocitySnapshot, delta *schema.SnapshotDelta, cfg *contract.Config, fmtFloat func(float64) string) error {
	health := contract.GetPlainHealth(v.PredictedTotal, v.CommittedPoints)
	if cfg.UseColors {
		health = contract.GetColorHealth(v.PredictedTotal, v.CommittedPoints)
	}
	if _, err := fmt.Fprintf(writer, "Velocity: target %s/day, current %s/day, predicted %d of %s points [%s]\n",
		fmtFloat(v.TargetVelocity), fmtFloat(v.CurrentVelocity),
		v.PredictedTotal, fmtFloat(v.CommittedPoints), health); err != nil {
		return err
	}
	if v.UpliftNeededPct > 0 {
		if _, err := fmt.Fprintf(writer, "Uplift needed to land the commitment: %s%%\n", fmtFloat(v.UpliftNeededPct)); err != nil {
			return err
		}
	}
	if delta != nil && delta.DeliveredDelta != nil {
		if _, err := fmt.Fprintf(writer, "Since last snapshot: delivered %+.1f, committed %+.1f, velocity %+.2f\n",
			*delta.DeliveredDelta, deref(delta.CommittedDelta), deref(delta.VelocityDelta)); err != nil {
			return err
		}
	}
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// writeReportCSV writes the report buckets in CSV format.
func writeReportCSV(w io.Writer, report *schema.SprintReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"sprint",
		"dimension",
		"key",
		"issues",
		"points",
		"percent_of_total",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, b := range report.Buckets {
			rec := []string{
				report.Sprint,                  // Sprint label
				string(report.Dimension),       // Partition dimension
				b.Key,                          // Bucket key
				fmt.Sprintf(intFmt, b.Count),   // Issue count
				fmtFloat(b.Points),             // Point sum
				fmtFloat(b.PercentOfTotal),     // Share of the partition
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// reportBucketRows flattens buckets into string rows for the binary formats.
func reportBucketRows(report *schema.SprintReport, fmtFloat func(float64) string) [][]string {
	rows := make([][]string, 0, len(report.Buckets))
	for _, b := range report.Buckets {
		rows = append(rows, []string{
			b.Key,
			strconv.Itoa(b.Count),
			fmtFloat(b.Points),
			fmtFloat(b.PercentOfTotal) + "%",
		})
	}
	return rows
}
