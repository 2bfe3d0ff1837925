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

// PrintBurndownReport outputs the burndown plan, dispatching based on the
// output format configured.
func PrintBurndownReport(report *schema.BurndownReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBurndownCSV(w, report, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ExcelOut:
		return writeBurndownExcel(report, cfg, fmtFloat)
	case schema.PDFOut:
		return writeBurndownPDF(report, cfg, fmtFloat)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBurndownTable(report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeBurndownTable generates and writes the human-readable daily plan.
func writeBurndownTable(report *schema.BurndownReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Day", "Share", "Target Points", "Cumulative"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	cumulative := 0.0
	for _, day := range report.DailyPlan {
		cumulative += day.Points
		row := []string{
			strconv.Itoa(day.Day),                       // 1-based working-day index
			fmt.Sprintf("%.1f%%", day.Share*100),        // Share of the committed total
			fmt.Sprintf("%.2f", day.Points),             // Daily target
			fmt.Sprintf("%.2f", cumulative),             // Running total
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	v := report.Velocity
	if err := writeVelocityLines(writer, &v, nil, cfg, fmtFloat); err != nil {
		return err
	}
	if report.Overrun != nil {
		o := report.Overrun
		if o.OverrunDays == nil {
			if _, err := fmt.Fprintf(writer, "Overrun: unknown, no completions observed yet (%s points across %d working days left)\n",
				fmtFloat(o.RemainingPoints), o.WorkingDaysRemaining); err != nil {
				return err
			}
		} else if *o.OverrunDays > 0 {
			if _, err := fmt.Fprintf(writer, "Overrun: %d working days past the deadline at current velocity (need %.1f days for %s points)\n",
				*o.OverrunDays, o.DaysNeeded, fmtFloat(o.RemainingPoints)); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(writer, "On schedule: remaining %s points need %.1f of the %d working days left\n",
				fmtFloat(o.RemainingPoints), o.DaysNeeded, o.WorkingDaysRemaining); err != nil {
				return err
			}
		}
	}
	for _, warning := range report.Warnings {
		if _, err := fmt.Fprintf(writer, "Warning: %s\n", warning); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Burndown completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeBurndownCSV writes the daily plan in CSV format.
func writeBurndownCSV(w io.Writer, report *schema.BurndownReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"sprint",
		"day",
		"share",
		"target_points",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, day := range report.DailyPlan {
			rec := []string{
				report.Sprint,                   // Sprint label
				fmt.Sprintf(intFmt, day.Day),    // Working-day index
				fmt.Sprintf("%.4f", day.Share),  // Share of the committed total
				fmt.Sprintf("%.2f", day.Points), // Daily target
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// burndownPlanRows flattens the daily plan into string rows for the binary
// formats.
func burndownPlanRows(report *schema.BurndownReport) [][]string {
	rows := make([][]string, 0, len(report.DailyPlan))
	cumulative := 0.0
	for _, day := range report.DailyPlan {
		cumulative += day.Points
		rows = append(rows, []string{
			strconv.Itoa(day.Day),
			fmt.Sprintf("%.1f%%", day.Share*100),
			fmt.Sprintf("%.2f", day.Points),
			fmt.Sprintf("%.2f", cumulative),
		})
	}
	return rows
}
