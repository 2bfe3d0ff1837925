package outwriter

import (
	"fmt"
	"os"

	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
	"github.com/xuri/excelize/v2"
)

// reportSheetName is the worksheet holding bucket rows.
const reportSheetName = "Report"

// planSheetName is the worksheet holding the daily burn plan.
const planSheetName = "Plan"

// writeReportExcel renders the sprint report as an Excel workbook.
func writeReportExcel(report *schema.SprintReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	outputFile := cfg.OutputFile
	if outputFile == "" {
		outputFile = defaultArtifactName(report.Sprint, report.GeneratedAt, "xlsx")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", reportSheetName); err != nil {
		return fmt.Errorf("failed to set up worksheet: %w", err)
	}

	header := []any{string(report.Dimension), "Issues", "Points", "% of Total"}
	if err := setRow(f, reportSheetName, 1, header); err != nil {
		return err
	}
	for i, b := range report.Buckets {
		row := []any{b.Key, b.Count, b.Points, b.PercentOfTotal}
		if err := setRow(f, reportSheetName, i+2, row); err != nil {
			return err
		}
	}

	// Summary block below the buckets
	base := len(report.Buckets) + 3
	summary := [][]any{
		{"Sprint", report.Sprint},
		{"Generated", report.GeneratedAt.Format(contract.DateFormat)},
		{"Issues", report.IssueCount},
		{"Total points", report.TotalPoints},
		{"Measured points", report.MeasuredPoints},
		{"Assumed points", report.AssumedPoints},
	}
	if report.Velocity != nil {
		summary = append(summary,
			[]any{"Target velocity", report.Velocity.TargetVelocity},
			[]any{"Current velocity", report.Velocity.CurrentVelocity},
			[]any{"Predicted total", report.Velocity.PredictedTotal},
			[]any{"Health", contract.GetPlainHealth(report.Velocity.PredictedTotal, report.Velocity.CommittedPoints)},
		)
	}
	for i, row := range summary {
		if err := setRow(f, reportSheetName, base+i, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save Excel workbook: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Excel to %s\n", outputFile)
	return nil
}

// writeBurndownExcel renders the burndown plan as an Excel workbook.
func writeBurndownExcel(report *schema.BurndownReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	outputFile := cfg.OutputFile
	if outputFile == "" {
		outputFile = defaultArtifactName(report.Sprint, report.GeneratedAt, "xlsx")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", planSheetName); err != nil {
		return fmt.Errorf("failed to set up worksheet: %w", err)
	}

	if err := setRow(f, planSheetName, 1, []any{"Day", "Share", "Target Points"}); err != nil {
		return err
	}
	for i, day := range report.DailyPlan {
		row := []any{day.Day, day.Share, day.Points}
		if err := setRow(f, planSheetName, i+2, row); err != nil {
			return err
		}
	}

	base := len(report.DailyPlan) + 3
	v := report.Velocity
	summary := [][]any{
		{"Sprint", report.Sprint},
		{"Committed points", v.CommittedPoints},
		{"Delivered points", v.DeliveredPoints},
		{"Target velocity", v.TargetVelocity},
		{"Current velocity", v.CurrentVelocity},
		{"Predicted total", v.PredictedTotal},
	}
	if report.Overrun != nil && report.Overrun.OverrunDays != nil {
		summary = append(summary, []any{"Overrun days", *report.Overrun.OverrunDays})
	}
	for i, row := range summary {
		if err := setRow(f, planSheetName, base+i, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save Excel workbook: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Excel to %s\n", outputFile)
	return nil
}

// setRow writes one row of cells starting at column A.
func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
