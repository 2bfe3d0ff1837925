package outwriter

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
)

// writeReportPDF renders the sprint report as a one-page PDF summary.
func writeReportPDF(report *schema.SprintReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	outputFile := cfg.OutputFile
	if outputFile == "" {
		outputFile = defaultArtifactName(report.Sprint, report.GeneratedAt, "pdf")
	}

	pdf := newPDFPage(fmt.Sprintf("Sprint Report: %s", report.Sprint),
		fmt.Sprintf("Generated %s", report.GeneratedAt.Format(contract.DateFormat)))

	writePDFTable(pdf,
		[]string{string(report.Dimension), "Issues", "Points", "% of Total"},
		reportBucketRows(report, fmtFloat))

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdfLine(pdf, fmt.Sprintf("%d issues, %s points total (%s measured, %s assumed)",
		report.IssueCount, fmtFloat(report.TotalPoints),
		fmtFloat(report.MeasuredPoints), fmtFloat(report.AssumedPoints)))
	if report.Velocity != nil {
		v := report.Velocity
		pdfLine(pdf, fmt.Sprintf("Velocity: target %s/day, current %s/day, predicted %d of %s points [%s]",
			fmtFloat(v.TargetVelocity), fmtFloat(v.CurrentVelocity),
			v.PredictedTotal, fmtFloat(v.CommittedPoints),
			contract.GetPlainHealth(v.PredictedTotal, v.CommittedPoints)))
	}
	for _, warning := range report.Warnings {
		pdfLine(pdf, "Warning: "+warning)
	}

	if err := pdf.OutputFileAndClose(outputFile); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote PDF to %s\n", outputFile)
	return nil
}

// writeBurndownPDF renders the burndown plan as a one-page PDF summary.
func writeBurndownPDF(report *schema.BurndownReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	outputFile := cfg.OutputFile
	if outputFile == "" {
		outputFile = defaultArtifactName(report.Sprint, report.GeneratedAt, "pdf")
	}

	pdf := newPDFPage(fmt.Sprintf("Burndown Plan: %s", report.Sprint),
		fmt.Sprintf("Generated %s", report.GeneratedAt.Format(contract.DateFormat)))

	writePDFTable(pdf,
		[]string{"Day", "Share", "Target Points", "Cumulative"},
		burndownPlanRows(report))

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	v := report.Velocity
	pdfLine(pdf, fmt.Sprintf("Committed %s, delivered %s, predicted %d [%s]",
		fmtFloat(v.CommittedPoints), fmtFloat(v.DeliveredPoints), v.PredictedTotal,
		contract.GetPlainHealth(v.PredictedTotal, v.CommittedPoints)))
	if report.Overrun != nil && report.Overrun.OverrunDays != nil && *report.Overrun.OverrunDays > 0 {
		pdfLine(pdf, fmt.Sprintf("Projected overrun: %d working days past the deadline", *report.Overrun.OverrunDays))
	}
	for _, warning := range report.Warnings {
		pdfLine(pdf, "Warning: "+warning)
	}

	if err := pdf.OutputFileAndClose(outputFile); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote PDF to %s\n", outputFile)
	return nil
}

// newPDFPage creates an A4 portrait page with a title and subtitle.
func newPDFPage(title, subtitle string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, subtitle, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	return pdf
}

// writePDFTable renders a simple bordered grid. Column widths are split
// evenly across the printable area.
func writePDFTable(pdf *fpdf.Fpdf, headers []string, rows [][]string) {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(headers))

	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range headers {
		pdf.CellFormat(colWidth, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// pdfLine prints one full-width text line.
func pdfLine(pdf *fpdf.Fpdf, text string) {
	pdf.CellFormat(0, 5, text, "", 1, "L", false, 0, "")
}
