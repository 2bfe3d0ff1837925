// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the
// core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSprintReport prints a sprint report using the configured output format.
func (ow *OutWriter) WriteSprintReport(report *schema.SprintReport, cfg *contract.Config, duration time.Duration) error {
	return PrintSprintReport(report, cfg, duration)
}

// WriteBurndown prints a burndown report using the configured output format.
func (ow *OutWriter) WriteBurndown(report *schema.BurndownReport, cfg *contract.Config, duration time.Duration) error {
	return PrintBurndownReport(report, cfg, duration)
}

// GetMaxTableKeyWidth calculates the maximum width for bucket keys in table
// output based on terminal width and table configuration.
func GetMaxTableKeyWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the count, points and percent columns with borders
	// and padding
	baseWidth := 40

	// Calculate available space for the key column
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable key width
		return 12
	}
	if available > 60 {
		// Maximum key width to prevent overly wide tables
		return 60
	}
	return available
}

// TruncateKey shortens a bucket key to fit the table, keeping the head of the
// string which carries the meaningful part of names and labels.
func TruncateKey(key string, maxWidth int) string {
	if len(key) <= maxWidth {
		return key
	}
	if maxWidth <= 3 {
		return key[:maxWidth]
	}
	return key[:maxWidth-3] + "..."
}
