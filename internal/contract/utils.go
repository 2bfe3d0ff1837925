package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Sprint health label constants.
const (
	OnTrackValue  = "On Track"  // Predicted delivery meets the commitment
	AtRiskValue   = "At Risk"   // Predicted delivery lands close but short
	OffTrackValue = "Off Track" // Predicted delivery misses by a wide margin
	UnknownValue  = "Unknown"   // No velocity signal yet
)

// Color variables for console output.
var (
	OnTrackColor  = color.New(color.FgGreen, color.Bold) // OnTrackColor signals the sprint is healthy.
	AtRiskColor   = color.New(color.FgYellow)            // AtRiskColor signals standard caution.
	OffTrackColor = color.New(color.FgRed, color.Bold)   // OffTrackColor signals the commitment is in danger.
	UnknownColor  = color.New(color.FgCyan)              // UnknownColor represents missing signal.
)

// GetPlainHealth returns a plain text label for sprint health based on the
// predicted delivery relative to the committed points. This is the core logic
// used for CSV, JSON, and table printing.
func GetPlainHealth(predicted int, committed float64) string {
	if committed <= 0 || predicted < 0 {
		return UnknownValue
	}
	ratio := float64(predicted) / committed
	switch {
	case ratio >= 1.0:
		return OnTrackValue
	case ratio >= 0.85:
		return AtRiskValue
	default:
		return OffTrackValue
	}
}

// GetColorHealth returns a colored health label for console output (table).
// It uses GetPlainHealth to determine the string, and then applies the
// appropriate color.
func GetColorHealth(predicted int, committed float64) string {
	text := GetPlainHealth(predicted, committed)

	switch text {
	case OnTrackValue:
		return OnTrackColor.Sprint(text)
	case AtRiskValue:
		return AtRiskColor.Sprint(text)
	case OffTrackValue:
		return OffTrackColor.Sprint(text)
	default: // "Unknown"
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// SlugForFilename lowercases a label and replaces whitespace so it can be
// embedded in generated artifact filenames.
func SlugForFilename(label string) string {
	slug := strings.ToLower(strings.TrimSpace(label))
	slug = strings.Join(strings.Fields(slug), "-")
	if slug == "" {
		return "sprint"
	}
	return slug
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}
