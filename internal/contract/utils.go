package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Activity outcome status constants.
const (
	NewValue     = "New"     // Workout inserted for the first time
	MatchedValue = "Matched" // Workout identity reused, children replaced
	PartialValue = "Partial" // Committed with some child rows rejected
	FailedValue  = "Failed"  // Upsert unit rolled back
)

// Color variables for console output.
var (
	NewColor     = color.New(color.FgGreen)           // marks freshly inserted workouts.
	MatchedColor = color.New(color.FgCyan)            // marks idempotent re-runs.
	PartialColor = color.New(color.FgYellow)          // marks isolated child row failures.
	FailedColor  = color.New(color.FgRed, color.Bold) // marks rolled back activities.
)

// GetColorStatus applies the status color for console table output.
func GetColorStatus(text string) string {
	switch text {
	case NewValue:
		return NewColor.Sprint(text)
	case MatchedValue:
		return MatchedColor.Sprint(text)
	case PartialValue:
		return PartialColor.Sprint(text)
	case FailedValue:
		return FailedColor.Sprint(text)
	default:
		return text
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

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for workout storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".strides.db"
	}
	return filepath.Join(homeDir, ".strides.db")
}

// TruncateName truncates an activity name to a maximum width with ellipsis.
// Requires maxWidth > 3 so there is room for the ellipsis and content.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
