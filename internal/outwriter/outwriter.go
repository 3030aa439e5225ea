// Package outwriter renders ingestion reports, store status and workout
// listings in text, CSV and JSON formats.
package outwriter

import (
	"os"

	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints an ingestion report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.IngestReport, cfg *contract.Config) error {
	return WriteIngestReport(report, cfg)
}

// WriteStatus prints store status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return WriteStoreStatus(status, cfg)
}

// WriteWorkouts prints stored workout summaries using the configured output format.
func (ow *OutWriter) WriteWorkouts(workouts []schema.Workout, cfg *contract.Config) error {
	return WriteWorkoutList(workouts, cfg)
}

// getMaxTableNameWidth calculates the width available for activity names in
// table output based on the terminal width.
func getMaxTableNameWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Conservative default for narrow terminals and CI
		termWidth = 80
	}

	// Reserve space for the fixed columns, borders and padding
	available := termWidth - 60
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
