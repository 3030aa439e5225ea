package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteIngestReport outputs an ingestion report, dispatching based on the
// output format configured.
func WriteIngestReport(report *schema.IngestReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg)
		}, "Wrote table")
	}
	return nil
}

// outcomeStatus classifies one activity outcome for display.
func outcomeStatus(outcome *schema.ActivityOutcome) string {
	switch {
	case len(outcome.FailedRows) > 0:
		return contract.PartialValue
	case outcome.Matched:
		return contract.MatchedValue
	default:
		return contract.NewValue
	}
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(writer io.Writer, report *schema.IngestReport, cfg *contract.Config) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Activity", "Sport", "Start", "Status", "Points", "Route", "Zones", "Skipped"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for i := range report.Activities {
		outcome := &report.Activities[i]
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(outcome.Name, nameWidth),
			outcome.Sport,
			outcome.StartTime.Format(contract.DateTimeFormat),
			contract.GetColorStatus(outcomeStatus(outcome)),
			strconv.Itoa(outcome.MetricPoints),
			strconv.Itoa(outcome.RoutePoints),
			strconv.Itoa(outcome.HeartRateZones),
			strconv.Itoa(outcome.SkippedSamples),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, failure := range report.Failures {
		if _, err := fmt.Fprintf(writer, "%s activity %d (%s): %s\n",
			contract.GetColorStatus(contract.FailedValue), failure.ActivityID, failure.Name, failure.Error); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Ingested %d new, %d matched (%d points, %d route points, %d zones, %d skipped samples)\n",
		report.Inserted, report.Matched, report.MetricPoints, report.RoutePoints, report.HeartRateZones, report.SkippedSamples); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Run completed in %v for user %d. Database backend: %s\n",
		report.Duration.Round(contract.DurationPrecision), report.UserID, cfg.Backend); err != nil {
		return err
	}
	return nil
}

// writeReportCSV writes per-activity outcomes in CSV format.
func writeReportCSV(w io.Writer, report *schema.IngestReport) error {
	header := []string{
		"activity_id",
		"workout_id",
		"name",
		"sport",
		"start_time",
		"status",
		"metric_points",
		"route_points",
		"hr_zones",
		"skipped_samples",
		"failed_rows",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i := range report.Activities {
			outcome := &report.Activities[i]
			rec := []string{
				strconv.FormatInt(outcome.ActivityID, 10),
				strconv.FormatInt(outcome.WorkoutID, 10),
				outcome.Name,
				outcome.Sport,
				outcome.StartTime.Format(contract.DateTimeFormat),
				outcomeStatus(outcome),
				strconv.Itoa(outcome.MetricPoints),
				strconv.Itoa(outcome.RoutePoints),
				strconv.Itoa(outcome.HeartRateZones),
				strconv.Itoa(outcome.SkippedSamples),
				strconv.Itoa(len(outcome.FailedRows)),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		for _, failure := range report.Failures {
			rec := []string{
				strconv.FormatInt(failure.ActivityID, 10),
				"0",
				failure.Name,
				"",
				"",
				contract.FailedValue,
				"0", "0", "0", "0", "0",
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
