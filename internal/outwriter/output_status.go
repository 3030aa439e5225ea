package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteStoreStatus outputs store status, dispatching based on the output
// format configured.
func WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusCSV(w, status)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusText(w, status)
		}, "Wrote status")
	}
	return nil
}

// sortedTables returns table names in stable order for deterministic output.
func sortedTables(sizes map[string]int64) []string {
	tables := make([]string, 0, len(sizes))
	for table := range sizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// writeStatusText generates the human-readable status view.
func writeStatusText(writer io.Writer, status schema.StoreStatus) error {
	connected := "no"
	if status.Connected {
		connected = "yes"
	}
	if _, err := fmt.Fprintf(writer, "Backend: %s (connected: %s)\n", status.Backend, connected); err != nil {
		return err
	}
	if !status.Connected {
		return nil
	}

	if _, err := fmt.Fprintf(writer, "Workouts: %d\n", status.TotalWorkouts); err != nil {
		return err
	}
	if status.TotalWorkouts > 0 {
		if _, err := fmt.Fprintf(writer, "Range: %s to %s\n",
			status.OldestWorkout.Format(contract.DateTimeFormat),
			status.NewestWorkout.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Optional is_indoor column: %t\n", status.HasIsIndoor); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Table", "Rows"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, name := range sortedTables(status.TableSizes) {
		data = append(data, []string{name, strconv.FormatInt(status.TableSizes[name], 10)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeStatusCSV writes per-table row counts in CSV format.
func writeStatusCSV(w io.Writer, status schema.StoreStatus) error {
	header := []string{"backend", "connected", "table", "rows", "has_is_indoor"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, name := range sortedTables(status.TableSizes) {
			rec := []string{
				status.Backend,
				strconv.FormatBool(status.Connected),
				name,
				strconv.FormatInt(status.TableSizes[name], 10),
				strconv.FormatBool(status.HasIsIndoor),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
