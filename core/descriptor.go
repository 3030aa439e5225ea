package core

import (
	"fmt"

	"github.com/vvasiu/strides/schema"
)

// Descriptor maps one column index of a tabular metric block to the key the
// producer assigned to that column.
type Descriptor struct {
	Index int
	Key   string
}

// ColumnMap is the decoded layout of a tabular metric block. Building the
// map and decoding rows against it are separate phases so each can be
// verified on its own.
type ColumnMap struct {
	// Fields maps a column index to its canonical metric field.
	// Unrecognized columns are simply absent.
	Fields map[int]MetricColumn

	// TimestampIndex is the column carrying the sample timestamp.
	TimestampIndex int

	// Diagnostic is set when no column key identified itself as the
	// timestamp and the highest index was assumed instead.
	Diagnostic string
}

// MetricColumn pairs a recognized field with the descriptor key it came
// from, kept for diagnostics.
type MetricColumn struct {
	Field schema.MetricField
	Key   string
}

// timestampKeyRecognizer identifies the column carrying sample timestamps.
var timestampKeyRecognizer = Recognizer{
	Exact:     []string{"directTimestamp"},
	Fragments: []string{"timestamp", "time"},
}

// BuildColumnMap derives the column layout from descriptor entries. When no
// descriptor key looks like a timestamp, the highest column index is assumed
// to carry it and a diagnostic is recorded for the caller to surface.
func BuildColumnMap(descs []Descriptor) ColumnMap {
	cm := ColumnMap{
		Fields:         make(map[int]MetricColumn),
		TimestampIndex: -1,
	}

	highest := -1
	for _, d := range descs {
		if d.Index < 0 {
			continue
		}
		if d.Index > highest {
			highest = d.Index
		}
		if cm.TimestampIndex < 0 && timestampKeyRecognizer.Match(d.Key) {
			cm.TimestampIndex = d.Index
			continue
		}
		if field, ok := RecognizeMetricField(d.Key); ok {
			cm.Fields[d.Index] = MetricColumn{Field: field, Key: d.Key}
		}
	}

	if cm.TimestampIndex < 0 && highest >= 0 {
		cm.TimestampIndex = highest
		// The assumed column must not double as a metric column.
		delete(cm.Fields, highest)
		cm.Diagnostic = fmt.Sprintf(
			"no descriptor key identifies a timestamp; assuming highest index %d", highest)
	}

	return cm
}

// DecodeRows decodes tabular rows against a column map into raw samples.
// Timestamp values are carried through untouched; normalization and skip
// accounting happen during the merge so every source is counted one way.
func DecodeRows(cm ColumnMap, rows [][]any) []Sample {
	if cm.TimestampIndex < 0 {
		return nil
	}

	samples := make([]Sample, 0, len(rows))
	for _, row := range rows {
		var ts any
		if cm.TimestampIndex < len(row) {
			ts = row[cm.TimestampIndex]
		}

		values := make(map[schema.MetricField]float64, len(cm.Fields))
		for idx, col := range cm.Fields {
			if idx >= len(row) || row[idx] == nil {
				continue
			}
			if f, ok := toFloat(row[idx]); ok {
				values[col.Field] = f
			}
		}

		samples = append(samples, Sample{Time: ts, Values: values})
	}
	return samples
}
