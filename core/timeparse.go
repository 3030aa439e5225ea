// Package core implements the reconciliation logic that turns heterogeneous
// telemetry payloads into canonical workout records: timestamp normalization,
// descriptor decoding, metric stream merging, route normalization and
// HR-zone summarization.
package core

import (
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts are tried in fixed priority order. UTC layouts come first
// so a trailing Z is never reinterpreted as local time; the space-separated
// layout matches the format activity summaries use for local start times.
var timestampLayouts = []struct {
	layout string
	utc    bool
}{
	{"2006-01-02T15:04:05.999Z", true},
	{"2006-01-02T15:04:05Z", true},
	{"2006-01-02T15:04:05.999", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
}

// NormalizeTimestamp interprets a raw timestamp value from any telemetry
// source. Strings are matched against the known layouts in priority order;
// numeric values are treated as epoch milliseconds. It never fabricates a
// time: when the value cannot be interpreted, ok is false and the zero time
// is returned so the caller can decide how to degrade.
func NormalizeTimestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		return parseTimestampString(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpochMillis(f)
	case float64:
		return fromEpochMillis(val)
	case float32:
		return fromEpochMillis(float64(val))
	case int:
		return fromEpochMillis(float64(val))
	case int64:
		return fromEpochMillis(float64(val))
	default:
		return time.Time{}, false
	}
}

// NormalizeTimestampUTC interprets a raw timestamp value like
// NormalizeTimestamp, except that zone-less string layouts parse as UTC
// instead of host-local time. Sources label such values GMT without carrying
// a zone suffix; parsing them in the host zone would shift every sample by
// the host UTC offset.
func NormalizeTimestampUTC(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		return parseTimestampStringIn(s, time.UTC)
	}
	return NormalizeTimestamp(v)
}

func parseTimestampString(s string) (time.Time, bool) {
	return parseTimestampStringIn(s, time.Local)
}

func parseTimestampStringIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, entry := range timestampLayouts {
		var t time.Time
		var err error
		if entry.utc {
			t, err = time.Parse(entry.layout, s)
		} else {
			t, err = time.ParseInLocation(entry.layout, s, loc)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fromEpochMillis converts epoch milliseconds to a UTC time. Values at or
// below zero are rejected; sources emit them as placeholders for "no time".
func fromEpochMillis(ms float64) (time.Time, bool) {
	if ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
