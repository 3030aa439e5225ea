package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeHRZonesList(t *testing.T) {
	payload := []any{
		map[string]any{"zoneNumber": 1.0, "secsInZone": 600.0, "zoneLowBoundary": 100.0},
		map[string]any{"zoneNumber": 2.0, "secsInZone": 300.0, "zoneLowBoundary": 120.0},
	}

	zones := SummarizeHRZones(payload)
	require.Len(t, zones, 2)
	assert.Equal(t, 1, zones[0].ZoneNumber)
	assert.Equal(t, 600.0, zones[0].SecondsInZone)
	require.NotNil(t, zones[0].ZoneLowBoundary)
	assert.Equal(t, 100.0, *zones[0].ZoneLowBoundary)
}

func TestSummarizeHRZonesNestedDict(t *testing.T) {
	var payload any
	err := json.Unmarshal([]byte(`{"allZones": {"zones": [{"zone": 1, "seconds": 600, "min": 100}]}}`), &payload)
	require.NoError(t, err)

	zones := SummarizeHRZones(payload)
	require.Len(t, zones, 1)
	assert.Equal(t, 1, zones[0].ZoneNumber)
	assert.Equal(t, 600.0, zones[0].SecondsInZone)
	require.NotNil(t, zones[0].ZoneLowBoundary)
	assert.Equal(t, 100.0, *zones[0].ZoneLowBoundary)
}

func TestSummarizeHRZonesAlternateKeys(t *testing.T) {
	payload := map[string]any{
		"hrZones": []any{
			map[string]any{"zoneIndex": 3.0, "timeInZone": 45.0, "lowBoundary": 140.0},
		},
	}

	zones := SummarizeHRZones(payload)
	require.Len(t, zones, 1)
	assert.Equal(t, 3, zones[0].ZoneNumber)
	assert.Equal(t, 45.0, zones[0].SecondsInZone)
}

func TestSummarizeHRZonesDropsEmptyEntries(t *testing.T) {
	payload := []any{
		map[string]any{"color": "red"},                       // no number, no seconds
		map[string]any{"secsInZone": 120.0},                  // seconds only, position fills the number
		map[string]any{"zoneNumber": 4.0, "secsInZone": 9.0}, // complete
	}

	zones := SummarizeHRZones(payload)
	require.Len(t, zones, 2)
	assert.Equal(t, 2, zones[0].ZoneNumber, "one-based position of the entry fills a missing number")
	assert.Equal(t, 120.0, zones[0].SecondsInZone)
	assert.Equal(t, 4, zones[1].ZoneNumber)
}

func TestSummarizeHRZonesDuplicateNumbers(t *testing.T) {
	payload := []any{
		map[string]any{"zoneNumber": 1.0, "secsInZone": 100.0},
		map[string]any{"zoneNumber": 1.0, "secsInZone": 999.0},
	}

	zones := SummarizeHRZones(payload)
	require.Len(t, zones, 1)
	assert.Equal(t, 100.0, zones[0].SecondsInZone)
}

func TestSummarizeHRZonesUnusableShapes(t *testing.T) {
	assert.Nil(t, SummarizeHRZones(nil))
	assert.Nil(t, SummarizeHRZones("zones"))
	assert.Nil(t, SummarizeHRZones(map[string]any{"unrelated": 1.0}))
	// Deeper than one nesting level is not descended into.
	assert.Nil(t, SummarizeHRZones(map[string]any{
		"allZones": map[string]any{"zones": map[string]any{"values": []any{
			map[string]any{"zoneNumber": 1.0, "secsInZone": 1.0},
		}}},
	}))
}
