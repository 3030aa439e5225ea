package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoutePointsSynthesizedTimestamps(t *testing.T) {
	start := time.Date(2023, 1, 15, 7, 30, 0, 0, time.UTC)
	raw := []map[string]any{
		{"lat": 46.77, "lon": 23.59},
		{"lat": 46.78, "lon": 23.60},
		{"lat": 46.79, "lon": 23.61},
	}

	points, skipped := NormalizeRoutePoints(raw, start)

	require.Len(t, points, 3)
	assert.Zero(t, skipped)
	for i, p := range points {
		assert.True(t, p.Synthesized, "point %d must be flagged as synthesized", i)
		assert.Equal(t, start.Add(time.Duration(i)*time.Second), p.Timestamp)
	}
}

func TestNormalizeRoutePointsTimestampPriority(t *testing.T) {
	start := time.Date(2023, 1, 15, 7, 30, 0, 0, time.UTC)
	epoch := time.Date(2023, 1, 15, 7, 31, 0, 0, time.UTC)

	raw := []map[string]any{
		// Epoch millis beats everything.
		{"lat": 1.0, "lon": 2.0, "time": float64(epoch.UnixMilli()), "timeString": "2023-01-15T09:00:00Z"},
		// String timestamp is next.
		{"lat": 1.0, "lon": 2.0, "timeString": "2023-01-15T09:00:00Z"},
		// Neither present, synthesized from start plus index.
		{"lat": 1.0, "lon": 2.0},
	}

	points, skipped := NormalizeRoutePoints(raw, start)
	require.Len(t, points, 3)
	assert.Zero(t, skipped)

	assert.False(t, points[0].Synthesized)
	assert.True(t, epoch.Equal(points[0].Timestamp))

	assert.False(t, points[1].Synthesized)
	assert.True(t, points[1].Timestamp.Equal(time.Date(2023, 1, 15, 9, 0, 0, 0, time.UTC)))

	assert.True(t, points[2].Synthesized)
	assert.Equal(t, start.Add(2*time.Second), points[2].Timestamp)
}

func TestNormalizeRoutePointsRequiresCoordinates(t *testing.T) {
	start := time.Now()
	raw := []map[string]any{
		{"lat": 46.77},                        // no longitude
		{"lon": 23.59},                        // no latitude
		{"elevation": 350.0},                  // neither
		{"latitude": 46.78, "longitude": 23.60}, // alternate spellings accepted
	}

	points, skipped := NormalizeRoutePoints(raw, start)
	require.Len(t, points, 1)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, 46.78, points[0].Latitude)
	assert.Equal(t, 23.60, points[0].Longitude)
}

func TestNormalizeRoutePointsPreservesOrderAndExtras(t *testing.T) {
	start := time.Now()
	raw := []map[string]any{
		{"lat": 3.0, "lon": 4.0, "altitude": 100.0, "speed": 2.5},
		{"lat": 1.0, "lon": 2.0, "cumulativeAscent": 12.0},
	}

	points, _ := NormalizeRoutePoints(raw, start)
	require.Len(t, points, 2)

	// Source order, not coordinate order.
	assert.Equal(t, 3.0, points[0].Latitude)
	require.NotNil(t, points[0].Altitude)
	assert.Equal(t, 100.0, *points[0].Altitude)
	require.NotNil(t, points[0].Speed)
	assert.Equal(t, 2.5, *points[0].Speed)
	require.NotNil(t, points[1].CumulativeAscent)
	assert.Equal(t, 12.0, *points[1].CumulativeAscent)
}

func TestNormalizeRoutePointsEmpty(t *testing.T) {
	points, skipped := NormalizeRoutePoints(nil, time.Now())
	assert.Empty(t, points)
	assert.Zero(t, skipped)
}
