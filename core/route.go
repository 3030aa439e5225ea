package core

import (
	"time"

	"github.com/vvasiu/strides/schema"
)

// NormalizeRoutePoints converts raw GPS payload points into canonical route
// points. A point must carry both coordinates under some recognized spelling
// or it is dropped and counted. Timestamps are taken from an epoch field
// first, then a string field; when neither parses, one is synthesized as the
// activity start plus the point index in seconds and flagged as such.
// Source order is preserved.
func NormalizeRoutePoints(raw []map[string]any, start time.Time) ([]schema.RoutePoint, int) {
	points := make([]schema.RoutePoint, 0, len(raw))
	skipped := 0

	for i, entry := range raw {
		lat, latOK := findFloat(entry, latitudeRecognizer)
		lon, lonOK := findFloat(entry, longitudeRecognizer)
		if !latOK || !lonOK {
			skipped++
			continue
		}

		point := schema.RoutePoint{
			Latitude:  lat,
			Longitude: lon,
		}
		point.Timestamp, point.Synthesized = routePointTime(entry, start, i)

		point.Altitude = optionalFloat(entry, "altitude", "elevation")
		point.Speed = optionalFloat(entry, "speed")
		point.CumulativeAscent = optionalFloat(entry, "cumulativeAscent", "ascent")
		point.CumulativeDescent = optionalFloat(entry, "cumulativeDescent", "descent")
		point.DistanceFromStart = optionalFloat(entry, "distanceFromPreviousPoint", "distanceInMeters", "distance")

		points = append(points, point)
	}

	return points, skipped
}

// routePointTime resolves the timestamp for the point at index i. The bool
// result marks a synthesized timestamp.
func routePointTime(entry map[string]any, start time.Time, i int) (time.Time, bool) {
	if v, ok := epochTimeRecognizer.Find(entry); ok {
		if t, parsed := NormalizeTimestamp(v); parsed {
			return t, false
		}
	}
	if v, ok := timeStringRecognizer.Find(entry); ok {
		if s, isStr := v.(string); isStr {
			if t, parsed := NormalizeTimestamp(s); parsed {
				return t, false
			}
		}
	}
	return start.Add(time.Duration(i) * time.Second), true
}

// findFloat applies a recognizer and coerces the result to float64.
func findFloat(entry map[string]any, r Recognizer) (float64, bool) {
	v, ok := r.Find(entry)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// optionalFloat returns the first numeric value found under the given keys.
func optionalFloat(entry map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if v, ok := entry[key]; ok {
			if f, numeric := toFloat(v); numeric {
				return &f
			}
		}
	}
	return nil
}
