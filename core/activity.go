package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/vvasiu/strides/schema"
)

// indoorKeywords classify an activity as indoor when any of them appears in
// the sport key or the activity title.
var indoorKeywords = []string{
	"indoor", "treadmill", "stationary", "trainer", "gym", "strength", "pool", "home",
}

// summaryZoneKeys are the per-zone duration keys of an activity summary.
var summaryZoneKeys = [5]string{
	"hrTimeInZone_1", "hrTimeInZone_2", "hrTimeInZone_3", "hrTimeInZone_4", "hrTimeInZone_5",
}

// BuildWorkout maps a raw activity summary payload into the canonical
// workout record. The local start time is the identity key for idempotent
// upserts, so a summary without a parseable start time is an error rather
// than a degraded record.
func BuildWorkout(userID int64, summary map[string]any, defaultLocation string) (schema.Workout, error) {
	w := schema.Workout{
		UserID: userID,
		Sport:  "unknown",
	}

	if activityType, ok := summary["activityType"].(map[string]any); ok {
		if typeKey, ok := activityType["typeKey"].(string); ok && typeKey != "" {
			w.Sport = typeKey
		}
	}
	if name, ok := summary["activityName"].(string); ok {
		w.WorkoutType = name
	}

	start, ok := NormalizeTimestamp(summary["startTimeLocal"])
	if !ok {
		return schema.Workout{}, fmt.Errorf("activity summary has no parseable startTimeLocal")
	}
	w.StartTime = start
	// The workout date is the calendar day in the start time's own zone.
	// Truncating on absolute UTC days would shift early-morning workouts
	// east of UTC onto the previous date.
	year, month, day := start.Date()
	w.WorkoutDate = time.Date(year, month, day, 0, 0, 0, 0, start.Location())

	w.EndTime = start
	if duration, ok := toFloat(summary["duration"]); ok && duration > 0 {
		w.EndTime = start.Add(time.Duration(duration * float64(time.Second)))
	}

	w.CaloriesBurned = summaryFloat(summary, "calories")
	w.AvgHeartRate = summaryFloat(summary, "averageHR")
	w.MaxHeartRate = summaryFloat(summary, "maxHR")
	w.VO2MaxEstimate = summaryFloat(summary, "vO2MaxValue")
	w.LactateThresholdBpm = summaryFloat(summary, "lactateThresholdBpm")
	w.TrainingVolume = summaryFloat(summary, "distance")

	zoneDurations := [5]**float64{
		&w.TimeInHRZone1, &w.TimeInHRZone2, &w.TimeInHRZone3, &w.TimeInHRZone4, &w.TimeInHRZone5,
	}
	for i, key := range summaryZoneKeys {
		*zoneDurations[i] = summaryFloat(summary, key)
	}

	w.AvgVerticalOscillation = summaryFloat(summary, "avgVerticalOscillation")
	w.AvgGroundContactTime = summaryFloat(summary, "avgGroundContactTime")
	w.AvgStrideLength = summaryFloat(summary, "avgStrideLength")
	w.AvgVerticalRatio = summaryFloat(summary, "avgVerticalRatio")
	w.AvgRunningCadence = summaryFloat(summary, "averageRunningCadenceInStepsPerMinute")
	w.MaxRunningCadence = summaryFloat(summary, "maxRunningCadenceInStepsPerMinute")

	w.Location = defaultLocation
	if location, ok := summary["locationName"].(string); ok && location != "" {
		w.Location = location
	}

	w.IsIndoor = IsIndoorActivity(w.Sport, w.WorkoutType)

	return w, nil
}

// IsIndoorActivity classifies an activity from its sport key and title.
func IsIndoorActivity(sport, title string) bool {
	haystack := strings.ToLower(sport + " " + title)
	for _, keyword := range indoorKeywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// summaryFloat extracts an optional numeric summary field.
func summaryFloat(summary map[string]any, key string) *float64 {
	v, ok := summary[key]
	if !ok || v == nil {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}
