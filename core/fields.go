package core

import (
	"strings"

	"github.com/vvasiu/strides/schema"
)

// Recognizer resolves a logical field from payloads whose producers disagree
// on key names. Exact candidates are tried in priority order before falling
// back to case-insensitive substring matching. Recognizers are pure lookups
// with no side effects.
type Recognizer struct {
	Exact     []string
	Fragments []string
}

// Find returns the value for the first recognized key in the payload.
func (r Recognizer) Find(payload map[string]any) (any, bool) {
	for _, key := range r.Exact {
		if v, ok := payload[key]; ok {
			return v, true
		}
	}
	for _, frag := range r.Fragments {
		// Map iteration order is random, so pick the smallest matching key
		// to keep repeated lookups deterministic.
		best := ""
		for key := range payload {
			if strings.Contains(strings.ToLower(key), frag) && (best == "" || key < best) {
				best = key
			}
		}
		if best != "" {
			return payload[best], true
		}
	}
	return nil, false
}

// Match reports whether a single key would be recognized.
func (r Recognizer) Match(key string) bool {
	for _, exact := range r.Exact {
		if key == exact {
			return true
		}
	}
	lower := strings.ToLower(key)
	for _, frag := range r.Fragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// Route point field recognizers. Producers spell coordinates several ways
// depending on the endpoint that served them.
var (
	latitudeRecognizer = Recognizer{
		Exact:     []string{"lat", "latitude"},
		Fragments: []string{"lat"},
	}
	longitudeRecognizer = Recognizer{
		Exact:     []string{"lon", "lng", "longitude"},
		Fragments: []string{"lon", "lng"},
	}
	epochTimeRecognizer = Recognizer{
		Exact:     []string{"time", "timestamp"},
		Fragments: []string{"timestamp"},
	}
	timeStringRecognizer = Recognizer{
		Exact:     []string{"timeString", "startTimeLocal", "startTimeGMT"},
		Fragments: []string{"timestr"},
	}
)

// HR-zone field recognizers.
var (
	// Fragments stay specific here: a bare "zone" fragment would also
	// match duration keys like secsInZone.
	zoneNumberRecognizer = Recognizer{
		Exact:     []string{"zoneNumber", "zone", "zoneIndex"},
		Fragments: []string{"zonenumber", "zoneindex"},
	}
	zoneSecondsRecognizer = Recognizer{
		Exact:     []string{"secsInZone", "secondsInZone", "seconds", "timeInZone"},
		Fragments: []string{"sec"},
	}
	zoneBoundaryRecognizer = Recognizer{
		Exact:     []string{"zoneLowBoundary", "lowBoundary", "min"},
		Fragments: []string{"low", "floor"},
	}
)

// zoneListKeys are the keys a dict-shaped zone payload may hold its list
// under, in priority order.
var zoneListKeys = []string{
	"zones", "hrZones", "heartRateZones", "timeInZones", "allZones", "values",
}

// metricKeyRules maps tabular descriptor keys to canonical metric fields.
// Exact candidates carry the vendor spellings seen in activity detail
// payloads; fragments catch renamed variants across API versions.
var metricKeyRules = []struct {
	field     schema.MetricField
	exact     []string
	fragments []string
}{
	{schema.FieldHeartRate, []string{"directHeartRate"}, []string{"heartrate"}},
	{schema.FieldSpeed, []string{"directSpeed"}, []string{"speed"}},
	{schema.FieldCadence, []string{"directDoubleCadence", "directRunCadence"}, []string{"cadence"}},
	{schema.FieldPower, []string{"directPower"}, []string{"power"}},
	{schema.FieldAltitude, []string{"directElevation"}, []string{"elevation", "altitude"}},
	{schema.FieldTemperature, []string{"directAirTemperature"}, []string{"temperature"}},
	{schema.FieldVerticalOscillation, []string{"directVerticalOscillation"}, []string{"verticaloscillation"}},
	{schema.FieldVerticalRatio, []string{"directVerticalRatio"}, []string{"verticalratio"}},
	{schema.FieldGroundContactTime, []string{"directGroundContactTime"}, []string{"groundcontact"}},
	{schema.FieldStrideLength, []string{"directStrideLength"}, []string{"stridelength"}},
	{schema.FieldCumulativeDistance, []string{"sumDistance"}, []string{"distance"}},
	{schema.FieldCumulativeDuration, []string{"sumDuration", "sumMovingDuration"}, []string{"duration"}},
	{schema.FieldElevationGain, []string{"sumElevationGain"}, []string{"elevationgain", "ascent"}},
	{schema.FieldElevationLoss, []string{"sumElevationLoss"}, []string{"elevationloss", "descent"}},
}

// RecognizeMetricField resolves a descriptor key to a canonical metric field.
// Exact spellings win over fragment matches across all rules.
func RecognizeMetricField(key string) (schema.MetricField, bool) {
	for _, rule := range metricKeyRules {
		for _, exact := range rule.exact {
			if key == exact {
				return rule.field, true
			}
		}
	}
	lower := strings.ToLower(key)
	for _, rule := range metricKeyRules {
		for _, frag := range rule.fragments {
			if strings.Contains(lower, frag) {
				return rule.field, true
			}
		}
	}
	return "", false
}

// toFloat coerces the numeric value shapes encoding/json produces.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case interface{ Float64() (float64, error) }:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// toInt coerces a numeric value to an int, truncating fractions.
func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}
