package core

import "github.com/vvasiu/strides/schema"

// SummarizeHRZones converts a heart-rate-zone payload into canonical zone
// records. The payload may be a bare list of zone objects or a dict holding
// that list under a recognized key, with at most one extra level of nesting.
// Entries missing both a zone number and a seconds value are dropped. Zone
// numbers are unique in the result; the first entry for a number wins. When
// only the number is missing, the one-based position fills in.
func SummarizeHRZones(payload any) []schema.HeartRateZone {
	entries := zoneEntries(payload, 0)
	if len(entries) == 0 {
		return nil
	}

	zones := make([]schema.HeartRateZone, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))

	for i, entry := range entries {
		number, hasNumber := findInt(entry, zoneNumberRecognizer)
		seconds, hasSeconds := findFloat(entry, zoneSecondsRecognizer)
		if !hasNumber && !hasSeconds {
			continue
		}
		if !hasNumber {
			number = i + 1
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}

		zone := schema.HeartRateZone{
			ZoneNumber:      number,
			SecondsInZone:   seconds,
			ZoneLowBoundary: nil,
		}
		if boundary, ok := findFloat(entry, zoneBoundaryRecognizer); ok {
			zone.ZoneLowBoundary = &boundary
		}
		zones = append(zones, zone)
	}

	if len(zones) == 0 {
		return nil
	}
	return zones
}

// zoneEntries locates the list of zone objects inside a payload, descending
// through at most one level of dict nesting.
func zoneEntries(payload any, depth int) []map[string]any {
	switch val := payload.(type) {
	case []any:
		entries := make([]map[string]any, 0, len(val))
		for _, item := range val {
			if entry, ok := item.(map[string]any); ok {
				entries = append(entries, entry)
			}
		}
		return entries
	case []map[string]any:
		return val
	case map[string]any:
		if depth > 1 {
			return nil
		}
		for _, key := range zoneListKeys {
			if inner, ok := val[key]; ok {
				if entries := zoneEntries(inner, depth+1); len(entries) > 0 {
					return entries
				}
			}
		}
		return nil
	default:
		return nil
	}
}

// findInt applies a recognizer and coerces the result to int.
func findInt(entry map[string]any, r Recognizer) (int, bool) {
	v, ok := r.Find(entry)
	if !ok {
		return 0, false
	}
	return toInt(v)
}
