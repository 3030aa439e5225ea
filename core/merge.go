package core

import (
	"sort"
	"time"

	"github.com/vvasiu/strides/schema"
)

// Sample is one raw observation from a telemetry source. Time is kept in its
// source representation until the merge normalizes it.
type Sample struct {
	Time   any
	Values map[schema.MetricField]float64
}

// Source is one ordered stream of samples feeding the merge. The position of
// a source in the slice passed to Merge is its priority: earlier sources win
// field conflicts, later sources only fill gaps.
type Source struct {
	Name    string
	Samples []Sample
}

// ValueSeries converts a simple [timestamp, value] pair series into samples
// for a single metric field. Pairs without a numeric value are dropped here
// since they carry nothing to merge; pair timestamps are validated during
// the merge like every other source.
func ValueSeries(field schema.MetricField, pairs [][]any) []Sample {
	samples := make([]Sample, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 || pair[1] == nil {
			continue
		}
		v, ok := toFloat(pair[1])
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			Time:   pair[0],
			Values: map[schema.MetricField]float64{field: v},
		})
	}
	return samples
}

// Merge reconciles independently sampled metric streams into one
// chronological stream keyed by timestamp. Samples whose timestamps cannot
// be normalized are dropped and counted, never given a fabricated time.
// Within a timestamp, the first source to report a field wins; later sources
// only contribute fields still missing. The result is sorted ascending with
// unique timestamps and is deterministic for a given source order.
func Merge(sources []Source) ([]schema.MetricPoint, int) {
	merged := make(map[int64]map[schema.MetricField]float64)
	skipped := 0

	for _, src := range sources {
		for _, sample := range src.Samples {
			ts, ok := NormalizeTimestamp(sample.Time)
			if !ok {
				skipped++
				continue
			}
			key := ts.UnixNano()
			values, seen := merged[key]
			if !seen {
				values = make(map[schema.MetricField]float64, len(sample.Values))
				merged[key] = values
			}
			for field, v := range sample.Values {
				if _, taken := values[field]; !taken {
					values[field] = v
				}
			}
		}
	}

	if len(merged) == 0 {
		return nil, skipped
	}

	keys := make([]int64, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	points := make([]schema.MetricPoint, 0, len(keys))
	for _, key := range keys {
		points = append(points, schema.MetricPoint{
			Timestamp: time.Unix(0, key).UTC(),
			Values:    merged[key],
		})
	}
	return points, skipped
}
