// Package ingest runs the activity ingestion pipeline: list recent
// activities, reconcile their telemetry and upsert them one by one.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vvasiu/strides/core"
	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"
)

// Pipeline wires the telemetry client to the workout store.
type Pipeline struct {
	client contract.TelemetryClient
	store  contract.WorkoutStore
	cfg    *contract.Config
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(client contract.TelemetryClient, store contract.WorkoutStore, cfg *contract.Config) *Pipeline {
	return &Pipeline{client: client, store: store, cfg: cfg}
}

// Run executes one ingestion run. Activities are processed sequentially; a
// failure on one activity is recorded and the run continues. The returned
// report covers every activity either way.
func (p *Pipeline) Run(ctx context.Context) (*schema.IngestReport, error) {
	report := &schema.IngestReport{
		UserID:    p.cfg.UserID,
		StartedAt: time.Now(),
	}

	if err := p.client.Login(ctx); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	activities, err := p.client.RecentActivities(ctx, p.cfg.ActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	capability := p.store.ProbeCapability(ctx)

	for _, summary := range activities {
		id := activityID(summary)
		outcome, err := p.ingestOne(ctx, id, summary, capability)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping activity %d", id), err)
			report.Failures = append(report.Failures, schema.ActivityFailure{
				ActivityID: id,
				Name:       activityName(summary),
				Error:      err.Error(),
			})
			continue
		}
		report.Record(outcome)
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// ingestOne reconciles and persists a single activity.
func (p *Pipeline) ingestOne(ctx context.Context, id int64, summary map[string]any, capability schema.SchemaCapability) (schema.ActivityOutcome, error) {
	workout, err := core.BuildWorkout(p.cfg.UserID, summary, p.cfg.DefaultLocation)
	if err != nil {
		return schema.ActivityOutcome{}, err
	}

	bundle := &schema.ActivityBundle{Workout: workout}

	// The detail and split fetches are independently optional; a workout
	// summary alone is still worth persisting.
	details := p.fetchDetails(ctx, id)
	var sources []core.Source
	if samples := detailSamples(details); len(samples) > 0 {
		sources = append(sources, core.Source{Name: "details", Samples: samples})
	}
	if samples := p.fetchLapSamples(ctx, id); len(samples) > 0 {
		sources = append(sources, core.Source{Name: "splits", Samples: samples})
	}
	points, skipped := core.Merge(sources)
	bundle.MetricPoints = points
	bundle.SkippedSamples = skipped

	rawRoute := p.resolveRoute(ctx, id, details)
	routePoints, skippedRoute := core.NormalizeRoutePoints(rawRoute, workout.StartTime)
	bundle.RoutePoints = routePoints
	bundle.SkippedSamples += skippedRoute

	bundle.HeartRateZones = p.resolveZones(ctx, id, summary)

	outcome, err := p.store.UpsertActivity(ctx, bundle, capability, p.cfg.BatchSize)
	if err != nil {
		return outcome, err
	}
	outcome.ActivityID = id
	outcome.Name = activityName(summary)
	return outcome, nil
}

// fetchDetails returns the detail payload, or nil when unavailable.
func (p *Pipeline) fetchDetails(ctx context.Context, id int64) map[string]any {
	details, err := p.client.ActivityDetails(ctx, id)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("No details for activity %d", id), err)
		return nil
	}
	return details
}

// detailSamples decodes the column-oriented metric block of a detail payload.
func detailSamples(details map[string]any) []core.Sample {
	if details == nil {
		return nil
	}

	var descs []core.Descriptor
	if rawDescs, ok := details["metricDescriptors"].([]any); ok {
		for _, raw := range rawDescs {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			index, ok := numberToInt(entry["metricsIndex"])
			if !ok {
				continue
			}
			key, _ := entry["key"].(string)
			descs = append(descs, core.Descriptor{Index: index, Key: key})
		}
	}
	if len(descs) == 0 {
		return nil
	}

	cm := core.BuildColumnMap(descs)
	if cm.Diagnostic != "" {
		contract.LogWarn("Metric descriptor block", fmt.Errorf("%s", cm.Diagnostic))
	}

	var rows [][]any
	if rawRows, ok := details["activityDetailMetrics"].([]any); ok {
		for _, raw := range rawRows {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if metrics, ok := entry["metrics"].([]any); ok {
				rows = append(rows, metrics)
			}
		}
	}

	return core.DecodeRows(cm, rows)
}

// fetchLapSamples derives a low-resolution metric source from the per-lap
// split payload: lap index and elevation deltas keyed by lap start time.
func (p *Pipeline) fetchLapSamples(ctx context.Context, id int64) []core.Sample {
	splits, err := p.client.ActivitySplits(ctx, id)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("No splits for activity %d", id), err)
		return nil
	}

	laps, ok := splits["lapDTOs"].([]any)
	if !ok {
		return nil
	}

	var samples []core.Sample
	for i, raw := range laps {
		lap, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		ts := lapStartTime(lap)

		values := map[schema.MetricField]float64{
			schema.FieldLapIndex: float64(i + 1),
		}
		if v, ok := numberToFloat(lap["elevationGain"]); ok {
			values[schema.FieldElevationGain] = v
		}
		if v, ok := numberToFloat(lap["elevationLoss"]); ok {
			values[schema.FieldElevationLoss] = v
		}
		if v, ok := numberToFloat(lap["distance"]); ok {
			values[schema.FieldCumulativeDistance] = v
		}
		samples = append(samples, core.Sample{Time: ts, Values: values})
	}
	return samples
}

// lapStartTime picks the timestamp keying a lap sample. The local start time
// matches the zone the workout identity uses; the GMT variant is zone-less in
// the payload and must parse as UTC, never host-local.
func lapStartTime(lap map[string]any) any {
	if ts, ok := lap["startTimeLocal"]; ok {
		return ts
	}
	if t, ok := core.NormalizeTimestampUTC(lap["startTimeGMT"]); ok {
		return t
	}
	return nil
}

// routeProvider is one attempt in the ordered route resolution chain. Every
// provider answers with a uniform value-or-unavailable result.
type routeProvider func(ctx context.Context) ([]map[string]any, bool)

// resolveRoute tries each route provider in order and returns the first
// non-empty point set: the dedicated route endpoint, then the polyline
// embedded in an already fetched detail payload.
func (p *Pipeline) resolveRoute(ctx context.Context, id int64, details map[string]any) []map[string]any {
	providers := []routeProvider{
		func(ctx context.Context) ([]map[string]any, bool) {
			points, err := p.client.ActivityRoute(ctx, id)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("No route for activity %d", id), err)
				return nil, false
			}
			return points, len(points) > 0
		},
		func(_ context.Context) ([]map[string]any, bool) {
			points := polylineFromDetails(details)
			return points, len(points) > 0
		},
	}

	for _, provider := range providers {
		if points, ok := provider(ctx); ok {
			return points
		}
	}
	return nil
}

// polylineFromDetails extracts GPS points embedded in a detail payload.
func polylineFromDetails(details map[string]any) []map[string]any {
	if details == nil {
		return nil
	}
	geo, ok := details["geoPolylineDTO"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := geo["polyline"].([]any)
	if !ok {
		return nil
	}

	points := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if point, ok := entry.(map[string]any); ok {
			points = append(points, point)
		}
	}
	return points
}

// zoneProvider is one attempt in the ordered HR zone resolution chain.
type zoneProvider func(ctx context.Context) ([]schema.HeartRateZone, bool)

// resolveZones tries the zone endpoint first, then falls back to the per-zone
// durations of the activity summary.
func (p *Pipeline) resolveZones(ctx context.Context, id int64, summary map[string]any) []schema.HeartRateZone {
	providers := []zoneProvider{
		func(ctx context.Context) ([]schema.HeartRateZone, bool) {
			payload, err := p.client.ActivityHRZones(ctx, id)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("No HR zones for activity %d", id), err)
				return nil, false
			}
			zones := core.SummarizeHRZones(payload)
			return zones, len(zones) > 0
		},
		func(_ context.Context) ([]schema.HeartRateZone, bool) {
			zones := summaryZones(summary)
			return zones, len(zones) > 0
		},
	}

	for _, provider := range providers {
		if zones, ok := provider(ctx); ok {
			return zones
		}
	}
	return nil
}

// summaryZones builds zone records from the hrTimeInZone_N summary keys.
// Boundaries are unknown at the summary level.
func summaryZones(summary map[string]any) []schema.HeartRateZone {
	var zones []schema.HeartRateZone
	for i := 1; i <= 5; i++ {
		v, ok := numberToFloat(summary[fmt.Sprintf("hrTimeInZone_%d", i)])
		if !ok || v <= 0 {
			continue
		}
		zones = append(zones, schema.HeartRateZone{ZoneNumber: i, SecondsInZone: v})
	}
	return zones
}

// activityID extracts the numeric activity id from a summary payload.
func activityID(summary map[string]any) int64 {
	for _, key := range []string{"activityId", "activityID", "id"} {
		if v, ok := summary[key]; ok {
			if f, ok := numberToFloat(v); ok {
				return int64(f)
			}
		}
	}
	return 0
}

// activityName extracts the display name from a summary payload.
func activityName(summary map[string]any) string {
	if name, ok := summary["activityName"].(string); ok {
		return name
	}
	return ""
}

func numberToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func numberToInt(v any) (int, bool) {
	f, ok := numberToFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}
