// Package main provides a performance benchmarking tool for the Strides upsert path.
// It measures upsert throughput across workload sizes and batch sizes,
// treating the first insert of each workload as cold and the idempotent
// re-upserts as warm, generating CSV output for performance analysis and documentation.
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where throwaway SQLite databases are created
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vvasiu/strides/internal/workoutstore"
	"github.com/vvasiu/strides/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold insert and average of warm re-upserts).
type BenchmarkResult struct {
	Workload  string
	BatchSize int
	ColdTime  string
	WarmTime  string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	WarmRuns   int
	BatchSizes []int
	Workloads  map[string]workload
}

// workload describes one synthetic ingestion shape.
type workload struct {
	Activities   int
	PointsPerAct int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		WarmRuns:   3,
		BatchSizes: []int{50, 500, 2000},
		Workloads: map[string]workload{
			"short-run":  {Activities: 10, PointsPerAct: 600},
			"long-run":   {Activities: 10, PointsPerAct: 7200},
			"back-catal": {Activities: 200, PointsPerAct: 1800},
		},
	}

	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		fmt.Printf("Cannot create work dir: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes all benchmark combinations of workload and batch size.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d workloads, %d batch sizes, %d warm runs each\n",
		len(config.Workloads), len(config.BatchSizes), config.WarmRuns)

	for name, load := range config.Workloads {
		for _, batchSize := range config.BatchSizes {
			fmt.Printf("Benchmarking %s (batch size %d)\n", name, batchSize)
			result, err := runBenchmark(config, name, load, batchSize)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}
	}

	return results, nil
}

// runBenchmark upserts one workload into a fresh SQLite store and measures
// the cold insert plus idempotent warm re-upserts.
func runBenchmark(config BenchmarkConfig, name string, load workload, batchSize int) (BenchmarkResult, error) {
	ctx := context.Background()

	dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("bench_%s_%d.db", name, batchSize))
	_ = os.Remove(dbPath)
	defer func() { _ = os.Remove(dbPath) }()

	store, err := workoutstore.NewWorkoutStore(schema.SQLiteBackend, dbPath)
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("cannot open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	capability := store.ProbeCapability(ctx)
	bundles := buildBundles(load)

	upsertAll := func() (float64, error) {
		start := time.Now()
		for _, bundle := range bundles {
			if _, err := store.UpsertActivity(ctx, bundle, capability, batchSize); err != nil {
				return 0, err
			}
		}
		return time.Since(start).Seconds(), nil
	}

	// Cold phase: first insert into the empty store
	cold, err := upsertAll()
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("cold phase failed: %w", err)
	}

	// Warm phase: idempotent re-upserts replace children in place
	var warmSum float64
	for run := 1; run <= config.WarmRuns; run++ {
		warm, err := upsertAll()
		if err != nil {
			return BenchmarkResult{}, fmt.Errorf("warm run %d failed: %w", run, err)
		}
		warmSum += warm
	}
	warmAvg := warmSum / float64(config.WarmRuns)

	fmt.Printf("  Cold: %.3fs, Warm average: %.3fs\n", cold, warmAvg)

	return BenchmarkResult{
		Workload:  name,
		BatchSize: batchSize,
		ColdTime:  fmt.Sprintf("%.3fs", cold),
		WarmTime:  fmt.Sprintf("%.3fs", warmAvg),
	}, nil
}

// buildBundles generates synthetic activity bundles for a workload.
func buildBundles(load workload) []*schema.ActivityBundle {
	base := time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)
	bundles := make([]*schema.ActivityBundle, 0, load.Activities)

	for a := range load.Activities {
		start := base.Add(time.Duration(a) * 24 * time.Hour)
		bundle := &schema.ActivityBundle{
			Workout: schema.Workout{
				UserID:      1,
				Sport:       "running",
				WorkoutType: fmt.Sprintf("Benchmark Run %d", a+1),
				StartTime:   start,
				EndTime:     start.Add(time.Duration(load.PointsPerAct) * time.Second),
				Location:    "Cluj-Napoca",
			},
		}
		for i := range load.PointsPerAct {
			ts := start.Add(time.Duration(i) * time.Second)
			bundle.MetricPoints = append(bundle.MetricPoints, schema.MetricPoint{
				Timestamp: ts,
				Values: map[schema.MetricField]float64{
					schema.FieldHeartRate: 130 + float64(i%40),
					schema.FieldSpeed:     3.0 + float64(i%7)*0.1,
					schema.FieldCadence:   170 + float64(i%8),
				},
			})
			if i%10 == 0 {
				bundle.RoutePoints = append(bundle.RoutePoints, schema.RoutePoint{
					Timestamp: ts,
					Latitude:  46.77 + float64(i)*0.00001,
					Longitude: 23.59,
				})
			}
		}
		bundles = append(bundles, bundle)
	}
	return bundles
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/strides_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"workload", "batch_size", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		record := []string{result.Workload, fmt.Sprintf("%d", result.BatchSize), result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, result := range results {
		fmt.Printf("  %-12s batch %-5d: Cold: %s, Warm: %s\n", result.Workload, result.BatchSize, result.ColdTime, result.WarmTime)
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
