package workoutstore

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"
)

// MockWorkoutStore is a mock implementation of WorkoutStore for testing.
type MockWorkoutStore struct {
	mock.Mock
}

var _ contract.WorkoutStore = &MockWorkoutStore{} // Compile-time check

// ProbeCapability implements the WorkoutStore interface.
func (m *MockWorkoutStore) ProbeCapability(ctx context.Context) schema.SchemaCapability {
	args := m.Called(ctx)
	capability, _ := args.Get(0).(schema.SchemaCapability)
	return capability
}

// UpsertActivity implements the WorkoutStore interface.
func (m *MockWorkoutStore) UpsertActivity(ctx context.Context, bundle *schema.ActivityBundle, capability schema.SchemaCapability, batchSize int) (schema.ActivityOutcome, error) {
	args := m.Called(ctx, bundle, capability, batchSize)
	outcome, _ := args.Get(0).(schema.ActivityOutcome)
	return outcome, args.Error(1)
}

// RecentWorkouts implements the WorkoutStore interface.
func (m *MockWorkoutStore) RecentWorkouts(ctx context.Context, limit int) ([]schema.Workout, error) {
	args := m.Called(ctx, limit)
	workouts, _ := args.Get(0).([]schema.Workout)
	return workouts, args.Error(1)
}

// AllMetricRows implements the WorkoutStore interface.
func (m *MockWorkoutStore) AllMetricRows(ctx context.Context) ([]schema.WorkoutMetricRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]schema.WorkoutMetricRow)
	return rows, args.Error(1)
}

// GetStatus implements the WorkoutStore interface.
func (m *MockWorkoutStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}

// Close implements the WorkoutStore interface.
func (m *MockWorkoutStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
