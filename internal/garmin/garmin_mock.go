package garmin

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vvasiu/strides/internal/contract"
)

// MockTelemetryClient is a mock implementation of TelemetryClient for testing.
type MockTelemetryClient struct {
	mock.Mock
}

var _ contract.TelemetryClient = &MockTelemetryClient{} // Compile-time check

// Login implements the TelemetryClient interface.
func (m *MockTelemetryClient) Login(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// RecentActivities implements the TelemetryClient interface.
func (m *MockTelemetryClient) RecentActivities(ctx context.Context, limit int) ([]map[string]any, error) {
	args := m.Called(ctx, limit)
	activities, _ := args.Get(0).([]map[string]any)
	return activities, args.Error(1)
}

// ActivityDetails implements the TelemetryClient interface.
func (m *MockTelemetryClient) ActivityDetails(ctx context.Context, activityID int64) (map[string]any, error) {
	args := m.Called(ctx, activityID)
	details, _ := args.Get(0).(map[string]any)
	return details, args.Error(1)
}

// ActivitySplits implements the TelemetryClient interface.
func (m *MockTelemetryClient) ActivitySplits(ctx context.Context, activityID int64) (map[string]any, error) {
	args := m.Called(ctx, activityID)
	splits, _ := args.Get(0).(map[string]any)
	return splits, args.Error(1)
}

// ActivityHRZones implements the TelemetryClient interface.
func (m *MockTelemetryClient) ActivityHRZones(ctx context.Context, activityID int64) (any, error) {
	args := m.Called(ctx, activityID)
	return args.Get(0), args.Error(1)
}

// ActivityRoute implements the TelemetryClient interface.
func (m *MockTelemetryClient) ActivityRoute(ctx context.Context, activityID int64) ([]map[string]any, error) {
	args := m.Called(ctx, activityID)
	points, _ := args.Get(0).([]map[string]any)
	return points, args.Error(1)
}
