package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestDatabaseMetrics_RecordQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	dm, err := metrics.NewDatabaseMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	dm.RecordQuery(ctx, "select", "students", 3*time.Millisecond, nil)
	dm.RecordQuery(ctx, "insert", "students", 5*time.Millisecond, errors.New("duplicate key"))

	got := collect(t, reader)

	hist, ok := got["db.query.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)

	errs, ok := got["db.query.errors"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, errs.DataPoints, 1)
	assert.Equal(t, int64(1), errs.DataPoints[0].Value)
}

func TestNewMock_IgnoresRecords(t *testing.T) {
	m := metrics.NewMock()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.Database.RecordQuery(ctx, "select", "users", time.Millisecond, nil)
		m.Events.RecordPublish(ctx, "nats", "attendance.checked_in", time.Millisecond, errors.New("down"))
		m.Health.RecordDependencyCheck(ctx, "postgres", time.Millisecond, nil)
	})
}

func TestRuntimeMetrics_Observed(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	_, err := metrics.NewRuntimeMetrics(meter)
	require.NoError(t, err)

	got := collect(t, reader)

	goroutines, ok := got["runtime.go.goroutines"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, goroutines.DataPoints, 1)
	assert.Positive(t, goroutines.DataPoints[0].Value)

	_, ok = got["service.uptime"].Data.(metricdata.Sum[float64])
	assert.True(t, ok)
}
