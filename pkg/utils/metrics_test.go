package utils

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanMetricsRecordsAttempts(t *testing.T) {
	m := NewScanMetrics("example.com", false)
	m.ObserveAttempt("found", 10*time.Millisecond)
	m.ObserveAttempt("not_found", 20*time.Millisecond)
	m.ObserveAttempt("not_found", 30*time.Millisecond)
	m.SetQueued(3)
	m.WorkerStarted()
	m.WorkerStarted()
	m.WorkerStopped()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("found")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("not_found")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.queued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.workers))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["subforce_resolution_duration_seconds"])
}

func TestNilScanMetricsIsNoop(t *testing.T) {
	var m *ScanMetrics
	m.ObserveAttempt("found", time.Millisecond)
	m.WorkerStarted()
	m.WorkerStopped()
	m.SetQueued(1)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.Serve(context.Background(), "127.0.0.1:0"))
}
