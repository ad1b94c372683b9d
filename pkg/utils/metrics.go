package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScanMetrics exposes the counters of a single run. A nil *ScanMetrics is
// valid and records nothing.
type ScanMetrics struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	latency  prometheus.Histogram
	workers  prometheus.Gauge
	queued   prometheus.Gauge
}

func NewScanMetrics(domain string, enableRuntimeMetrics bool) *ScanMetrics {
	reg := prometheus.NewRegistry()
	if enableRuntimeMetrics {
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		reg.MustRegister(collectors.NewGoCollector())
	}

	labels := prometheus.Labels{"domain": domain}
	m := &ScanMetrics{
		registry: reg,
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "subforce_resolution_attempts_total",
			Help:        "Completed resolution attempts by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "subforce_resolution_duration_seconds",
			Help:        "Wall time of a single resolution attempt.",
			ConstLabels: labels,
			Buckets:     []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5, 10},
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "subforce_active_workers",
			Help:        "Workers currently draining the queue.",
			ConstLabels: labels,
		}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "subforce_queued_candidates",
			Help:        "Candidates placed on the work queue.",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(m.attempts, m.latency, m.workers, m.queued)
	return m
}

func (m *ScanMetrics) ObserveAttempt(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
	m.latency.Observe(took.Seconds())
}

func (m *ScanMetrics) WorkerStarted() {
	if m != nil {
		m.workers.Inc()
	}
}

func (m *ScanMetrics) WorkerStopped() {
	if m != nil {
		m.workers.Dec()
	}
}

func (m *ScanMetrics) SetQueued(n int) {
	if m != nil {
		m.queued.Set(float64(n))
	}
}

func (m *ScanMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Serve exposes /metrics on addr until ctx is done.
func (m *ScanMetrics) Serve(ctx context.Context, addr string) error {
	if m == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("metrics server error: %w", err)
	}
}
