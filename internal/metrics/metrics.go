package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pool_snapshot"

// Snapshot outcomes.
const (
	OutcomeWritten     = "written"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeWriteFailed = "write_failed"
)

// Metrics tracks per-pool snapshot outcomes of a run.
type Metrics struct {
	snapshots   *prometheus.CounterVec
	rpcErrors   *prometheus.CounterVec
	lastBlock   *prometheus.GaugeVec
	runDuration prometheus.Gauge
	gatherer    prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg gets a private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		snapshots: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Pool snapshots processed, by protocol and outcome.",
		}, []string{"protocol", "outcome"}),
		rpcErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_errors_total",
			Help:      "Failed pool state requests, by error class.",
		}, []string{"class"}),
		lastBlock: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_block",
			Help:      "Most recent state block seen per protocol.",
		}, []string{"protocol"}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last snapshot run.",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) RecordSnapshot(protocol, outcome string) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(protocol, outcome).Inc()
}

func (m *Metrics) RecordRPCError(class string) {
	if m == nil {
		return
	}
	m.rpcErrors.WithLabelValues(class).Inc()
}

func (m *Metrics) SetStateBlock(protocol string, block uint64) {
	if m == nil {
		return
	}
	m.lastBlock.WithLabelValues(protocol).Set(float64(block))
}

func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Set(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve runs the metrics endpoint on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- fmt.Errorf("metrics server: %w", err)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	return <-errCh
}
