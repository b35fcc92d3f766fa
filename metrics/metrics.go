// Package metrics exposes drag protocol outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grovetools/tabs/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tabs"

// Recorder counts drag protocol events. It satisfies drop.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	started       *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	ended         *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry, including the
// standard Go and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_started_total",
			Help:      "Drag gestures started, by category.",
		}, []string{"category"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drops_total",
			Help:      "Drops delivered to a strip, by category and whether the payload was inserted.",
		}, []string{"category", "inserted"}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_ended_total",
			Help:      "Drag gestures ended, by category and whether a drop area was found.",
		}, []string{"category", "found"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "Ephemeral store operations that failed, by protocol step.",
		}, []string{"op"}),
	}

	r.registry.MustRegister(r.started, r.dropped, r.ended, r.storeFailures)
	r.registry.MustRegister(prometheus.NewGoCollector())
	r.registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return r
}

// DragStarted implements drop.Recorder.
func (r *Recorder) DragStarted(category string) {
	r.started.WithLabelValues(category).Inc()
}

// Dropped implements drop.Recorder.
func (r *Recorder) Dropped(category string, inserted bool) {
	r.dropped.WithLabelValues(category, fmt.Sprint(inserted)).Inc()
}

// DragEnded implements drop.Recorder.
func (r *Recorder) DragEnded(category string, found bool) {
	r.ended.WithLabelValues(category, fmt.Sprint(found)).Inc()
}

// StoreFailed implements drop.Recorder.
func (r *Recorder) StoreFailed(op string) {
	r.storeFailures.WithLabelValues(op).Inc()
}

// Registry returns the registry the recorder's collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve exposes the metrics on addr under path until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr, path string) error {
	if path == "" {
		path = "/metrics"
	}
	logger := logging.NewLogger("metrics")

	mux := http.NewServeMux()
	mux.Handle(path, r.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	logger.WithField("addr", addr).Infof("Prometheus metrics available at http://%s%s", addr, path)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}
