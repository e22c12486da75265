package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"rr-monitor.klederson.com/internal/rr"
)

// Fetch outcomes.
const (
	FetchOK     = "ok"
	FetchNoData = "no_data"
	FetchError  = "error"
)

// Recorder exports the RR pipeline state.
type Recorder struct {
	registry *prometheus.Registry

	// LatestSeconds the newest interval
	LatestSeconds prometheus.Gauge
	// LatestHealthiness healthiness score of the newest interval
	LatestHealthiness prometheus.Gauge
	// WindowSamples samples currently in the window
	WindowSamples prometheus.Gauge
	// SamplesAppended simulated samples appended
	SamplesAppended prometheus.Counter
	// Classifications appended samples by class
	Classifications *prometheus.CounterVec
	// Fetches external fetches by outcome
	Fetches *prometheus.CounterVec
	// FetchDuration external fetch latency
	FetchDuration prometheus.Histogram
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		LatestSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "rr_latest_seconds",
			Help: "Most recent RR interval in seconds",
		}),
		LatestHealthiness: f.NewGauge(prometheus.GaugeOpts{
			Name: "rr_latest_healthiness",
			Help: "Healthiness score of the most recent RR interval",
		}),
		WindowSamples: f.NewGauge(prometheus.GaugeOpts{
			Name: "rr_window_samples",
			Help: "Number of samples in the rolling window",
		}),
		SamplesAppended: f.NewCounter(prometheus.CounterOpts{
			Name: "rr_samples_appended_total",
			Help: "Total number of samples appended to the window",
		}),
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rr_classification_total",
			Help: "Appended samples by health classification",
		}, []string{"class"}),
		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rr_fetch_total",
			Help: "External health data fetches by result",
		}, []string{"result"}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "rr_fetch_duration_seconds",
			Help:    "External health data fetch latency in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveAppend records a single appended sample.
func (r *Recorder) ObserveAppend(s rr.Sample) {
	r.SamplesAppended.Inc()
	r.Classifications.WithLabelValues(rr.Classify(s).String()).Inc()
	r.setLatest(s.Value)
}

// ObserveWindow records the state of a window snapshot.
func (r *Recorder) ObserveWindow(w rr.Window) {
	r.WindowSamples.Set(float64(len(w.Points)))
	if p, ok := w.Latest(); ok {
		r.setLatest(p.Value)
	}
}

// ObserveFetch records a fetch outcome and its duration.
func (r *Recorder) ObserveFetch(result string, d time.Duration) {
	r.Fetches.WithLabelValues(result).Inc()
	r.FetchDuration.Observe(d.Seconds())
}

func (r *Recorder) setLatest(v float64) {
	r.LatestSeconds.Set(v)
	r.LatestHealthiness.Set(rr.HealthinessScore(v))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, log logrus.FieldLogger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
