package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swdee/go-poseoverlay/overlay"
)

var _ overlay.Recorder = (*Metrics)(nil)

// Metrics holds all overlay metrics
type Metrics struct {
	// Tick counters
	Ticks        atomic.Uint64
	SkippedTicks atomic.Uint64
	DetectRuns   atomic.Uint64
	PoseTicks    atomic.Uint64

	// Pose estimation counters
	PoseCalls       atomic.Uint64
	PosesDrawn      atomic.Uint64
	DegenerateCrops atomic.Uint64

	// Track lifecycle
	TracksCreated atomic.Uint64
	TracksEvicted atomic.Uint64
	LiveTracks    atomic.Int64
	Resets        atomic.Uint64

	// engineFailures counts inference errors and panics by engine
	engineFailures *prometheus.CounterVec
	// latency is the inference duration by engine
	latency *prometheus.HistogramVec

	// Prometheus collectors
	registry *prometheus.Registry
}

// New creates a new Metrics instance with Prometheus collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		engineFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poseoverlay_engine_failures_total",
			Help: "Total inference calls that failed or panicked",
		}, []string{"engine"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poseoverlay_inference_seconds",
			Help:    "Inference call duration",
			Buckets: []float64{.005, .01, .02, .04, .08, .16, .32, .64},
		}, []string{"engine"}),
	}

	m.registerPrometheusMetrics()

	return m
}

// counter registers a monotonically increasing value read from an atomic
func (m *Metrics) counter(name, help string, v *atomic.Uint64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{Name: name, Help: help},
		func() float64 { return float64(v.Load()) },
	))
}

// registerPrometheusMetrics registers all metrics with Prometheus
func (m *Metrics) registerPrometheusMetrics() {

	m.counter("poseoverlay_ticks_total", "Total overlay ticks", &m.Ticks)
	m.counter("poseoverlay_skipped_ticks_total", "Total ticks skipped as no frame was ready", &m.SkippedTicks)
	m.counter("poseoverlay_detection_runs_total", "Total person detection runs", &m.DetectRuns)
	m.counter("poseoverlay_pose_ticks_total", "Total pose ticks", &m.PoseTicks)
	m.counter("poseoverlay_pose_calls_total", "Total crops handed to the pose estimator", &m.PoseCalls)
	m.counter("poseoverlay_poses_drawn_total", "Total skeletons drawn", &m.PosesDrawn)
	m.counter("poseoverlay_degenerate_crops_total", "Total pose crops skipped as too small", &m.DegenerateCrops)
	m.counter("poseoverlay_tracks_created_total", "Total tracks created", &m.TracksCreated)
	m.counter("poseoverlay_tracks_evicted_total", "Total tracks evicted by TTL", &m.TracksEvicted)
	m.counter("poseoverlay_resets_total", "Total hard resets", &m.Resets)

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "poseoverlay_live_tracks",
			Help: "Number of live tracks",
		},
		func() float64 { return float64(m.LiveTracks.Load()) },
	))

	m.registry.MustRegister(m.engineFailures, m.latency)
}

// Inference records the outcome of an inference call
func (m *Metrics) Inference(engine string, took time.Duration, err error) {

	m.latency.WithLabelValues(engine).Observe(took.Seconds())

	if err != nil {
		m.engineFailures.WithLabelValues(engine).Inc()
	}
}

// Tick records the outcome of an overlay tick
func (m *Metrics) Tick(res overlay.TickResult) {

	m.Ticks.Add(1)
	m.LiveTracks.Store(int64(res.Tracks))

	if res.Skipped {
		m.SkippedTicks.Add(1)
		return
	}

	if res.Detected {
		m.DetectRuns.Add(1)
	}

	if res.Posed {
		m.PoseTicks.Add(1)
	}

	m.PoseCalls.Add(uint64(res.PoseCalls))
	m.PosesDrawn.Add(uint64(len(res.Landmarks)))
	m.DegenerateCrops.Add(uint64(res.DegenerateCrops))
	m.TracksCreated.Add(uint64(res.Created))
	m.TracksEvicted.Add(uint64(res.Evicted))
}

// Reset records a hard reset
func (m *Metrics) Reset() {
	m.Resets.Add(1)
	m.LiveTracks.Store(0)
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve serves the metrics endpoint on addr until the context is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
