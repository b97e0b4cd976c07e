// Package metrics exports session counters for a running game over HTTP.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/score"
)

const shutdownTimeout = 2 * time.Second

// Manager owns the game metrics. The zero value is not usable, use NewManager.
type Manager struct {
	namespace    string
	frameBuckets []float64
	registry     *prometheus.Registry

	notesSpawned  *prometheus.CounterVec
	notesJudged   *prometheus.CounterVec
	notesRecorded *prometheus.CounterVec
	hitDistance   prometheus.Histogram
	activeNotes   prometheus.Gauge
	score         prometheus.Gauge
	mode          *prometheus.GaugeVec
	frameDuration prometheus.Histogram
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "arrows",
		frameBuckets: []float64{0.001, 0.004, 0.008, 0.016, 0.033, 0.066, 0.25, 1},
		registry:     prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.notesSpawned = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notes_spawned_total",
		Help:      "Notes activated by the scheduler, by lane and speed",
	}, []string{"lane", "speed"})

	m.notesJudged = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notes_judged_total",
		Help:      "Notes removed from the playfield, by lane and verdict",
	}, []string{"lane", "verdict"})

	m.notesRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notes_recorded_total",
		Help:      "Presses captured while authoring, by lane",
	}, []string{"lane"})

	m.hitDistance = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "hit_distance_units",
		Help:      "Distance from the target of each hit",
		Buckets:   prometheus.LinearBuckets(0, game.Threshold/5, 6),
	})

	m.activeNotes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "active_notes",
		Help:      "Notes currently in flight",
	})

	m.score = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "score",
		Help:      "Score of the current session",
	})

	m.mode = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "mode",
		Help:      "1 for the active mode",
	}, []string{"mode"})

	m.frameDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "frame_duration_seconds",
		Help:      "Time between frames as seen by the engine",
		Buckets:   m.frameBuckets,
	})
}

func (m *Manager) NoteSpawned(n game.Note) {
	m.notesSpawned.WithLabelValues(n.Lane.String(), n.Speed.String()).Inc()
}

func (m *Manager) NoteJudged(j game.Judgement) {
	m.notesJudged.WithLabelValues(j.Lane.String(), j.Verdict.String()).Inc()
	if j.Verdict == game.Hit {
		m.hitDistance.Observe(j.Distance)
	}
}

func (m *Manager) NoteRecorded(l game.Lane) {
	m.notesRecorded.WithLabelValues(l.String()).Inc()
}

// Frame records the per-frame gauges.
func (m *Manager) Frame(delta float64, active int, sink score.Sink) {
	m.frameDuration.Observe(delta)
	m.activeNotes.Set(float64(active))
	if sink != nil {
		m.score.Set(float64(sink.Score()))
	}
}

// Mode marks name as the only active mode.
func (m *Manager) Mode(name string, all []string) {
	for _, n := range all {
		v := 0.0
		if n == name {
			v = 1
		}
		m.mode.WithLabelValues(n).Set(v)
	}
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Manager) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrapf(err, "metrics server on %v", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
