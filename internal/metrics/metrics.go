// Package metrics exposes engine counters through a prometheus registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/streakwars/internal/logger"
)

const namespace = "streakwars"

// Metrics holds the engine's collectors. A nil *Metrics records nothing.
type Metrics struct {
	commands      *prometheus.CounterVec
	commandTime   *prometheus.HistogramVec
	saves         *prometheus.CounterVec
	saveTime      *prometheus.HistogramVec
	saveRetries   *prometheus.CounterVec
	loadFailures  *prometheus.CounterVec
	pendingSaves  prometheus.Gauge
	coins         prometheus.Gauge
	activeDebuffs prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "commands_total",
				Help:      "Engine commands by outcome.",
			},
			[]string{"command", "outcome"},
		),
		commandTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "command_duration_seconds",
				Help:      "Time spent applying a command in memory.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
			},
			[]string{"command"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "saves_total",
				Help:      "Collection saves by result.",
			},
			[]string{"collection", "result"},
		),
		saveTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "save_duration_seconds",
				Help:      "Duration of collection saves including retries.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"collection"},
		),
		saveRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "save_retries_total",
				Help:      "Retried save attempts.",
			},
			[]string{"collection"},
		),
		loadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "load_failures_total",
				Help:      "Collections that failed to load or parse at startup.",
			},
			[]string{"collection"},
		),
		pendingSaves: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "pending_saves",
				Help:      "Collections waiting to be written.",
			},
		),
		coins: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "player",
				Name:      "coins",
				Help:      "Current coin balance of the local player.",
			},
		),
		activeDebuffs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "player",
				Name:      "active_sabotages",
				Help:      "Sabotages currently in effect against the local player.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.commands,
			m.commandTime,
			m.saves,
			m.saveTime,
			m.saveRetries,
			m.loadFailures,
			m.pendingSaves,
			m.coins,
			m.activeDebuffs,
		)
	}
	return m
}

var (
	defaultOnce     sync.Once
	defaultRegistry *prometheus.Registry
	defaultMetrics  *Metrics
)

// Default returns the process-wide metrics registered on Registry().
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultRegistry = prometheus.NewRegistry()
		defaultRegistry.MustRegister(
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
			prometheus.NewGoCollector(),
		)
		defaultMetrics = New(defaultRegistry)
	})
	return defaultMetrics
}

// Registry returns the registry behind Default.
func Registry() *prometheus.Registry {
	Default()
	return defaultRegistry
}

func (m *Metrics) ObserveCommand(command, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	m.commandTime.WithLabelValues(command).Observe(d.Seconds())
}

func (m *Metrics) ObserveSave(collection string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(collection, result).Inc()
	m.saveTime.WithLabelValues(collection).Observe(d.Seconds())
}

func (m *Metrics) SaveRetried(collection string) {
	if m == nil {
		return
	}
	m.saveRetries.WithLabelValues(collection).Inc()
}

func (m *Metrics) LoadFailed(collection string) {
	if m == nil {
		return
	}
	m.loadFailures.WithLabelValues(collection).Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pendingSaves.Set(float64(n))
}

func (m *Metrics) SetPlayer(coins, activeSabotages int) {
	if m == nil {
		return
	}
	m.coins.Set(float64(coins))
	m.activeDebuffs.Set(float64(activeSabotages))
}

// Serve exposes gatherer on addr at /metrics until ctx is canceled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
