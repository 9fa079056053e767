package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the Prometheus collectors exported by the server.
type Metrics struct {
	OnlinePlayers    prometheus.Gauge
	ActiveRooms      prometheus.Gauge
	GamesInProgress  prometheus.Gauge
	GamesFinished    prometheus.Counter
	MessagesReceived prometheus.Counter
	MessageLatency   prometheus.Histogram
}

// NewMetrics builds and registers the collectors under a namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of connected players",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of open rooms",
		}),
		GamesInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "games_in_progress",
			Help:      "Number of games currently being played",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of games played to completion",
		}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Total number of messages received",
		}),
		MessageLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_latency_seconds",
			Help:      "Message processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.OnlinePlayers,
		m.ActiveRooms,
		m.GamesInProgress,
		m.GamesFinished,
		m.MessagesReceived,
		m.MessageLatency,
	)

	return m
}

// Monitor wraps the collectors with an HTTP exposition endpoint.
type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

// StartServer serves /metrics on its own listener.
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() any {
		return time.Since(m.startTime).Seconds()
	}))
	mux.Handle("/debug/vars", expvar.Handler())

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) IncOnlinePlayers() { m.metrics.OnlinePlayers.Inc() }
func (m *Monitor) DecOnlinePlayers() { m.metrics.OnlinePlayers.Dec() }

func (m *Monitor) SetActiveRooms(count int) { m.metrics.ActiveRooms.Set(float64(count)) }

func (m *Monitor) IncGamesInProgress() { m.metrics.GamesInProgress.Inc() }
func (m *Monitor) DecGamesInProgress() { m.metrics.GamesInProgress.Dec() }
func (m *Monitor) IncGamesFinished()   { m.metrics.GamesFinished.Inc() }

func (m *Monitor) IncMessagesReceived() { m.metrics.MessagesReceived.Inc() }

func (m *Monitor) ObserveMessageLatency(d time.Duration) {
	m.metrics.MessageLatency.Observe(d.Seconds())
}
