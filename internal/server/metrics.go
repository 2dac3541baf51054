package server

import (
	"github.com/MeKo-Tech/scanbridge/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered per server so tests can create servers freely.
type metrics struct {
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	commandsTotal          *prometheus.CounterVec
	commandDuration        *prometheus.HistogramVec
	rateLimitHits          *prometheus.CounterVec
	websocketConnections   *prometheus.GaugeVec
	websocketMessagesTotal *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, stream *events.Stream) *metrics {
	f := promauto.With(reg)
	m := &metrics{
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanbridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scanbridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		commandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanbridge_commands_total",
				Help: "Total number of dispatched commands",
			},
			[]string{"method", "status"},
		),
		commandDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scanbridge_command_duration_seconds",
				Help:    "Time from receiving a command to its response",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"method"},
		),
		rateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanbridge_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"type"}, // type: minute, hour, requests, data
		),
		websocketConnections: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scanbridge_websocket_active_connections",
				Help: "Number of active WebSocket connections",
			},
			[]string{"channel"}, // channel: command, events
		),
		websocketMessagesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanbridge_websocket_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"channel", "direction"}, // direction: sent, received
		),
	}

	if stream != nil {
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "scanbridge_events_published_total",
			Help: "Scan result events handed to the stream",
		}, func() float64 { return float64(stream.Stats().Published) })
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "scanbridge_events_delivered_total",
			Help: "Scan result events delivered to a subscriber",
		}, func() float64 { return float64(stream.Stats().Delivered) })
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "scanbridge_events_dropped_total",
			Help: "Scan result events dropped for lack of a ready subscriber",
		}, func() float64 { return float64(stream.Stats().Dropped) })
	}
	return m
}
