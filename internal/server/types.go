package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes one bridge over websocket command and event channels.
type Server struct {
	bridge         *bridge.Bridge
	allowedOrigins []string
	eventBuffer    int
	rateLimiter    *RateLimiter
	upgrader       websocket.Upgrader

	registry *prometheus.Registry
	metrics  *metrics

	mu       sync.Mutex
	detached bool
	channels map[*websocket.Conn]struct{}
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	AllowedOrigins []string
	EventBuffer    int
	RateLimit      RateLimitConfig
}

// RateLimitConfig bounds how often a client may hit the HTTP endpoints.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Bridge   string `json:"bridge,omitempty"`
	Disposed bool   `json:"disposed"`
	Time     string `json:"time"`
}

// MethodsResponse is returned by /methods.
type MethodsResponse struct {
	Methods []string `json:"methods"`
	Count   int      `json:"count"`
}

// ChannelRequest is one command received on /channel.
type ChannelRequest struct {
	ID        string          `json:"id"`
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ChannelResponse answers exactly one ChannelRequest.
type ChannelResponse struct {
	ID     string        `json:"id"`
	Status string        `json:"status"` // "success", "error" or "notImplemented"
	Result any           `json:"result,omitempty"`
	Error  *ChannelError `json:"error,omitempty"`
}

// ChannelError is the wire form of a bridge failure.
type ChannelError struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of HTTP error replies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewServer creates a server for b. The server owns b from here on and
// disposes it on Close.
func NewServer(config Config, b *bridge.Bridge) *Server {
	origins := config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		bridge:         b,
		allowedOrigins: origins,
		eventBuffer:    config.EventBuffer,
		registry:       reg,
		metrics:        newMetrics(reg, b.Stream()),
		channels:       make(map[*websocket.Conn]struct{}),
	}
	if config.RateLimit.Enabled {
		rl := config.RateLimit
		s.rateLimiter = NewRateLimiter(rl.RequestsPerMinute, rl.RequestsPerHour, rl.MaxRequestsPerDay, rl.MaxDataPerDay)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return s.originAllowed(r.Header.Get("Origin")) },
	}
	return s
}

// Bridge returns the served bridge.
func (s *Server) Bridge() *bridge.Bridge { return s.bridge }

// Detach stops accepting commands and closes every open command channel.
// It is meant to run as the bridge's dispose hook.
func (s *Server) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	for conn := range s.channels {
		_ = conn.Close()
		delete(s.channels, conn)
	}
}

// Close disposes the bridge.
func (s *Server) Close() error {
	s.bridge.Dispose()
	s.Detach()
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	r.HandleFunc("/methods", s.corsMiddleware(s.rateLimitMiddleware(s.methodsHandler)))
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/channel", s.rateLimitMiddleware(s.channelHandler)).Methods(http.MethodGet)
	r.HandleFunc("/events", s.rateLimitMiddleware(s.eventsHandler)).Methods(http.MethodGet)
}

// Handler returns a router with every route installed.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.SetupRoutes(r)
	return r
}
