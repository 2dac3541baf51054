package server

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// statusRecorder remembers the status a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// corsMiddleware answers preflights, sets CORS headers for allowed origins
// and records request metrics per route.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if origin := r.Header.Get("Origin"); s.originAllowed(origin) {
			if origin == "" || s.allowsAnyOrigin() {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)

		endpoint := routeTemplate(r)
		s.metrics.httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
		s.metrics.httpRequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// routeTemplate names the matched mux route, keeping label cardinality
// bounded. Unrouted requests fall back to the raw path.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

func (s *Server) allowsAnyOrigin() bool {
	return slices.Contains(s.allowedOrigins, "*")
}

// originAllowed reports whether a browser origin may talk to the server.
// Requests without an Origin header come from non-browser clients.
func (s *Server) originAllowed(origin string) bool {
	if origin == "" || s.allowsAnyOrigin() {
		return true
	}
	return slices.ContainsFunc(s.allowedOrigins, func(o string) bool {
		return strings.EqualFold(o, origin)
	})
}

// rateLimitMiddleware charges the request to its client and rejects it with
// 429 once a window or daily quota is exhausted.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil {
			next(w, r)
			return
		}

		err := s.rateLimiter.CheckRateLimit(getClientIP(r), max(r.ContentLength, 0))
		if err == nil {
			next(w, r)
			return
		}
		s.rejectRequest(w, r, err)
	}
}

// rejectRequest writes the 429 answer for a limiter error.
func (s *Server) rejectRequest(w http.ResponseWriter, r *http.Request, err error) {
	h := w.Header()

	var windowErr *RateLimitError
	if errors.As(err, &windowErr) {
		s.metrics.rateLimitHits.WithLabelValues(windowErr.Type).Inc()
		h.Set("X-RateLimit-Type", windowErr.Type)
		h.Set("X-RateLimit-Limit", strconv.Itoa(windowErr.Limit))
		h.Set("Retry-After", strconv.Itoa(int(windowErr.RetryAfter.Round(time.Second).Seconds())))
		s.writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":       "rate_limit_exceeded",
			"type":        windowErr.Type,
			"limit":       windowErr.Limit,
			"retry_after": windowErr.RetryAfter.Seconds(),
			"message":     windowErr.Error(),
		})
		return
	}

	var quotaErr *QuotaExceededError
	if errors.As(err, &quotaErr) {
		s.metrics.rateLimitHits.WithLabelValues(quotaErr.Type).Inc()
		h.Set("X-Quota-Type", quotaErr.Type)
		h.Set("X-Quota-Limit", strconv.FormatInt(quotaErr.Limit, 10))
		h.Set("X-Quota-Used", strconv.FormatInt(quotaErr.Used, 10))
		h.Set("X-Quota-Resets", quotaErr.Resets.UTC().Format(http.TimeFormat))
		h.Set("Retry-After", strconv.Itoa(int(max(time.Until(quotaErr.Resets), 0).Round(time.Second).Seconds())))
		s.writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":   "quota_exceeded",
			"type":    quotaErr.Type,
			"limit":   quotaErr.Limit,
			"used":    quotaErr.Used,
			"resets":  quotaErr.Resets.Format(time.RFC3339),
			"message": quotaErr.Error(),
		})
		return
	}

	slog.Error("Rate limit check failed", "error", err, "path", r.URL.Path)
	s.writeErrorResponse(w, "rate limiting check failed", http.StatusInternalServerError)
}

// getClientIP identifies the caller: the first X-Forwarded-For hop, then
// X-Real-IP, then the connection's remote host.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
