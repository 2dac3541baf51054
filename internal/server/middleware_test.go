package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestServer_CORSMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		allowed        []string
		origin         string
		method         string
		expectedStatus int
		expectedAllow  string
	}{
		{
			name:           "wildcard allows any origin",
			allowed:        []string{"*"},
			origin:         "https://example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedAllow:  "*",
		},
		{
			name:           "listed origin is echoed",
			allowed:        []string{"https://app.example.com"},
			origin:         "https://app.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedAllow:  "https://app.example.com",
		},
		{
			name:           "origin match ignores case",
			allowed:        []string{"https://App.Example.com"},
			origin:         "https://app.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedAllow:  "https://app.example.com",
		},
		{
			name:           "unlisted origin gets no allow header",
			allowed:        []string{"https://app.example.com"},
			origin:         "https://evil.example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedAllow:  "",
		},
		{
			name:           "preflight short-circuits",
			allowed:        []string{"*"},
			origin:         "https://example.com",
			method:         http.MethodOptions,
			expectedStatus: http.StatusOK,
			expectedAllow:  "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, Config{AllowedOrigins: tt.allowed})
			called := false
			handler := server.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
				called = true
				okHandler(w, r)
			})

			req := httptest.NewRequest(tt.method, "/methods", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedAllow, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
			assert.Equal(t, tt.method != http.MethodOptions, called)
		})
	}
}

func TestServer_CORSMiddleware_DefaultsToWildcard(t *testing.T) {
	server := newTestServer(t, Config{})
	assert.Equal(t, []string{"*"}, server.allowedOrigins)
	assert.True(t, server.originAllowed("https://anything.example"))
}

func TestServer_OriginAllowed(t *testing.T) {
	server := newTestServer(t, Config{AllowedOrigins: []string{"https://a.example", "https://b.example"}})

	assert.True(t, server.originAllowed(""), "non-browser clients send no Origin")
	assert.True(t, server.originAllowed("https://b.example"))
	assert.False(t, server.originAllowed("https://c.example"))
}

func TestServer_CORSMiddleware_CapturesStatus(t *testing.T) {
	server := newTestServer(t, Config{})
	handler := server.corsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/methods", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestServer_RateLimitMiddleware(t *testing.T) {
	t.Run("disabled passes through", func(t *testing.T) {
		server := newTestServer(t, Config{})
		require.Nil(t, server.rateLimiter)

		handler := server.rateLimitMiddleware(okHandler)
		for range 5 {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest(http.MethodGet, "/methods", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("minute limit rejects with retry header", func(t *testing.T) {
		server := newTestServer(t, Config{RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 2}})
		handler := server.rateLimitMiddleware(okHandler)

		for range 2 {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest(http.MethodGet, "/methods", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/methods", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "minute", w.Header().Get("X-RateLimit-Type"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	})

	t.Run("clients are tracked separately", func(t *testing.T) {
		server := newTestServer(t, Config{RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 1}})
		handler := server.rateLimitMiddleware(okHandler)

		for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
			req := httptest.NewRequest(http.MethodGet, "/methods", nil)
			req.Header.Set("X-Real-IP", ip)
			w := httptest.NewRecorder()
			handler(w, req)
			assert.Equal(t, http.StatusOK, w.Code, ip)
		}
	})
}

func TestServer_RejectRequest(t *testing.T) {
	server := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/methods", nil)

	t.Run("quota exceeded", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.rejectRequest(w, req, &QuotaExceededError{
			Type:   "requests",
			Limit:  10,
			Used:   10,
			Resets: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "requests", w.Header().Get("X-Quota-Type"))
		assert.Equal(t, "10", w.Header().Get("X-Quota-Used"))
		assert.Contains(t, w.Body.String(), "quota_exceeded")
		assert.Equal(t, "0", w.Header().Get("Retry-After"), "reset already passed")
	})

	t.Run("unknown error", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.rejectRequest(w, req, assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "rate limiting check failed")
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "forwarded for takes first hop",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.5",
		},
		{
			name:       "real ip header",
			headers:    map[string]string{"X-Real-IP": " 198.51.100.7 "},
			remoteAddr: "10.0.0.1:1234",
			expected:   "198.51.100.7",
		},
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.1:5555",
			expected:   "192.0.2.1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.1",
			expected:   "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
