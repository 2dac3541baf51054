package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRequest_Deserialization(t *testing.T) {
	var req ChannelRequest
	err := json.Unmarshal([]byte(`{"id":"7","method":"setRegionOfInterest","arguments":{"left":1,"top":2,"width":3,"height":4}}`), &req)
	require.NoError(t, err)

	assert.Equal(t, "7", req.ID)
	assert.Equal(t, "setRegionOfInterest", req.Method)
	assert.JSONEq(t, `{"left":1,"top":2,"width":3,"height":4}`, string(req.Arguments))
}

func TestToChannelResponse(t *testing.T) {
	tests := []struct {
		name     string
		resp     bridge.Response
		expected string
	}{
		{
			name:     "success with value",
			resp:     bridge.Response{Status: bridge.StatusSuccess, Value: "#FF00FF00"},
			expected: `{"id":"1","status":"success","result":"#FF00FF00"}`,
		},
		{
			name:     "success without value",
			resp:     bridge.Response{Status: bridge.StatusSuccess},
			expected: `{"id":"1","status":"success"}`,
		},
		{
			name: "failure",
			resp: bridge.Response{
				Status: bridge.StatusError,
				Err:    bridge.NewFailure(bridge.ColorNotSet, "bad hex"),
			},
			expected: `{"id":"1","status":"error","error":{"code":4,"name":"COLOR_NOT_SET","message":"Color not set: bad hex"}}`,
		},
		{
			name:     "not implemented",
			resp:     bridge.Response{Status: bridge.StatusNotImplemented},
			expected: `{"id":"1","status":"notImplemented"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(toChannelResponse("1", tt.resp))
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestChannelError_Nil(t *testing.T) {
	assert.Nil(t, channelError(nil))
}

func TestNewServer_Defaults(t *testing.T) {
	server := newTestServer(t, Config{EventBuffer: 8})

	assert.Equal(t, []string{"*"}, server.allowedOrigins)
	assert.Equal(t, 8, server.eventBuffer)
	assert.Nil(t, server.rateLimiter)
	assert.NotNil(t, server.registry)
	assert.NotNil(t, server.metrics)
}

func TestNewServer_RateLimitEnabled(t *testing.T) {
	server := newTestServer(t, Config{RateLimit: RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		RequestsPerHour:   600,
		MaxRequestsPerDay: 5000,
		MaxDataPerDay:     1 << 20,
	}})

	require.NotNil(t, server.rateLimiter)
	assert.Equal(t, 60, server.rateLimiter.requestsPerMinute)
	assert.Equal(t, int64(1<<20), server.rateLimiter.maxDataPerDay)
}

func TestServer_SetupRoutes(t *testing.T) {
	server := newTestServer(t, Config{})

	r := mux.NewRouter()
	server.SetupRoutes(r)

	for _, path := range []string{"/health", "/methods", "/metrics", "/channel", "/events"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		var match mux.RouteMatch
		assert.True(t, r.Match(req, &match), "route %s", path)
	}

	req := httptest.NewRequest(http.MethodPost, "/channel", nil)
	var match mux.RouteMatch
	assert.False(t, r.Match(req, &match), "channel only accepts GET upgrades")
	assert.ErrorIs(t, match.MatchErr, mux.ErrMethodMismatch)
}

func TestServer_Close(t *testing.T) {
	server := newTestServer(t, Config{})

	require.NoError(t, server.Close())
	assert.True(t, server.Bridge().Disposed())
	assert.NoError(t, server.Close(), "close is idempotent")
}

func TestServer_DetachRejectsNewChannels(t *testing.T) {
	server := newTestServer(t, Config{})
	server.Detach()

	for _, path := range []string{"/channel", "/events"} {
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestJSON_FieldNames(t *testing.T) {
	data, err := json.Marshal(HealthResponse{Status: "healthy", Version: "dev", Bridge: "b", Time: "now"})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, k := range []string{"status", "version", "bridge", "disposed", "time"} {
		assert.Contains(t, m, k)
	}

	data, err = json.Marshal(MethodsResponse{Methods: []string{"a"}, Count: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"methods":["a"],"count":1}`, string(data))
}
