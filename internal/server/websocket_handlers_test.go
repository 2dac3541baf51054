package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/MeKo-Tech/scanbridge/internal/events"
	"github.com/MeKo-Tech/scanbridge/internal/utils"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWebSocketConn records written frames. Async command replies write
// from other goroutines, so it is safe for concurrent use.
type mockWebSocketConn struct {
	mu           sync.Mutex
	sentMessages []sentMessage
	notify       chan struct{}
	failWrites   bool
}

type sentMessage struct {
	messageType int
	data        []byte
}

func newMockConn() *mockWebSocketConn {
	return &mockWebSocketConn{notify: make(chan struct{}, 64)}
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("connection reset")
	}
	m.sentMessages = append(m.sentMessages, sentMessage{
		messageType: messageType,
		data:        data,
	})
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return nil
}

func (m *mockWebSocketConn) getSentMessages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sentMessages...)
}

// waitResponses blocks until n frames were written and decodes them.
func (m *mockWebSocketConn) waitResponses(t *testing.T, n int) []ChannelResponse {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for len(m.getSentMessages()) < n {
		select {
		case <-m.notify:
		case <-deadline:
			t.Fatalf("expected %d messages, got %d", n, len(m.getSentMessages()))
		}
	}
	var out []ChannelResponse
	for _, msg := range m.getSentMessages() {
		assert.Equal(t, websocket.TextMessage, msg.messageType)
		var resp ChannelResponse
		require.NoError(t, json.Unmarshal(msg.data, &resp))
		out = append(out, resp)
	}
	return out
}

func TestServer_HandleChannelMessage(t *testing.T) {
	tests := []struct {
		name       string
		request    string
		status     string
		errorCode  int
		result     any
		generateID bool
	}{
		{
			name:      "invalid JSON",
			request:   `{"id":`,
			status:    "error",
			errorCode: int(bridge.InvalidArguments),
		},
		{
			name:    "unknown method",
			request: `{"id":"a","method":"teleport"}`,
			status:  "notImplemented",
		},
		{
			name:    "setter success",
			request: `{"id":"b","method":"setRoiLineColor","arguments":"#FF112233"}`,
			status:  "success",
		},
		{
			name:      "setter failure",
			request:   `{"id":"c","method":"setRoiLineColor","arguments":"not-a-color"}`,
			status:    "error",
			errorCode: int(bridge.ColorNotSet),
		},
		{
			name:      "wrong argument shape",
			request:   `{"id":"d","method":"setRoiLineWidth","arguments":"wide"}`,
			status:    "error",
			errorCode: int(bridge.InvalidArguments),
		},
		{
			name:       "missing id is generated",
			request:    `{"method":"getVersion"}`,
			status:     "success",
			generateID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, Config{})
			conn := newMockConn()

			server.handleChannelMessage(context.Background(), conn, []byte(tt.request))

			resp := conn.waitResponses(t, 1)[0]
			assert.Equal(t, tt.status, resp.Status)
			assert.NotEmpty(t, resp.ID)
			if tt.generateID {
				assert.Len(t, resp.ID, 36)
			}
			if tt.errorCode != 0 || tt.status == "error" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.errorCode, resp.Error.Code)
				assert.NotEmpty(t, resp.Error.Name)
			} else {
				assert.Nil(t, resp.Error)
			}
		})
	}
}

func TestServer_HandleChannelMessage_SetThenGet(t *testing.T) {
	server := newTestServer(t, Config{})
	conn := newMockConn()
	ctx := context.Background()

	server.handleChannelMessage(ctx, conn, []byte(`{"id":"1","method":"setRoiLineColor","arguments":"#80FF0000"}`))
	server.handleChannelMessage(ctx, conn, []byte(`{"id":"2","method":"getRoiLineColorHex"}`))

	responses := conn.waitResponses(t, 2)
	assert.Equal(t, "1", responses[0].ID)
	assert.Equal(t, "2", responses[1].ID)
	assert.Equal(t, "#80FF0000", responses[1].Result)
}

func TestServer_HandleChannelMessage_AsyncReply(t *testing.T) {
	server := newTestServer(t, Config{})
	conn := newMockConn()

	server.handleChannelMessage(context.Background(), conn, []byte(`{"id":"zoom","method":"getMaxZoomFactor"}`))

	resp := conn.waitResponses(t, 1)[0]
	assert.Equal(t, "zoom", resp.ID)
	assert.Equal(t, "success", resp.Status)
	assert.IsType(t, float64(0), resp.Result)
}

func TestServer_HandleChannelMessage_Disposed(t *testing.T) {
	server := newTestServer(t, Config{})
	server.Bridge().Dispose()
	conn := newMockConn()

	server.handleChannelMessage(context.Background(), conn, []byte(`{"id":"x","method":"getVersion"}`))

	resp := conn.waitResponses(t, 1)[0]
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(bridge.BarkoderViewDestroyed), resp.Error.Code)
}

func TestServer_PumpEvents(t *testing.T) {
	server := newTestServer(t, Config{})

	t.Run("forwards until stream closes", func(t *testing.T) {
		conn := newMockConn()
		in := make(chan events.Event, 2)
		in <- events.Event{Results: []events.Result{events.NewResult(2, "QR", "hello", nil, "", nil)}}
		in <- events.Event{SessionEnded: true}
		close(in)

		ended := server.pumpEvents(conn, in, make(chan struct{}))

		assert.True(t, ended)
		sent := conn.getSentMessages()
		require.Len(t, sent, 2)
		assert.Contains(t, string(sent[0].data), `"textualData":"hello"`)
		assert.Contains(t, string(sent[1].data), `"sessionEnded":true`)
	})

	t.Run("stops when client leaves", func(t *testing.T) {
		done := make(chan struct{})
		close(done)
		assert.False(t, server.pumpEvents(newMockConn(), make(chan events.Event), done))
	})

	t.Run("stops on write failure", func(t *testing.T) {
		conn := newMockConn()
		conn.failWrites = true
		in := make(chan events.Event, 1)
		in <- events.Event{}
		assert.False(t, server.pumpEvents(conn, in, make(chan struct{})))
	})
}

func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	require.NoError(t, conn.ReadJSON(v))
}

func TestServer_ChannelEndToEnd(t *testing.T) {
	server := newTestServer(t, Config{})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "/channel")

	require.NoError(t, conn.WriteJSON(ChannelRequest{ID: "1", Method: "setBarcodeTypeEnabled", Arguments: json.RawMessage(`{"type":2,"enabled":true}`)}))
	require.NoError(t, conn.WriteJSON(ChannelRequest{ID: "2", Method: "isBarcodeTypeEnabled", Arguments: json.RawMessage(`2`)}))

	var first, second ChannelResponse
	readJSON(t, conn, &first)
	readJSON(t, conn, &second)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "success", first.Status)
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, true, second.Result)
}

func TestServer_EventsEndToEnd(t *testing.T) {
	server := newTestServer(t, Config{EventBuffer: 4}, barcode.Result{Type: barcode.QR, Text: "scanbridge"})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	eventsConn := dialWS(t, ts, "/events")
	require.Eventually(t, server.Bridge().Stream().HasSubscriber, 2*time.Second, 5*time.Millisecond)

	img, err := utils.EncodePNGBase64(blankFrame())
	require.NoError(t, err)
	channel := dialWS(t, ts, "/channel")
	args, err := json.Marshal(img)
	require.NoError(t, err)
	require.NoError(t, channel.WriteJSON(ChannelRequest{ID: "scan", Method: "scanImage", Arguments: args}))

	var resp ChannelResponse
	readJSON(t, channel, &resp)
	require.Equal(t, "success", resp.Status, "error: %+v", resp.Error)

	var ev events.Event
	readJSON(t, eventsConn, &ev)
	require.Len(t, ev.Results, 1)
	assert.Equal(t, "scanbridge", ev.Results[0].TextualData)
	assert.Equal(t, int(barcode.QR), ev.Results[0].BarcodeType)
	assert.True(t, ev.SessionEnded)
}

func TestServer_EventsDisplacedByNewListener(t *testing.T) {
	server := newTestServer(t, Config{})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	first := dialWS(t, ts, "/events")
	require.Eventually(t, server.Bridge().Stream().HasSubscriber, 2*time.Second, 5*time.Millisecond)
	_ = dialWS(t, ts, "/events")

	// The first listener receives a close frame once displaced.
	require.NoError(t, first.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := first.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
}

func TestServer_DisposeClosesChannels(t *testing.T) {
	server := newTestServer(t, Config{})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "/channel")
	require.Eventually(t, func() bool {
		server.mu.Lock()
		defer server.mu.Unlock()
		return len(server.channels) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, server.Close())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
