package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/MeKo-Tech/scanbridge/internal/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const closeWriteTimeout = time.Second

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// lockedWriter serializes writes; gorilla connections allow one writer at a time.
type lockedWriter struct {
	mu   sync.Mutex
	conn WebSocketConnWriter
}

func (w *lockedWriter) WriteMessage(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

// channelHandler upgrades to the command channel. Each text frame carries one
// ChannelRequest; responses carry the request id and may arrive out of order
// for commands that answer asynchronously.
func (s *Server) channelHandler(w http.ResponseWriter, r *http.Request) {
	if !s.attachable() {
		s.writeErrorResponse(w, "bridge is disposed", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	if !s.track(conn) {
		_ = conn.Close()
		return
	}
	defer s.untrack(conn)

	gauge := s.metrics.websocketConnections.WithLabelValues("command")
	gauge.Inc()
	defer gauge.Dec()

	slog.Info("Command channel established", "remote_addr", r.RemoteAddr, "bridge", s.bridge.ID())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	s.serveChannel(ctx, conn, &lockedWriter{conn: conn})
}

// serveChannel reads requests until the connection fails or ctx ends.
func (s *Server) serveChannel(ctx context.Context, conn *websocket.Conn, out WebSocketConnWriter) {
	for ctx.Err() == nil {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		s.metrics.websocketMessagesTotal.WithLabelValues("command", "received").Inc()
		s.handleChannelMessage(ctx, out, data)
	}
}

// handleChannelMessage dispatches one request. Requests are dispatched in
// the order they are read.
func (s *Server) handleChannelMessage(ctx context.Context, out WebSocketConnWriter, data []byte) {
	var req ChannelRequest
	if err := json.Unmarshal(data, &req); err != nil {
		f := bridge.NewFailure(bridge.InvalidArguments, "request is not valid JSON")
		s.sendChannelResponse(out, ChannelResponse{ID: uuid.NewString(), Status: bridge.StatusError.String(), Error: channelError(f)})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	label := req.Method
	if !bridge.Known(req.Method) {
		label = "unknown"
	}
	start := time.Now()
	s.bridge.Dispatch(ctx, req.Method, req.Arguments, func(resp bridge.Response) {
		s.metrics.commandsTotal.WithLabelValues(label, resp.Status.String()).Inc()
		s.metrics.commandDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		s.sendChannelResponse(out, toChannelResponse(req.ID, resp))
	})
}

func toChannelResponse(id string, resp bridge.Response) ChannelResponse {
	out := ChannelResponse{ID: id, Status: resp.Status.String()}
	switch resp.Status {
	case bridge.StatusSuccess:
		out.Result = resp.Value
	case bridge.StatusError:
		out.Error = channelError(resp.Err)
	}
	return out
}

func channelError(f *bridge.Failure) *ChannelError {
	if f == nil {
		return nil
	}
	return &ChannelError{Code: int(f.Code), Name: f.Code.Name(), Message: f.Message}
}

func (s *Server) sendChannelResponse(out WebSocketConnWriter, response ChannelResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal channel response", "id", response.ID, "error", err)
		return
	}
	if err := out.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Warn("Failed to send channel response", "id", response.ID, "error", err)
		return
	}
	s.metrics.websocketMessagesTotal.WithLabelValues("command", "sent").Inc()
}

// eventsHandler upgrades to the result stream. A new connection displaces
// the previous listener.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.attachable() {
		s.writeErrorResponse(w, "bridge is disposed", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	gauge := s.metrics.websocketConnections.WithLabelValues("events")
	gauge.Inc()
	defer gauge.Dec()

	stream := s.bridge.Stream()
	sub := stream.Subscribe(s.eventBuffer)
	defer stream.Unsubscribe(sub)

	// The client never sends on this channel; reading detects its close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	slog.Info("Event stream attached", "remote_addr", r.RemoteAddr, "bridge", s.bridge.ID())
	if s.pumpEvents(conn, sub.Events(), done) {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream closed")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
	}
}

// pumpEvents forwards events as text frames until the channel closes, the
// client goes away, or a write fails. It reports whether the stream ended
// from the bridge side.
func (s *Server) pumpEvents(out WebSocketConnWriter, in <-chan events.Event, done <-chan struct{}) bool {
	for {
		select {
		case <-done:
			return false
		case ev, ok := <-in:
			if !ok {
				return true
			}
			text, err := ev.Encode()
			if err != nil {
				slog.Error("Failed to encode scan event", "error", err)
				continue
			}
			if err := out.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				slog.Warn("Failed to send scan event", "error", err)
				return false
			}
			s.metrics.websocketMessagesTotal.WithLabelValues("events", "sent").Inc()
		}
	}
}

func (s *Server) attachable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.detached && !s.bridge.Disposed()
}

func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return false
	}
	s.channels[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	_, ok := s.channels[conn]
	delete(s.channels, conn)
	s.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}
