package support

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/events"
	"github.com/MeKo-Tech/scanbridge/internal/server"
	"github.com/cucumber/godog"
	"github.com/gorilla/websocket"
)

// HTTPHarness serves the scenario bridge through an httptest server.
type HTTPHarness struct {
	Server  *httptest.Server
	App     *server.Server
	Channel *websocket.Conn
	Events  *websocket.Conn

	LastStatus  int
	LastBody    string
	LastChannel server.ChannelResponse
	LastFrame   events.Event
	nextID      int
}

// Close drops every connection and stops the listener.
func (h *HTTPHarness) Close() {
	if h.Channel != nil {
		_ = h.Channel.Close()
	}
	if h.Events != nil {
		_ = h.Events.Close()
	}
	h.Server.Close()
}

func (h *HTTPHarness) wsURL(path string) string {
	return "ws" + strings.TrimPrefix(h.Server.URL, "http") + path
}

// theBridgeIsServedOverHTTP starts the server in front of the bridge.
func (testCtx *TestContext) theBridgeIsServedOverHTTP() error {
	if testCtx.Bridge == nil {
		return errors.New("no bridge created")
	}
	app := server.NewServer(server.Config{EventBuffer: 4}, testCtx.Bridge)
	testCtx.HTTP = &HTTPHarness{Server: httptest.NewServer(app.Handler()), App: app}
	return nil
}

// iRequest performs a plain HTTP request against the served bridge.
func (testCtx *TestContext) iRequest(method, path string) error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, h.Server.URL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := h.Server.Client().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	h.LastStatus, h.LastBody = resp.StatusCode, string(body)
	return nil
}

// theHTTPStatusShouldBe checks the last plain response status.
func (testCtx *TestContext) theHTTPStatusShouldBe(code int) error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	if h.LastStatus != code {
		return fmt.Errorf("expected HTTP %d, got %d: %s", code, h.LastStatus, h.LastBody)
	}
	return nil
}

// theHTTPBodyShouldContain checks the last plain response body.
func (testCtx *TestContext) theHTTPBodyShouldContain(text string) error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	if !strings.Contains(h.LastBody, text) {
		return fmt.Errorf("body %q does not contain %q", h.LastBody, text)
	}
	return nil
}

// iOpenTheCommandChannel dials /channel.
func (testCtx *TestContext) iOpenTheCommandChannel() error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	conn, resp, err := websocket.DefaultDialer.Dial(h.wsURL("/channel"), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to open command channel: %w", err)
	}
	h.Channel = conn
	return nil
}

// openingTheCommandChannelShouldBeRefused expects the upgrade to fail with 503.
func (testCtx *TestContext) openingTheCommandChannelShouldBeRefused() error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	conn, resp, err := websocket.DefaultDialer.Dial(h.wsURL("/channel"), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err == nil {
		_ = conn.Close()
		return errors.New("command channel unexpectedly opened")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("expected HTTP 503 on upgrade, got %v", err)
	}
	return nil
}

// iSendOverTheChannel writes one request and reads its answer.
func (testCtx *TestContext) iSendOverTheChannel(method, args string) error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	if h.Channel == nil {
		return errors.New("command channel not open")
	}
	h.nextID++
	req := server.ChannelRequest{ID: fmt.Sprintf("req-%d", h.nextID), Method: method}
	if args != "" {
		req.Arguments = json.RawMessage(args)
	}
	if err := h.Channel.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	_ = h.Channel.SetReadDeadline(time.Now().Add(ResponseTimeout))
	var resp server.ChannelResponse
	if err := h.Channel.ReadJSON(&resp); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.ID != req.ID {
		return fmt.Errorf("response id %q does not match request id %q", resp.ID, req.ID)
	}
	h.LastChannel = resp
	return nil
}

// iSendWithoutArgumentsOverTheChannel writes a request with no argument.
func (testCtx *TestContext) iSendWithoutArgumentsOverTheChannel(method string) error {
	return testCtx.iSendOverTheChannel(method, "")
}

// theChannelStatusShouldBe checks the last channel answer's status.
func (testCtx *TestContext) theChannelStatusShouldBe(status string) error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	if h.LastChannel.Status != status {
		return fmt.Errorf("expected channel status %q, got %+v", status, h.LastChannel)
	}
	return nil
}

// theChannelResultShouldBe compares the last channel result as JSON.
func (testCtx *TestContext) theChannelResultShouldBe(expected string) error {
	if err := testCtx.theChannelStatusShouldBe("success"); err != nil {
		return err
	}
	return jsonEqual(expected, testCtx.HTTP.LastChannel.Result)
}

// theChannelErrorShouldBe checks the wire name of the last channel error.
func (testCtx *TestContext) theChannelErrorShouldBe(name string) error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	if h.LastChannel.Error == nil {
		return fmt.Errorf("expected channel error %s, got %+v", name, h.LastChannel)
	}
	if h.LastChannel.Error.Name != name {
		return fmt.Errorf("expected channel error %s, got %s (%s)", name, h.LastChannel.Error.Name, h.LastChannel.Error.Message)
	}
	return nil
}

// iOpenTheEventChannel dials /events and waits until it is the listener.
func (testCtx *TestContext) iOpenTheEventChannel() error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	conn, resp, err := websocket.DefaultDialer.Dial(h.wsURL("/events"), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to open event channel: %w", err)
	}
	h.Events = conn

	deadline := time.Now().Add(ResponseTimeout)
	for !testCtx.Bridge.Stream().HasSubscriber() {
		if time.Now().After(deadline) {
			return errors.New("event channel never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

// iShouldReceiveAnEventFrameWithText reads the next event frame.
func (testCtx *TestContext) iShouldReceiveAnEventFrameWithText(text string) error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	if h.Events == nil {
		return errors.New("event channel not open")
	}
	_ = h.Events.SetReadDeadline(time.Now().Add(ResponseTimeout))
	_, data, err := h.Events.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read event frame: %w", err)
	}
	var ev events.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("event frame is not JSON: %w", err)
	}
	h.LastFrame = ev
	for _, r := range ev.Results {
		if r.TextualData == text {
			return nil
		}
	}
	return fmt.Errorf("event frame has no result with text %q: %s", text, data)
}

// theServedBridgeIsClosed disposes the bridge through the server.
func (testCtx *TestContext) theServedBridgeIsClosed() error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	return h.App.Close()
}

// theCommandChannelShouldBeClosedByTheServer expects the next read to fail.
func (testCtx *TestContext) theCommandChannelShouldBeClosedByTheServer() error {
	h, err := testCtx.harness()
	if err != nil {
		return err
	}
	if h.Channel == nil {
		return errors.New("command channel not open")
	}
	_ = h.Channel.SetReadDeadline(time.Now().Add(ResponseTimeout))
	if _, _, err := h.Channel.ReadMessage(); err == nil {
		return errors.New("command channel still delivering messages")
	}
	return nil
}

func (testCtx *TestContext) harness() (*HTTPHarness, error) {
	if testCtx.HTTP == nil {
		return nil, errors.New("bridge is not served over HTTP")
	}
	return testCtx.HTTP, nil
}

// RegisterServerSteps registers HTTP and WebSocket transport steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the bridge is served over HTTP$`, testCtx.theBridgeIsServedOverHTTP)
	sc.Step(`^I request "([^"]*)" "([^"]*)"$`, testCtx.iRequest)
	sc.Step(`^the HTTP status should be (\d+)$`, testCtx.theHTTPStatusShouldBe)
	sc.Step(`^the HTTP body should contain "([^"]*)"$`, testCtx.theHTTPBodyShouldContain)

	sc.Step(`^I open the command channel$`, testCtx.iOpenTheCommandChannel)
	sc.Step(`^opening the command channel should be refused$`, testCtx.openingTheCommandChannelShouldBeRefused)
	sc.Step(`^I send "([^"]*)" with '([^']*)' over the channel$`, testCtx.iSendOverTheChannel)
	sc.Step(`^I send "([^"]*)" over the channel$`, testCtx.iSendWithoutArgumentsOverTheChannel)
	sc.Step(`^the channel status should be "([^"]*)"$`, testCtx.theChannelStatusShouldBe)
	sc.Step(`^the channel result should be '([^']*)'$`, testCtx.theChannelResultShouldBe)
	sc.Step(`^the channel error should be "([^"]*)"$`, testCtx.theChannelErrorShouldBe)

	sc.Step(`^I open the event channel$`, testCtx.iOpenTheEventChannel)
	sc.Step(`^I should receive an event frame with text "([^"]*)"$`, testCtx.iShouldReceiveAnEventFrameWithText)
	sc.Step(`^the served bridge is closed$`, testCtx.theServedBridgeIsClosed)
	sc.Step(`^the command channel should be closed by the server$`, testCtx.theCommandChannelShouldBeClosedByTheServer)
}
