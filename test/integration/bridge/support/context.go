package support

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/MeKo-Tech/scanbridge/internal/engine"
	"github.com/MeKo-Tech/scanbridge/internal/events"
)

// ResponseTimeout bounds every wait for a command answer or an event.
const ResponseTimeout = 3 * time.Second

// TestContext holds the state for one scenario.
type TestContext struct {
	// Bridge under test
	Bridge  *bridge.Bridge
	Engine  *engine.Software
	Backend *ScriptedBackend
	// Decoder overrides Backend when set.
	Decoder barcode.Backend

	// Last command state
	LastMethod   string
	LastResponse bridge.Response
	Responses    []bridge.Response

	// Event stream state
	Subscription *events.Subscription
	LastEvent    *events.Event

	// Served bridge state
	HTTP *HTTPHarness

	// Test environment
	TempDir      string
	DocumentPath string
	cancelWatch  context.CancelFunc
	watchDone    chan struct{}
	watchApplied chan error
}

// ScriptedBackend reports the configured results for every frame.
type ScriptedBackend struct {
	mu      sync.Mutex
	results []barcode.Result
}

// SetResults replaces what the backend reports.
func (s *ScriptedBackend) SetResults(results ...barcode.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append([]barcode.Result(nil), results...)
}

// Decode implements barcode.Backend.
func (s *ScriptedBackend) Decode(context.Context, image.Image, barcode.Options) ([]barcode.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]barcode.Result(nil), s.results...), nil
}

// NewTestContext creates a fresh scenario context with its own temp dir.
func NewTestContext() (*TestContext, error) {
	dir, err := os.MkdirTemp("", "scanbridge-it-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return &TestContext{TempDir: dir, Backend: &ScriptedBackend{}}, nil
}

// WhiteFrame is the blank camera frame the static source serves.
func WhiteFrame() image.Image {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// StartBridge creates the bridge under test. document may be empty.
func (testCtx *TestContext) StartBridge(licenseKey, document string) error {
	if testCtx.Bridge != nil {
		return errors.New("bridge already created")
	}
	var decoder barcode.Backend = testCtx.Backend
	if testCtx.Decoder != nil {
		decoder = testCtx.Decoder
	}
	eng := engine.NewSoftware(engine.Options{
		Source:        engine.NewStaticSource(WhiteFrame()),
		Backend:       decoder,
		FrameInterval: 5 * time.Millisecond,
		MaxZoom:       4,
	})
	b, err := bridge.New(eng, bridge.CreationParams{LicenseKey: licenseKey, Document: document}, bridge.Options{})
	if err != nil {
		return err
	}
	testCtx.Bridge, testCtx.Engine = b, eng
	return nil
}

// Dispatch sends one raw command and waits for its answer.
func (testCtx *TestContext) Dispatch(method, args string) error {
	if testCtx.Bridge == nil {
		return errors.New("no bridge created")
	}
	var raw []byte
	if args != "" {
		raw = []byte(args)
	}
	ch := make(chan bridge.Response, 2)
	testCtx.Bridge.Dispatch(context.Background(), method, raw, func(r bridge.Response) { ch <- r })

	select {
	case resp := <-ch:
		testCtx.LastMethod = method
		testCtx.LastResponse = resp
		testCtx.Responses = append(testCtx.Responses, resp)
	case <-time.After(ResponseTimeout):
		return fmt.Errorf("no response for %s within %s", method, ResponseTimeout)
	}

	select {
	case extra := <-ch:
		return fmt.Errorf("%s answered twice, second answer: %s", method, extra.Status)
	default:
	}
	return nil
}

// Cleanup releases everything the scenario created.
func (testCtx *TestContext) Cleanup() error {
	var errs []error
	if testCtx.cancelWatch != nil {
		testCtx.cancelWatch()
		<-testCtx.watchDone
	}
	if testCtx.HTTP != nil {
		testCtx.HTTP.Close()
		testCtx.HTTP = nil
	}
	if testCtx.Bridge != nil {
		testCtx.Bridge.Dispose()
	}
	if testCtx.TempDir != "" {
		if err := os.RemoveAll(testCtx.TempDir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove temp dir: %w", err))
		}
	}
	return errors.Join(errs...)
}
