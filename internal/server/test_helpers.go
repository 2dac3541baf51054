package server

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/MeKo-Tech/scanbridge/internal/engine"
	"github.com/MeKo-Tech/scanbridge/internal/global"
	"github.com/stretchr/testify/require"
)

// stubBackend reports the same results for every frame.
type stubBackend struct {
	results []barcode.Result
}

func (s stubBackend) Decode(context.Context, image.Image, barcode.Options) ([]barcode.Result, error) {
	return append([]barcode.Result(nil), s.results...), nil
}

func blankFrame() image.Image {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// newTestBridge builds a bridge over a software engine that "sees" results
// in every frame.
func newTestBridge(t *testing.T, results ...barcode.Result) *bridge.Bridge {
	t.Helper()
	eng := engine.NewSoftware(engine.Options{
		Source:        engine.NewStaticSource(blankFrame()),
		Backend:       stubBackend{results: results},
		FrameInterval: 5 * time.Millisecond,
	})
	g, err := global.Init(global.Defaults())
	require.NoError(t, err)
	b, err := bridge.New(eng, bridge.CreationParams{LicenseKey: "test-key"}, bridge.Options{Globals: g})
	require.NoError(t, err)
	t.Cleanup(b.Dispose)
	return b
}

// newTestServer returns a server over a fresh bridge, closed at test end.
func newTestServer(t *testing.T, cfg Config, results ...barcode.Result) *Server {
	t.Helper()
	s := NewServer(cfg, newTestBridge(t, results...))
	t.Cleanup(func() { _ = s.Close() })
	return s
}
