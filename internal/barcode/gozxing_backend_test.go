package barcode

import (
	"context"
	"image"
	"testing"

	"github.com/MeKo-Tech/scanbridge/internal/testutil"
	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderQR(t *testing.T, text string) image.Image {
	t.Helper()
	return testutil.MustRender(t, testutil.QRSymbol(text))
}

func TestGozxingBackendDecodesQR(t *testing.T) {
	b := NewBackend()
	res, err := b.Decode(context.Background(), renderQR(t, "hello bridge"), Options{})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, QR, res[0].Type)
	assert.Equal(t, "hello bridge", res[0].Text)
	assert.NotEmpty(t, res[0].Points)
	assert.False(t, res[0].BBox.Empty())
}

func TestGozxingBackendDecodesLinear(t *testing.T) {
	tests := []struct {
		name   string
		symbol testutil.Symbol
		want   Type
	}{
		{"code 128", testutil.Code128Symbol("SHIP-0042"), Code128},
		{"ean-8", testutil.Symbol{Format: gozxing.BarcodeFormat_EAN_8, Text: "96385074", Size: testutil.LinearSize}, Ean8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := testutil.MustRender(t, tt.symbol)
			res, err := NewBackend().Decode(context.Background(), img, Options{Types: []Type{tt.want}})
			require.NoError(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, tt.want, res[0].Type)
			assert.Equal(t, tt.symbol.Text, res[0].Text)
		})
	}
}

func TestGozxingBackendRespectsEnabledTypes(t *testing.T) {
	b := NewBackend()
	res, err := b.Decode(context.Background(), renderQR(t, "skip me"), Options{Types: []Type{Code128}})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestGozxingBackendBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	res, err := NewBackend().Decode(context.Background(), img, Options{TryHarder: true})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestGozxingBackendNilImage(t *testing.T) {
	_, err := NewBackend().Decode(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestGozxingBackendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBackend().Decode(ctx, renderQR(t, "x"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodable(t *testing.T) {
	assert.True(t, Decodable(QR))
	assert.True(t, Decodable(ITF14))
	assert.False(t, Decodable(MaxiCode))
	assert.False(t, Decodable(PDF417), "PDF417 is configurable but has no software reader")
}
