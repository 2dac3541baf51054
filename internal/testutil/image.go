// Package testutil renders barcode images for tests.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common symbol sizes.
	SquareSize = ImageSize{240, 240}
	LinearSize = ImageSize{360, 120}
)

// Symbol describes one barcode image to render.
type Symbol struct {
	Format gozxing.BarcodeFormat
	Text   string
	Size   ImageSize
	// Caption prints Text under the symbol the way printed labels do.
	Caption  bool
	Rotation float64 // rotation in degrees
}

// QRSymbol returns a square QR symbol for text.
func QRSymbol(text string) Symbol {
	return Symbol{Format: gozxing.BarcodeFormat_QR_CODE, Text: text, Size: SquareSize}
}

// Code128Symbol returns a linear Code 128 symbol for text.
func Code128Symbol(text string) Symbol {
	return Symbol{Format: gozxing.BarcodeFormat_CODE_128, Text: text, Size: LinearSize}
}

func writerFor(format gozxing.BarcodeFormat) (gozxing.Writer, error) {
	switch format {
	case gozxing.BarcodeFormat_QR_CODE:
		return qrcode.NewQRCodeWriter(), nil
	case gozxing.BarcodeFormat_CODE_128:
		return oned.NewCode128Writer(), nil
	case gozxing.BarcodeFormat_EAN_8:
		return oned.NewEAN8Writer(), nil
	case gozxing.BarcodeFormat_EAN_13:
		return oned.NewEAN13Writer(), nil
	}
	return nil, fmt.Errorf("no writer for format %v", format)
}

// Render draws s on a white background.
func Render(s Symbol) (*image.RGBA, error) {
	w, err := writerFor(s.Format)
	if err != nil {
		return nil, err
	}
	bm, err := w.Encode(s.Text, s.Format, s.Size.Width, s.Size.Height, nil)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", s.Text, err)
	}

	face := basicfont.Face7x13
	captionHeight := 0
	if s.Caption {
		captionHeight = face.Metrics().Height.Ceil() * 2
	}

	img := image.NewRGBA(image.Rect(0, 0, bm.GetWidth(), bm.GetHeight()+captionHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	for y := 0; y < bm.GetHeight(); y++ {
		for x := 0; x < bm.GetWidth(); x++ {
			if bm.Get(x, y) {
				img.Set(x, y, color.Black)
			}
		}
	}

	if s.Caption {
		drawer := &font.Drawer{Dst: img, Src: &image.Uniform{color.Black}, Face: face}
		textWidth := font.MeasureString(face, s.Text).Ceil()
		drawer.Dot = fixed.P((img.Bounds().Dx()-textWidth)/2, bm.GetHeight()+captionHeight*3/4)
		drawer.DrawString(s.Text)
	}

	if s.Rotation != 0 {
		rotated := imaging.Rotate(img, s.Rotation, color.White)
		rgba := image.NewRGBA(rotated.Bounds())
		draw.Draw(rgba, rgba.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
		return rgba, nil
	}
	return img, nil
}

// MustRender renders s and fails the test on error.
func MustRender(t *testing.T, s Symbol) image.Image {
	t.Helper()
	img, err := Render(s)
	require.NoError(t, err, "Failed to render %q", s.Text)
	return img
}

// CreateTestImage creates a plain image with the specified dimensions and color.
func CreateTestImage(width, height int, backgroundColor color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}

// SaveImage saves an image as PNG, creating parent directories.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, os.MkdirAll(dir, 0o750), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	require.NoError(t, png.Encode(file, img), "Failed to encode PNG image")
}

// WriteSymbol renders s into path and returns path.
func WriteSymbol(t *testing.T, path string, s Symbol) string {
	t.Helper()
	SaveImage(t, MustRender(t, s), path)
	return path
}
