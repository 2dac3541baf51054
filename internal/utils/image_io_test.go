package utils

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("a.PNG"))
	assert.True(t, IsSupportedImage("dir/b.webp"))
	assert.False(t, IsSupportedImage("c.pdf"))
	assert.False(t, IsSupportedImage("noext"))
}

func TestPNGBase64RoundTrip(t *testing.T) {
	src := solid(8, 6, color.NRGBA{R: 200, A: 255})
	s, err := EncodePNGBase64(src)
	require.NoError(t, err)

	img, err := DecodeBase64Image(s)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())

	img, err = DecodeBase64Image("data:image/png;base64," + s)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestDecodeBase64ImageErrors(t *testing.T) {
	_, err := DecodeBase64Image("!!!")
	var ipe *ImageProcessingError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "decode", ipe.Operation)

	_, err = DecodeBase64Image("aGVsbG8=") // "hello"
	require.Error(t, err)
	_, err = DecodeBase64Image("")
	require.Error(t, err)
}

func TestLoadAndListImages(t *testing.T) {
	dir := t.TempDir()
	data, err := EncodePNG(solid(4, 4, color.White))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), data, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), data, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	paths, err := ListImages(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "a.png", filepath.Base(paths[0]))

	img, meta, err := LoadImage(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, 4, meta.Width)
	assert.NotNil(t, img)

	_, _, err = LoadImage(filepath.Join(dir, "notes.txt"))
	require.Error(t, err)
	_, err = ListImages(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestNormalizedRect(t *testing.T) {
	b := image.Rect(0, 0, 200, 100)
	assert.Equal(t, b, NormalizedRect(b, 0, 0, 1, 1))
	assert.Equal(t, image.Rect(50, 25, 150, 75), NormalizedRect(b, 0.25, 0.25, 0.5, 0.5))
}

func TestThumbnail(t *testing.T) {
	img := solid(100, 50, color.Black)
	th, err := Thumbnail(img, image.Rect(10, 10, 60, 30), 2, 32)
	require.NoError(t, err)
	assert.LessOrEqual(t, th.Bounds().Dx(), 32)
	assert.LessOrEqual(t, th.Bounds().Dy(), 32)

	_, err = Thumbnail(nil, image.Rect(0, 0, 1, 1), 0, 10)
	require.Error(t, err)
	_, err = Thumbnail(img, image.Rect(0, 0, 1, 1), 0, 0)
	require.Error(t, err)
}

func TestDrawOutline(t *testing.T) {
	img := solid(20, 20, color.White)
	out := DrawOutline(img, []image.Rectangle{image.Rect(5, 5, 15, 15)}, color.NRGBA{G: 255, A: 255}, 1)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(5, 5))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(10, 10))
}
