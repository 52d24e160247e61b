package utils

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("a.png"))
	assert.True(t, IsSupportedImage("a.JPG"))
	assert.True(t, IsSupportedImage("dir/b.jpeg"))
	assert.True(t, IsSupportedImage("c.bmp"))
	assert.False(t, IsSupportedImage("d.tiff"))
	assert.False(t, IsSupportedImage("noext"))
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.png")

	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	f, err := os.Create(path) //nolint:gosec
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	loaded, meta, err := LoadImage(path)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, 8, meta.Width)
	assert.Equal(t, 6, meta.Height)
	assert.Positive(t, meta.SizeBytes)
}

func TestLoadImageErrors(t *testing.T) {
	_, _, err := LoadImage("")
	assert.Error(t, err)

	_, _, err = LoadImage("missing.png")
	assert.Error(t, err)

	_, _, err = LoadImage("unsupported.tiff")
	assert.Error(t, err)
}

func TestDrawLineEndpoints(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{R: 255, A: 255}

	DrawLine(dst, image.Pt(1, 1), image.Pt(8, 8), red, 1)

	assert.Equal(t, red, dst.RGBAAt(1, 1))
	assert.Equal(t, red, dst.RGBAAt(8, 8))
	assert.Equal(t, red, dst.RGBAAt(4, 4))
}

func TestDrawLineClipsToBounds(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	// Endpoints outside the image must not panic.
	DrawLine(dst, image.Pt(-3, -3), image.Pt(10, 10), color.White, 3)
}

func TestDrawMarker(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	green := color.RGBA{G: 255, A: 255}

	DrawMarker(dst, image.Pt(5, 5), green, 2)
	assert.Equal(t, green, dst.RGBAAt(5, 5))
	assert.Equal(t, green, dst.RGBAAt(3, 3))
	assert.Equal(t, green, dst.RGBAAt(7, 7))
	assert.NotEqual(t, green, dst.RGBAAt(8, 8))

	// Near the border the marker clips instead of panicking.
	DrawMarker(dst, image.Pt(0, 0), green, 3)
}
