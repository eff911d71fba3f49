// Package testutil generates synthetic image fixtures for tests.
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

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// CreateTestImage creates a uniform image with the given dimensions and color.
func CreateTestImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// CreateLabeledImage creates a white image with the label drawn in the
// center, so individual fixtures are distinguishable when debugging.
func CreateLabeledImage(label string, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, label).Ceil()
	textHeight := face.Metrics().Height.Ceil()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{color.Black},
		Face: face,
		Dot:  fixed.P((width-textWidth)/2, (height+textHeight)/2),
	}
	drawer.DrawString(label)
	return img
}

// SaveImage writes img as PNG to path, creating parent directories.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))

	f, err := os.Create(path) //nolint:gosec // G304: test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, f.Close())
	}()

	require.NoError(t, png.Encode(f, img), "Failed to encode PNG image")
}

// WriteImageDir populates dir with n small PNG fixtures named
// img_000.png, img_001.png, ... and returns their paths in sorted order.
func WriteImageDir(t *testing.T, dir string, n, width, height int) []string {
	t.Helper()

	paths := make([]string, 0, n)
	for i := range n {
		name := fmt.Sprintf("img_%03d.png", i)
		path := filepath.Join(dir, name)
		SaveImage(t, CreateLabeledImage(name, width, height), path)
		paths = append(paths, path)
	}
	return paths
}

// WriteCorruptImage writes a file with a valid image extension but
// garbage contents.
func WriteCorruptImage(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("not a real png"), 0o600))
}
