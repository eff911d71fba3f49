package preprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(width, height int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLetterbox_ExactFit(t *testing.T) {
	img := solidImage(64, 64, color.White)

	out, tf, err := Letterbox(img, 64, 64)
	require.NoError(t, err)

	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 64, out.Bounds().Dy())
	assert.InDelta(t, 1.0, tf.Scale, 1e-9)
	assert.Equal(t, 0, tf.PadX)
	assert.Equal(t, 0, tf.PadY)
	assert.True(t, tf.Identity())
}

func TestLetterbox_WideImagePadsVertically(t *testing.T) {
	img := solidImage(100, 50, color.White)

	out, tf, err := Letterbox(img, 64, 64)
	require.NoError(t, err)

	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 64, out.Bounds().Dy())
	assert.InDelta(t, 0.64, tf.Scale, 1e-9)
	assert.Equal(t, 0, tf.PadX)
	assert.Equal(t, 16, tf.PadY) // (64 - 32) / 2
	assert.Equal(t, 100, tf.SrcWidth)
	assert.Equal(t, 50, tf.SrcHeight)

	// Padding rows carry the gray fill, content rows stay white.
	r, g, bl, _ := out.At(32, 0).RGBA()
	assert.Equal(t, uint32(114), r>>8)
	assert.Equal(t, uint32(114), g>>8)
	assert.Equal(t, uint32(114), bl>>8)

	r, _, _, _ = out.At(32, 32).RGBA()
	assert.Equal(t, uint32(255), r>>8)
}

func TestLetterbox_SmallImageUpscales(t *testing.T) {
	// Smaller than the target: output still matches the descriptor's
	// spatial dims exactly, with a non-trivial transform.
	img := solidImage(8, 4, color.White)

	out, tf, err := Letterbox(img, 32, 32)
	require.NoError(t, err)

	assert.Equal(t, 32, out.Bounds().Dx())
	assert.Equal(t, 32, out.Bounds().Dy())
	assert.False(t, tf.Identity())
	assert.InDelta(t, 4.0, tf.Scale, 1e-9)
	assert.Equal(t, 8, tf.PadY) // (32 - 16) / 2
}

func TestLetterbox_InvalidInputs(t *testing.T) {
	_, _, err := Letterbox(nil, 32, 32)
	require.Error(t, err)

	_, _, err = Letterbox(solidImage(8, 8, color.White), 0, 32)
	require.Error(t, err)

	_, _, err = Letterbox(solidImage(8, 8, color.White), 32, -1)
	require.Error(t, err)
}

func TestTransform_ToOriginal(t *testing.T) {
	tf := Transform{Scale: 0.5, PadX: 10, PadY: 20, SrcWidth: 100, SrcHeight: 80}

	x, y := tf.ToOriginal(10, 20)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)

	x, y = tf.ToOriginal(60, 60)
	assert.InDelta(t, 100.0, x, 1e-9)
	assert.InDelta(t, 80.0, y, 1e-9)
}
