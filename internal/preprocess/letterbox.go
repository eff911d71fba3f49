package preprocess

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// padFill is the letterbox border color, matching the gray used by YOLO
// family preprocessing.
var padFill = color.NRGBA{R: 114, G: 114, B: 114, A: 255}

// Transform records how an image's pixel coordinates map into the
// letterboxed tensor: the uniform scale factor and the padding offsets on
// each axis. Inference results are projected back onto the original image
// by inverting it.
type Transform struct {
	Scale     float64
	PadX      int
	PadY      int
	SrcWidth  int
	SrcHeight int
}

// ToOriginal maps a point in letterboxed coordinates back to the original
// image's coordinate space.
func (t Transform) ToOriginal(x, y float64) (float64, float64) {
	return (x - float64(t.PadX)) / t.Scale, (y - float64(t.PadY)) / t.Scale
}

// Identity reports whether the transform left the image untouched.
func (t Transform) Identity() bool {
	return t.Scale == 1 && t.PadX == 0 && t.PadY == 0
}

// Letterbox fits img into a targetWidth x targetHeight box without
// cropping: the image is resized preserving aspect ratio and centered on a
// gray canvas. The returned Transform describes the scale and padding
// applied.
func Letterbox(img image.Image, targetWidth, targetHeight int) (*image.NRGBA, Transform, error) {
	if img == nil {
		return nil, Transform{}, errors.New("input image is nil")
	}
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, Transform{}, fmt.Errorf("invalid target dimensions %dx%d", targetWidth, targetHeight)
	}

	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, Transform{}, fmt.Errorf("invalid source dimensions %dx%d", srcW, srcH)
	}

	scale := math.Min(float64(targetWidth)/float64(srcW), float64(targetHeight)/float64(srcH))
	newW := int(math.Round(float64(srcW) * scale))
	newH := int(math.Round(float64(srcH) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	resized := imaging.Resize(img, newW, newH, imaging.Linear)

	padX := (targetWidth - newW) / 2
	padY := (targetHeight - newH) / 2

	canvas := imaging.New(targetWidth, targetHeight, padFill)
	out := imaging.Paste(canvas, resized, image.Pt(padX, padY))

	tf := Transform{
		Scale:     scale,
		PadX:      padX,
		PadY:      padY,
		SrcWidth:  srcW,
		SrcHeight: srcH,
	}
	return out, tf, nil
}
