package preprocess

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Float constrains the tensor element types supported by the pipeline.
type Float interface {
	~float32 | ~float64
}

// ToCHW converts an image to a normalized channel-first tensor of length
// 3*h*w. Pixels are written in R,G,B channel planes scaled to [0, 1].
// Output is always channel-first, independent of the batch layout the
// caller declared.
func ToCHW[T Float](img image.Image) ([]T, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	b := img.Bounds()
	out := make([]T, 3*b.Dx()*b.Dy())
	if err := ToCHWInto(img, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToCHWInto converts img into buf, which must hold at least 3*w*h
// elements. Used by callers that recycle per-image scratch buffers.
func ToCHWInto[T Float](img image.Image, buf []T) error {
	if img == nil {
		return errors.New("input image is nil")
	}

	// Clone to NRGBA so channel access does not depend on the decoder's
	// concrete image type.
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if needed := 3 * width * height; len(buf) < needed {
		return fmt.Errorf("buffer length %d, need %d", len(buf), needed)
	}

	plane := width * height
	for y := range height {
		for x := range width {
			i := y*nrgba.Stride + x*4
			idx := y*width + x
			buf[idx] = T(nrgba.Pix[i]) / 255.0
			buf[plane+idx] = T(nrgba.Pix[i+1]) / 255.0
			buf[2*plane+idx] = T(nrgba.Pix[i+2]) / 255.0
		}
	}
	return nil
}

// ProcessFile runs the full per-image pipeline: decode, letterbox to the
// target dimensions, and convert to a normalized CHW tensor.
func ProcessFile[T Float](path string, targetWidth, targetHeight int) ([]T, Transform, error) {
	img, err := Load(path)
	if err != nil {
		return nil, Transform{}, err
	}

	boxed, tf, err := Letterbox(img, targetWidth, targetHeight)
	if err != nil {
		return nil, Transform{}, fmt.Errorf("letterbox %s: %w", path, err)
	}

	data, err := ToCHW[T](boxed)
	if err != nil {
		return nil, Transform{}, fmt.Errorf("convert %s: %w", path, err)
	}
	return data, tf, nil
}
