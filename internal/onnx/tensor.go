// Package onnx wraps the ONNX Runtime bindings used by the inference
// driver: shared-library discovery, environment lifecycle, a dynamic
// session wrapper, and a simple float32 tensor type.
package onnx

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/imagebatch/internal/batcher"
)

// Tensor is a float32 tensor in row-major order, NCHW for image batches.
type Tensor struct {
	Data  []float32
	Shape []int64
}

// FromBatch wraps a produced batch tensor without copying. The batch must
// not be released while the tensor is in use.
func FromBatch(b *batcher.Batch[float32]) Tensor {
	return Tensor{Data: b.Data, Shape: b.Shape.Dims()}
}

// Validate checks that the tensor is 4-dimensional with positive
// dimensions and that the data length matches the shape product.
func (t Tensor) Validate() error {
	if len(t.Shape) != 4 {
		return fmt.Errorf("shape rank %d != 4", len(t.Shape))
	}
	elems := int64(1)
	for i, v := range t.Shape {
		if v <= 0 {
			return fmt.Errorf("dimension %d must be > 0, got %d", i, v)
		}
		elems *= v
	}
	if int64(len(t.Data)) != elems {
		return fmt.Errorf("data length %d != expected %d for shape %v", len(t.Data), elems, t.Shape)
	}
	return nil
}

// Stats computes min, max and mean for debug output.
func (t Tensor) Stats() (minVal, maxVal, mean float32) {
	if len(t.Data) == 0 {
		return 0, 0, 0
	}
	minVal, maxVal = t.Data[0], t.Data[0]
	var sum float64
	for _, v := range t.Data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
		sum += float64(v)
	}
	mean = float32(sum / float64(len(t.Data)))
	return minVal, maxVal, mean
}

// ErrEmptyTensor indicates an inference output with no data.
var ErrEmptyTensor = errors.New("empty tensor")
