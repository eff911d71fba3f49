package batcher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIndeterminateLayout indicates a shape descriptor that does not
// unambiguously identify the channel axis.
var ErrIndeterminateLayout = errors.New("cannot determine tensor layout from shape")

// Layout identifies the position of the channel axis in a batch tensor.
type Layout int

const (
	LayoutUnknown Layout = iota
	LayoutNCHW           // channel-first: (N, C, H, W)
	LayoutNHWC           // channel-last: (N, H, W, C)
)

func (l Layout) String() string {
	switch l {
	case LayoutNCHW:
		return "NCHW"
	case LayoutNHWC:
		return "NHWC"
	default:
		return "unknown"
	}
}

// Shape describes the target batch tensor as (N, D1, D2, D3). Whichever
// of D1 or D3 equals 3 is the channel axis; that position decides whether
// the layout is channel-first or channel-last.
type Shape struct {
	N  int
	D1 int
	D2 int
	D3 int
}

// ParseShape parses a shape string such as "1x3x640x640". Both "x" and
// "," separators are accepted.
func ParseShape(s string) (Shape, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == 'X' || r == ',' })
	if len(parts) != 4 {
		return Shape{}, fmt.Errorf("shape %q: want 4 dimensions, got %d", s, len(parts))
	}
	dims := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Shape{}, fmt.Errorf("shape %q: invalid dimension %q", s, p)
		}
		dims[i] = v
	}
	return Shape{N: dims[0], D1: dims[1], D2: dims[2], D3: dims[3]}, nil
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%dx%d", s.N, s.D1, s.D2, s.D3)
}

// BatchSize returns the N component.
func (s Shape) BatchSize() int { return s.N }

// Elems returns the total element count of the full batch tensor.
func (s Shape) Elems() int { return s.N * s.D1 * s.D2 * s.D3 }

// SampleElems returns the element count of a single image slot.
func (s Shape) SampleElems() int { return s.D1 * s.D2 * s.D3 }

// Dims returns the shape as int64 dimensions for tensor construction.
func (s Shape) Dims() []int64 {
	return []int64{int64(s.N), int64(s.D1), int64(s.D2), int64(s.D3)}
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	for i, v := range []int{s.N, s.D1, s.D2, s.D3} {
		if v <= 0 {
			return fmt.Errorf("shape %s: dimension %d must be > 0", s, i)
		}
	}
	return nil
}

// Layout resolves the channel axis position. Exactly one of D1 or D3 must
// equal 3; if neither or both do, the layout is unknown.
func (s Shape) Layout() Layout {
	first := s.D1 == 3
	last := s.D3 == 3
	switch {
	case first && !last:
		return LayoutNCHW
	case last && !first:
		return LayoutNHWC
	default:
		return LayoutUnknown
	}
}

// SpatialDims derives the target (width, height) from the shape. An
// unknown layout yields the (-1, -1) sentinel, which callers must reject
// before any preprocessing; it would produce meaningless resize targets.
func (s Shape) SpatialDims() (width, height int) {
	switch s.Layout() {
	case LayoutNCHW:
		return s.D3, s.D2
	case LayoutNHWC:
		return s.D2, s.D1
	default:
		return -1, -1
	}
}
