package batcher

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSpatialDims_ResolvesChannelAxis verifies layout inference over
// arbitrary spatial dimensions.
func TestSpatialDims_ResolvesChannelAxis(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("NCHW shapes infer (width, height) from the trailing axes", prop.ForAll(
		func(n, h, w int) bool {
			if h == 3 && w == 3 {
				return true // ambiguous by construction, covered below
			}
			gotW, gotH := (Shape{N: n, D1: 3, D2: h, D3: w}).SpatialDims()
			if w == 3 {
				// Both candidate axes match: must stay unresolved.
				return gotW == -1 && gotH == -1
			}
			return gotW == w && gotH == h
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 4096),
		gen.IntRange(1, 4096),
	))

	properties.Property("NHWC shapes infer (width, height) from the leading axes", prop.ForAll(
		func(n, h, w int) bool {
			gotW, gotH := (Shape{N: n, D1: h, D2: w, D3: 3}).SpatialDims()
			if h == 3 {
				return gotW == -1 && gotH == -1
			}
			return gotW == w && gotH == h
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 4096),
		gen.IntRange(1, 4096),
	))

	properties.Property("shapes without a channel axis stay unresolved", prop.ForAll(
		func(n, d1, d2, d3 int) bool {
			if d1 == 3 || d3 == 3 {
				return true
			}
			gotW, gotH := (Shape{N: n, D1: d1, D2: d2, D3: d3}).SpatialDims()
			return gotW == -1 && gotH == -1
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 4096),
		gen.IntRange(1, 4096),
		gen.IntRange(1, 4096),
	))

	properties.TestingRun(t)
}

// TestPartition_CoversAllImages verifies the partitioning arithmetic.
func TestPartition_CoversAllImages(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("batches partition the image list into contiguous runs", prop.ForAll(
		func(numImages, batchSize int) bool {
			images := make([]string, numImages)
			for i := range images {
				images[i] = string(rune('a' + i%26))
			}

			batches := partition(images, batchSize)

			wantBatches := (numImages + batchSize - 1) / batchSize
			if len(batches) != wantBatches {
				return false
			}

			total := 0
			for i, b := range batches {
				if i < len(batches)-1 && len(b) != batchSize {
					return false
				}
				total += len(b)
			}
			return total == numImages
		},
		gen.IntRange(1, 500),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
