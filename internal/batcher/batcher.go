// Package batcher prepares fixed-size batches of image tensors for an
// inference engine. It resolves an image set from a file or directory,
// partitions it into batches matching a target tensor shape, and lazily
// produces one contiguous tensor per batch alongside the per-image
// letterbox transforms needed to map results back to source coordinates.
package batcher

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"

	"github.com/MeKo-Tech/imagebatch/internal/imageset"
	"github.com/MeKo-Tech/imagebatch/internal/mempool"
	"github.com/MeKo-Tech/imagebatch/internal/preprocess"
)

// Batch is one produced batch: a contiguous tensor of the full descriptor
// shape plus per-image bookkeeping. When the final batch is short, slots
// past Len() stay zero-valued; consumers must use Len(), not the tensor
// shape, to know how many slots are meaningful.
type Batch[T preprocess.Float] struct {
	Data       []T
	Shape      Shape
	Paths      []string
	Transforms []preprocess.Transform

	pool *mempool.Pool[T]
}

// Len returns the number of real images in the batch.
func (b *Batch[T]) Len() int { return len(b.Paths) }

// Sample returns the tensor slot for image i.
func (b *Batch[T]) Sample(i int) []T {
	per := b.Shape.SampleElems()
	return b.Data[i*per : (i+1)*per]
}

// Release returns the batch tensor to the producer's buffer pool. Callers
// that are done with Data before requesting the next batch can call it to
// keep allocation steady across large runs; it is optional.
func (b *Batch[T]) Release() {
	if b.pool != nil && b.Data != nil {
		b.pool.Put(b.Data)
		b.Data = nil
	}
}

type options struct {
	shuffle    bool
	rand       *rand.Rand
	exact      bool
	maxWorkers int
}

// Option configures a Batcher.
type Option func(*options)

// WithShuffle applies a random permutation to the resolved image set.
func WithShuffle() Option {
	return func(o *options) { o.shuffle = true }
}

// WithRand sets the randomness source used for shuffling. The default is
// the ambient math/rand source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithExactBatches truncates the image set so every batch is fully
// populated, discarding trailing images.
func WithExactBatches() Option {
	return func(o *options) { o.exact = true }
}

// WithMaxWorkers caps the per-batch preprocessing fan-out. The effective
// worker count is min(batch member count, maxWorkers). Default is
// runtime.NumCPU().
func WithMaxWorkers(n int) Option {
	return func(o *options) { o.maxWorkers = n }
}

// Batcher partitions a resolved image set into batches and produces them
// lazily. It is restartable from the start by re-ranging over Batches,
// but a single Batcher must not be traversed concurrently.
type Batcher[T preprocess.Float] struct {
	shape      Shape
	width      int
	height     int
	images     []string
	batches    [][]string
	maxWorkers int

	pool mempool.Pool[T]

	// process fills dst with the preprocessed tensor for one image.
	// Overridable in tests to simulate slow or failing images.
	process func(path string, dst []T) (preprocess.Transform, error)
}

// New resolves the image set under inputPath and constructs a Batcher
// producing tensors of the given shape.
func New[T preprocess.Float](inputPath string, shape Shape, opts ...Option) (*Batcher[T], error) {
	o := options{maxWorkers: defaultMaxWorkers()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := shape.Validate(); err != nil {
		return nil, err
	}
	width, height := shape.SpatialDims()
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %s", ErrIndeterminateLayout, shape)
	}

	images, err := imageset.Resolve(inputPath, imageset.Options{Shuffle: o.shuffle, Rand: o.rand})
	if err != nil {
		return nil, err
	}
	if o.exact {
		images, err = imageset.Truncate(images, shape.BatchSize())
		if err != nil {
			return nil, err
		}
	}

	b := &Batcher[T]{
		shape:      shape,
		width:      width,
		height:     height,
		images:     images,
		batches:    partition(images, shape.BatchSize()),
		maxWorkers: o.maxWorkers,
	}
	b.process = b.preprocessInto

	slog.Debug("batcher ready",
		"input", inputPath,
		"images", len(images),
		"batches", len(b.batches),
		"batch_size", shape.BatchSize(),
		"layout", shape.Layout().String(),
		"target", fmt.Sprintf("%dx%d", width, height))
	return b, nil
}

// partition slices images into contiguous non-overlapping runs of
// batchSize; only the final run may be shorter.
func partition(images []string, batchSize int) [][]string {
	n := len(images)
	numBatches := (n + batchSize - 1) / batchSize
	batches := make([][]string, 0, numBatches)
	for start := 0; start < n; start += batchSize {
		end := min(start+batchSize, n)
		batches = append(batches, images[start:end])
	}
	return batches
}

// NumImages returns the number of resolved images (after truncation).
func (b *Batcher[T]) NumImages() int { return len(b.images) }

// NumBatches returns the number of batches that iteration will produce.
func (b *Batcher[T]) NumBatches() int { return len(b.batches) }

// BatchSize returns the configured batch size.
func (b *Batcher[T]) BatchSize() int { return b.shape.BatchSize() }

// TargetSize returns the inferred (width, height) resize target.
func (b *Batcher[T]) TargetSize() (width, height int) { return b.width, b.height }

// Images returns the resolved image paths in iteration order.
func (b *Batcher[T]) Images() []string { return b.images }

// Batches returns the lazy batch sequence. Each batch is produced only
// when requested; ranging again restarts from the first batch. On a
// production failure the sequence yields a nil batch with the error and
// stops.
func (b *Batcher[T]) Batches() iter.Seq2[*Batch[T], error] {
	return b.BatchesContext(context.Background())
}

// BatchesContext is Batches with context cancellation applied to the
// per-batch preprocessing workers.
func (b *Batcher[T]) BatchesContext(ctx context.Context) iter.Seq2[*Batch[T], error] {
	return func(yield func(*Batch[T], error) bool) {
		for _, paths := range b.batches {
			batch, err := b.produce(ctx, paths)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

// preprocessInto is the default per-image pipeline: decode, letterbox to
// the target dimensions, normalize into the caller's tensor slot.
func (b *Batcher[T]) preprocessInto(path string, dst []T) (preprocess.Transform, error) {
	img, err := preprocess.Load(path)
	if err != nil {
		return preprocess.Transform{}, err
	}
	boxed, tf, err := preprocess.Letterbox(img, b.width, b.height)
	if err != nil {
		return preprocess.Transform{}, fmt.Errorf("letterbox %s: %w", path, err)
	}
	if err := preprocess.ToCHWInto(boxed, dst); err != nil {
		return preprocess.Transform{}, fmt.Errorf("convert %s: %w", path, err)
	}
	return tf, nil
}
