package batcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/MeKo-Tech/imagebatch/internal/preprocess"
)

func defaultMaxWorkers() int {
	return runtime.NumCPU()
}

// produce assembles one batch: it allocates the full-shape tensor, fans
// the member images out to bounded preprocessing workers, and joins them
// before returning. Workers write disjoint index slots, so the copy-in
// needs no locking, and slot order always matches input order regardless
// of completion order. The first per-image failure aborts the whole
// batch; damaged images are never skipped or substituted.
func (b *Batcher[T]) produce(ctx context.Context, paths []string) (*Batch[T], error) {
	start := time.Now()

	data := b.pool.Get(b.shape.Elems())
	// Pooled buffers are recycled, and a short final batch must leave its
	// trailing slots zero-valued.
	clear(data)

	per := b.shape.SampleElems()
	transforms := make([]preprocess.Transform, len(paths))
	errs := make([]error, len(paths))

	workers := min(len(paths), b.maxWorkers)
	jobs := make(chan int, len(paths))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				tf, err := b.process(paths[i], data[i*per:(i+1)*per])
				transforms[i] = tf
				errs[i] = err
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			b.pool.Put(data)
			preprocessFailures.Inc()
			return nil, fmt.Errorf("batch member %d: %w", i, err)
		}
	}

	batchesProduced.Inc()
	imagesPreprocessed.Add(float64(len(paths)))
	batchDuration.Observe(time.Since(start).Seconds())

	return &Batch[T]{
		Data:       data,
		Shape:      b.shape,
		Paths:      paths,
		Transforms: transforms,
		pool:       &b.pool,
	}, nil
}
