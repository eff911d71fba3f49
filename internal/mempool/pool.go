// Package mempool provides sized slice pools to reduce allocations on the
// per-image preprocessing hot path.
package mempool

import (
	"sync"
)

// Pool hands out slices of at least the requested length, bucketed into
// size classes so buffers of similar sizes can be reused across images.
// The zero value is ready to use.
type Pool[T any] struct {
	classes sync.Map // key: size class (int), value: *sync.Pool
}

// sizeClass rounds n up to the next 1024-element bucket to reduce churn.
func sizeClass(n int) int {
	const step = 1024
	if n <= step {
		return step
	}
	r := (n + step - 1) / step
	return r * step
}

// Get retrieves a slice of length n with capacity at least the size class
// of n. The caller must return it via Put when done. Contents are not
// zeroed.
func (p *Pool[T]) Get(n int) []T {
	cls := sizeClass(n)
	pAny, _ := p.classes.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]T, cls) }})
	sp, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]T, cls)[:n]
	}
	buf, ok := sp.Get().([]T)
	if !ok || cap(buf) < cls {
		buf = make([]T, cls)
	}
	return buf[:cap(buf)][:n]
}

// Put returns a slice to the pool. A nil slice is ignored.
func (p *Pool[T]) Put(buf []T) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := p.classes.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]T, cls) }})
	sp, ok := pAny.(*sync.Pool)
	if !ok {
		return
	}
	sp.Put(buf[:cap(buf)]) //nolint:staticcheck // slice pools intentionally store slice values
}
