package denseid

import "iter"

// Allocator hands out dense, reusable ids. Freed ids are recycled before the
// high-water mark advances, which keeps id-indexed backing arrays bounded by
// the peak number of concurrently live ids rather than by cumulative
// allocations — the entire reason to use an allocator instead of a bare
// counter.
//
// Reuse is LIFO: the most recently freed id is handed out first, since its
// backing-array slots are the most likely to still be cache-resident.
//
// An Allocator is not safe for concurrent use. Wrap it in a mutex if ids
// are minted from multiple goroutines, or use AtomicCounter when
// reclamation is not needed.
type Allocator[K Identifier[K]] struct {
	live   Set[K]
	free   []Index
	next   Index
	start  Index
	limit  Index
	logger *Logger
}

// NewAllocator creates an Allocator. By default ids start at 0 and span the
// full non-sentinel uint32 range; see WithStart, WithLimit,
// WithCapacityHint and WithLogger.
func NewAllocator[K Identifier[K]](opts ...Option) *Allocator[K] {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	a := &Allocator[K]{
		next:   o.start,
		start:  o.start,
		limit:  o.limit,
		logger: o.logger,
	}
	if o.capacityHint > 0 {
		a.live.reserve(int(o.start) + o.capacityHint - 1)
		a.free = make([]Index, 0, o.capacityHint)
	}
	return a
}

// Allocate returns a fresh id, reusing the most recently freed id when one
// is available and advancing the high-water mark otherwise. The id is live
// when Allocate returns. Fails with ErrExhausted when every id in
// [start, limit) is live; the sentinel is never issued.
func (a *Allocator[K]) Allocate() (K, error) {
	var idx Index
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if a.next >= a.limit {
			a.logger.LogExhausted(a.limit, a.live.Len())
			var zero K
			return zero, ErrExhausted
		}
		idx = a.next
		a.next++
	}
	k := keyOf[K](idx)
	a.live.Insert(k)
	return k, nil
}

// Free returns the id to the allocator for reuse. Freeing an id that is not
// currently live is a contract violation and is rejected with *ErrNotLive;
// the sentinel is rejected with ErrInvalidIndex.
func (a *Allocator[K]) Free(k K) error {
	idx := k.Index()
	if idx == Invalid {
		a.logger.LogFreeRejected(idx, ErrInvalidIndex)
		return ErrInvalidIndex
	}
	if !a.live.Delete(k) {
		err := &ErrNotLive{Index: idx}
		a.logger.LogFreeRejected(idx, err)
		return err
	}
	a.free = append(a.free, idx)
	return nil
}

// IsLive reports whether the id is currently live. O(1).
func (a *Allocator[K]) IsLive(k K) bool {
	return a.live.Contains(k)
}

// Len returns the number of currently live ids.
func (a *Allocator[K]) Len() int {
	return a.live.Len()
}

// CapacityHint returns one past the highest id ever issued. Callers can use
// it to pre-size parallel Maps and Sets via Reserve.
func (a *Allocator[K]) CapacityHint() int {
	return int(a.next)
}

// Live iterates over the currently live ids in ascending index order.
func (a *Allocator[K]) Live() iter.Seq[K] {
	return a.live.All()
}

// Reset frees every id and rewinds the high-water mark, keeping allocated
// bookkeeping storage for reuse. Any ids held by the caller become stale.
func (a *Allocator[K]) Reset() {
	a.live.Clear()
	a.free = a.free[:0]
	a.next = a.start
}

// Stats is a point-in-time snapshot of allocator bookkeeping.
type Stats struct {
	// Live is the number of currently live ids.
	Live int
	// Free is the number of freed ids awaiting reuse.
	Free int
	// HighWater is one past the highest id ever issued.
	HighWater int
}

// Stats returns a snapshot of the allocator's bookkeeping. At all times
// Live + Free + int(start) == HighWater.
func (a *Allocator[K]) Stats() Stats {
	return Stats{
		Live:      a.live.Len(),
		Free:      len(a.free),
		HighWater: int(a.next),
	}
}
