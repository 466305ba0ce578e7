package denseid

import "sync/atomic"

// Counter allocates unique ids by counting upwards, with no ability to free
// individual ids. It is cheaper than an Allocator and needs no bookkeeping;
// use it when ids live for the whole program or are only reclaimed in bulk
// via Reset.
type Counter[K Identifier[K]] struct {
	next  Index
	start Index
	limit Index
}

// NewCounter creates a Counter. See WithStart and WithLimit.
func NewCounter[K Identifier[K]](opts ...Option) *Counter[K] {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Counter[K]{
		next:  o.start,
		start: o.start,
		limit: o.limit,
	}
}

// Next returns the next id, or ErrExhausted once the limit is reached.
// Never wraps around.
func (c *Counter[K]) Next() (K, error) {
	if c.next >= c.limit {
		var zero K
		return zero, ErrExhausted
	}
	k := keyOf[K](c.next)
	c.next++
	return k, nil
}

// MaxUsed returns the highest id issued so far, or false if none have been.
func (c *Counter[K]) MaxUsed() (K, bool) {
	if c.next == c.start {
		var zero K
		return zero, false
	}
	return keyOf[K](c.next - 1), true
}

// Reset rewinds the counter to its start. Previously issued ids become
// eligible to be issued again.
func (c *Counter[K]) Reset() {
	c.next = c.start
}

// AtomicCounter is a Counter that is safe for concurrent use. It is the one
// concurrency-safe component in this package; the containers and Allocator
// remain single-owner.
type AtomicCounter[K Identifier[K]] struct {
	next  atomic.Uint32
	start Index
	limit Index
}

// NewAtomicCounter creates an AtomicCounter. See WithStart and WithLimit.
func NewAtomicCounter[K Identifier[K]](opts ...Option) *AtomicCounter[K] {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	c := &AtomicCounter[K]{
		start: o.start,
		limit: o.limit,
	}
	c.next.Store(uint32(o.start))
	return c
}

// Next returns the next id, or ErrExhausted once the limit is reached.
// A CAS loop rather than a blind add guarantees the counter saturates at
// the limit instead of wrapping past the sentinel under contention.
func (c *AtomicCounter[K]) Next() (K, error) {
	for {
		cur := c.next.Load()
		if Index(cur) >= c.limit {
			var zero K
			return zero, ErrExhausted
		}
		if c.next.CompareAndSwap(cur, cur+1) {
			return keyOf[K](Index(cur)), nil
		}
	}
}

// MaxUsed returns the highest id issued so far, or false if none have been.
func (c *AtomicCounter[K]) MaxUsed() (K, bool) {
	cur := Index(c.next.Load())
	if cur == c.start {
		var zero K
		return zero, false
	}
	return keyOf[K](cur - 1), true
}

// Reset rewinds the counter to its start. Not linearizable with concurrent
// Next calls; quiesce writers first.
func (c *AtomicCounter[K]) Reset() {
	c.next.Store(uint32(c.start))
}
