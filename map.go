package denseid

import "iter"

// Map is an array-backed mapping from ids to values, indexed directly by the
// id's dense index. Lookup, insert and delete are O(1) with no hashing.
//
// Memory is proportional to the highest index ever inserted: inserting at an
// index far beyond the current length allocates all intermediate slots. That
// is intentional for dense id populations, but callers minting sparse ids
// should expect large allocations.
//
// Slot occupancy is tracked by an internal Set, so a Map holding pointer
// values does not misread zeroed slots as present. The zero value is an
// empty map ready for use. Not safe for concurrent use.
type Map[K Identifier[K], V any] struct {
	slots []V
	keys  Set[K]
}

// NewMap creates a new empty Map.
func NewMap[K Identifier[K], V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// NewMapWithCapacity creates a Map pre-sized for indexes up to maxIndex.
func NewMapWithCapacity[K Identifier[K], V any](maxIndex int) *Map[K, V] {
	m := &Map[K, V]{}
	m.Reserve(maxIndex)
	return m
}

// Reserve grows backing storage to hold indexes up to maxIndex without
// further allocation. Useful together with Allocator.CapacityHint.
func (m *Map[K, V]) Reserve(maxIndex int) {
	if maxIndex < 0 {
		return
	}
	m.growTo(maxIndex)
	m.keys.reserve(maxIndex)
}

// growTo ensures the slot array covers idx, doubling to amortize growth.
// Resize-then-write is kept internal; callers only see the logical contract.
func (m *Map[K, V]) growTo(idx int) {
	if idx < len(m.slots) {
		return
	}
	newLen := max(2*len(m.slots), idx+1)
	grown := make([]V, newLen)
	copy(grown, m.slots)
	m.slots = grown
}

// Insert stores value under the id, growing backing storage if needed.
// It returns the previous value and true if the slot was occupied.
// Inserting under the sentinel panics.
func (m *Map[K, V]) Insert(k K, value V) (V, bool) {
	idx := checkKeyIndex(k.Index())
	m.growTo(idx)
	var prev V
	replaced := !m.keys.Insert(k)
	if replaced {
		prev = m.slots[idx]
	}
	m.slots[idx] = value
	return prev, replaced
}

// Get returns the value stored under the id. The second result is false if
// the index is beyond the current length or the slot is unoccupied; absence
// is a normal outcome, not an error.
func (m *Map[K, V]) Get(k K) (V, bool) {
	var zero V
	if !m.keys.Contains(k) {
		return zero, false
	}
	return m.slots[k.Index()], true
}

// Ptr returns a pointer to the value stored under the id for in-place
// mutation, or nil if absent. The pointer is invalidated by any operation
// that grows the map.
func (m *Map[K, V]) Ptr(k K) *V {
	if !m.keys.Contains(k) {
		return nil
	}
	return &m.slots[k.Index()]
}

// ContainsKey reports whether the id has a value.
func (m *Map[K, V]) ContainsKey(k K) bool {
	return m.keys.Contains(k)
}

// Delete clears the slot and returns the prior value, if any. Backing
// storage is never shrunk here; use ShrinkToFit for explicit compaction.
func (m *Map[K, V]) Delete(k K) (V, bool) {
	var zero V
	if !m.keys.Delete(k) {
		return zero, false
	}
	idx := k.Index()
	prev := m.slots[idx]
	m.slots[idx] = zero
	return prev, true
}

// Len returns the number of occupied slots, tracked incrementally.
func (m *Map[K, V]) Len() int { return m.keys.Len() }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.keys.IsEmpty() }

// Clear removes all entries, keeping allocated storage for reuse.
func (m *Map[K, V]) Clear() {
	clear(m.slots)
	m.keys.Clear()
}

// ShrinkToFit drops trailing unoccupied slots and reallocates to the exact
// remaining length. Kept separate from Delete to avoid grow/shrink
// thrashing under churn.
func (m *Map[K, V]) ShrinkToFit() {
	maxIdx, ok := m.keys.maxMember()
	if !ok {
		m.slots = nil
		return
	}
	need := int(maxIdx) + 1
	if need == len(m.slots) {
		return
	}
	shrunk := make([]V, need)
	copy(shrunk, m.slots[:need])
	m.slots = shrunk
}

// All iterates over (id, value) pairs in ascending index order, skipping
// unoccupied slots. The sequence is finite and restartable.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k := range m.keys.All() {
			if !yield(k, m.slots[k.Index()]) {
				return
			}
		}
	}
}

// Keys iterates over occupied ids in ascending index order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return m.keys.All()
}

// Values iterates over values in ascending index order of their ids.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for k := range m.keys.All() {
			if !yield(m.slots[k.Index()]) {
				return
			}
		}
	}
}

// Retain keeps only entries for which fn returns true.
func (m *Map[K, V]) Retain(fn func(K, V) bool) {
	var zero V
	m.keys.Retain(func(k K) bool {
		idx := k.Index()
		if fn(k, m.slots[idx]) {
			return true
		}
		m.slots[idx] = zero
		return false
	})
}
