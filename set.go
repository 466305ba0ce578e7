package denseid

import (
	"iter"
	"math/bits"
)

// wordBits is the number of bits per storage word.
const wordBits = 64

// Set is a bit-packed set of ids: bit i is set iff id with index i is a
// member. Memory is proportional to the highest index ever inserted, so it
// is intended for dense id populations.
//
// The zero value is an empty set ready for use. A Set is not safe for
// concurrent use; callers needing shared access must provide their own
// synchronization.
type Set[K Identifier[K]] struct {
	words []uint64
	count int
}

// NewSet creates a new empty Set.
func NewSet[K Identifier[K]]() *Set[K] {
	return &Set[K]{}
}

// NewSetWithCapacity creates a Set pre-sized for indexes up to maxIndex.
// Since this is a dense set, the capacity hints at the maximum valid index,
// not the expected member count.
func NewSetWithCapacity[K Identifier[K]](maxIndex int) *Set[K] {
	s := &Set[K]{}
	s.reserve(maxIndex)
	return s
}

// reserve ensures word storage exists for indexes up to maxIndex.
// New words are zero, so reserved bits read as absent.
func (s *Set[K]) reserve(maxIndex int) {
	if maxIndex < 0 {
		return
	}
	need := maxIndex/wordBits + 1
	if need <= len(s.words) {
		return
	}
	s.growWords(need)
}

// growWords extends storage to at least need words, doubling to amortize
// repeated out-of-range inserts.
func (s *Set[K]) growWords(need int) {
	newLen := max(2*len(s.words), need)
	grown := make([]uint64, newLen)
	copy(grown, s.words)
	s.words = grown
}

// Insert adds the id to the set, growing storage if needed.
// It reports whether the id was newly added (false if already present).
// Inserting the sentinel panics.
func (s *Set[K]) Insert(k K) bool {
	idx := checkKeyIndex(k.Index())
	wordIdx := idx / wordBits
	mask := uint64(1) << (idx % wordBits)
	if wordIdx >= len(s.words) {
		s.growWords(wordIdx + 1)
	}
	if s.words[wordIdx]&mask != 0 {
		return false
	}
	s.words[wordIdx] |= mask
	s.count++
	return true
}

// Delete removes the id from the set, reporting whether it was present.
// Absent and out-of-range ids (including the sentinel) report false.
func (s *Set[K]) Delete(k K) bool {
	i := k.Index()
	if i == Invalid {
		return false
	}
	idx := int(i)
	wordIdx := idx / wordBits
	if wordIdx >= len(s.words) {
		return false
	}
	mask := uint64(1) << (idx % wordBits)
	if s.words[wordIdx]&mask == 0 {
		return false
	}
	s.words[wordIdx] &^= mask
	s.count--
	return true
}

// Contains reports whether the id is a member. O(1).
func (s *Set[K]) Contains(k K) bool {
	i := k.Index()
	if i == Invalid {
		return false
	}
	idx := int(i)
	wordIdx := idx / wordBits
	if wordIdx >= len(s.words) {
		return false
	}
	return s.words[wordIdx]&(uint64(1)<<(idx%wordBits)) != 0
}

// Len returns the number of members. The population count is tracked
// incrementally, so this is O(1).
func (s *Set[K]) Len() int { return s.count }

// IsEmpty reports whether the set has no members.
func (s *Set[K]) IsEmpty() bool { return s.count == 0 }

// Clear removes all members, keeping allocated storage for reuse.
func (s *Set[K]) Clear() {
	clear(s.words)
	s.count = 0
}

// Clone creates an independent copy of the set.
func (s *Set[K]) Clone() *Set[K] {
	cloned := &Set[K]{
		words: make([]uint64, len(s.words)),
		count: s.count,
	}
	copy(cloned.words, s.words)
	return cloned
}

// recount recomputes the tracked population after a bulk word operation.
// Hardware popcount per word keeps this O(words), not O(bits).
func (s *Set[K]) recount() {
	c := 0
	for _, w := range s.words {
		c += bits.OnesCount64(w)
	}
	s.count = c
}

// UnionWith performs in-place union: s = s OR other.
// The shorter operand is treated as all-absent beyond its length.
func (s *Set[K]) UnionWith(other *Set[K]) {
	if len(other.words) > len(s.words) {
		s.growWords(len(other.words))
	}
	for i, w := range other.words {
		s.words[i] |= w
	}
	s.recount()
}

// IntersectWith performs in-place intersection: s = s AND other.
func (s *Set[K]) IntersectWith(other *Set[K]) {
	n := min(len(s.words), len(other.words))
	for i := 0; i < n; i++ {
		s.words[i] &= other.words[i]
	}
	for i := n; i < len(s.words); i++ {
		s.words[i] = 0
	}
	s.recount()
}

// DifferenceWith performs in-place difference: s = s AND NOT other.
func (s *Set[K]) DifferenceWith(other *Set[K]) {
	n := min(len(s.words), len(other.words))
	for i := 0; i < n; i++ {
		s.words[i] &^= other.words[i]
	}
	s.recount()
}

// Union returns a new set containing members of either operand.
func Union[K Identifier[K]](a, b *Set[K]) *Set[K] {
	out := a.Clone()
	out.UnionWith(b)
	return out
}

// Intersect returns a new set containing members of both operands.
func Intersect[K Identifier[K]](a, b *Set[K]) *Set[K] {
	out := a.Clone()
	out.IntersectWith(b)
	return out
}

// Difference returns a new set containing members of a that are not in b.
func Difference[K Identifier[K]](a, b *Set[K]) *Set[K] {
	out := a.Clone()
	out.DifferenceWith(b)
	return out
}

// All iterates over the members in ascending index order. The sequence is
// finite and restartable; each call starts a fresh iteration.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for wordIdx, word := range s.words {
			for word != 0 {
				bit := bits.TrailingZeros64(word)
				if !yield(keyOf[K](Index(wordIdx*wordBits + bit))) {
					return
				}
				word &= word - 1
			}
		}
	}
}

// Retain keeps only members for which fn returns true.
func (s *Set[K]) Retain(fn func(K) bool) {
	for wordIdx := range s.words {
		word := s.words[wordIdx]
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			k := keyOf[K](Index(wordIdx*wordBits + bit))
			if !fn(k) {
				s.words[wordIdx] &^= uint64(1) << bit
				s.count--
			}
			word &= word - 1
		}
	}
}

// maxMember returns the highest member index, or false if the set is empty.
func (s *Set[K]) maxMember() (Index, bool) {
	for wordIdx := len(s.words) - 1; wordIdx >= 0; wordIdx-- {
		w := s.words[wordIdx]
		if w == 0 {
			continue
		}
		bit := wordBits - 1 - bits.LeadingZeros64(w)
		return Index(wordIdx*wordBits + bit), true
	}
	return 0, false
}

// Visit marks the id as visited, reporting whether it was seen before.
// Together with Visited and Unvisit this lets a Set serve as the visited
// map of an external graph traversal.
func (s *Set[K]) Visit(k K) bool {
	return !s.Insert(k)
}

// Visited reports whether the id has been visited.
func (s *Set[K]) Visited(k K) bool {
	return s.Contains(k)
}

// Unvisit clears the visited mark, reporting whether it was set.
func (s *Set[K]) Unvisit(k K) bool {
	return s.Delete(k)
}
