package denseid

import (
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"
)

// Roaring interchange. Dense word-packed sets are the right layout for the
// hot path here, while roaring bitmaps are the lingua franca for long-lived
// or sparse id sets and have a portable serialization format. These
// adapters convert between the two without going through per-id API calls
// in caller code.

// ToRoaring returns a roaring bitmap with the same members as the set.
func (s *Set[K]) ToRoaring() *roaring.Bitmap {
	rb := roaring.New()
	for wordIdx, word := range s.words {
		base := uint32(wordIdx * wordBits)
		for word != 0 {
			rb.Add(base + uint32(bits.TrailingZeros64(word)))
			word &= word - 1
		}
	}
	return rb
}

// InsertRoaring adds every member of the roaring bitmap to the set.
// A member at the sentinel index is rejected with ErrInvalidIndex.
func (s *Set[K]) InsertRoaring(rb *roaring.Bitmap) error {
	it := rb.Iterator()
	for it.HasNext() {
		v := it.Next()
		if Index(v) == Invalid {
			return ErrInvalidIndex
		}
		s.Insert(keyOf[K](Index(v)))
	}
	return nil
}

// FromRoaring creates a Set from a roaring bitmap.
func FromRoaring[K Identifier[K]](rb *roaring.Bitmap) (*Set[K], error) {
	s := NewSet[K]()
	if !rb.IsEmpty() {
		s.reserve(int(rb.Maximum()))
	}
	if err := s.InsertRoaring(rb); err != nil {
		return nil, err
	}
	return s, nil
}
