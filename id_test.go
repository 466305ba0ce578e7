package denseid

import "testing"

func TestID_IndexRoundTrip(t *testing.T) {
	id := ID(42)
	if got := id.Index(); got != Index(42) {
		t.Errorf("Index() = %d, want 42", got)
	}
	if got := id.FromIndex(id.Index()); got != id {
		t.Errorf("FromIndex(Index()) = %v, want %v", got, id)
	}
	if got := keyOf[ID](7); got != ID(7) {
		t.Errorf("keyOf(7) = %v, want 7", got)
	}
}

func TestInvalidIsOutsideAllocatableRange(t *testing.T) {
	if Invalid != ^Index(0) {
		t.Errorf("Invalid = %d, want all-ones", Invalid)
	}
	if MaxIndex >= Invalid {
		t.Errorf("MaxIndex %d must be below Invalid %d", MaxIndex, Invalid)
	}
}
