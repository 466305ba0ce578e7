package denseid

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is returned by Allocate when every representable
	// non-sentinel index up to the configured limit is currently live.
	// The caller can recover by freeing ids or raising the limit.
	ErrExhausted = errors.New("id space exhausted")

	// ErrInvalidIndex is returned when the sentinel index is passed to an
	// operation that requires a valid id.
	ErrInvalidIndex = errors.New("invalid sentinel index")
)

// ErrNotLive indicates an attempt to free an id that is not currently live,
// either because it was never allocated or because it was already freed.
// Accepting it silently would corrupt the free-list/live-set invariants, so
// it is always surfaced.
type ErrNotLive struct {
	Index Index
}

func (e *ErrNotLive) Error() string {
	return fmt.Sprintf("id %d is not live", e.Index)
}
