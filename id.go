package denseid

// Index is the container-native index integer. Every identifier handled by
// this package converts losslessly to and from an Index, and containers use
// it directly as an array or bitset offset.
//
// It is strictly 32-bit, allowing for max 4 billion concurrently live ids.
// Used for all hot-path structures (slot arrays, bitsets, free lists).
type Index uint32

// Invalid is the reserved sentinel index meaning "no id". It is never issued
// by an Allocator and is rejected as a container key.
const Invalid = ^Index(0)

// MaxIndex is the largest allocatable index.
const MaxIndex = Invalid - 1

// Identifier is implemented by types that are convertible to and from a
// dense array index. It is intended for small newtype wrappers around
// unsigned integers (entity ids, node ids, interned-string ids).
//
// The conversion must be total and injective for all valid ids: for every
// valid k, k.FromIndex(k.Index()) == k, and distinct ids map to distinct
// indexes. The mapping must not change over the lifetime of the program.
//
// FromIndex is called on the zero value of K, so Identifier should be
// implemented on value types, not pointers.
type Identifier[K any] interface {
	comparable

	// Index returns the dense index of this id.
	Index() Index

	// FromIndex reconstructs an id from its dense index.
	// The receiver carries no information; only the argument matters.
	FromIndex(i Index) K
}

// ID is a ready-made dense identifier backed by a uint32. Use it directly,
// or define your own newtype implementing Identifier for stronger typing:
//
//	type NodeID uint32
//
//	func (id NodeID) Index() denseid.Index            { return denseid.Index(id) }
//	func (NodeID) FromIndex(i denseid.Index) NodeID   { return NodeID(i) }
type ID uint32

// Index returns the dense index of this id.
func (id ID) Index() Index { return Index(id) }

// FromIndex reconstructs an ID from its dense index.
func (ID) FromIndex(i Index) ID { return ID(i) }

// Compile-time check that ID satisfies Identifier. The constraint embeds
// comparable, so the check has to live in constraint position.
func assertIdentifier[K Identifier[K]]() {}

var _ = assertIdentifier[ID]

// keyOf reconstructs a typed id from a raw index.
func keyOf[K Identifier[K]](i Index) K {
	var zero K
	return zero.FromIndex(i)
}

// checkKeyIndex converts an id to a usable slot offset, rejecting the
// sentinel. Writing under the sentinel would corrupt occupancy bookkeeping,
// so this is surfaced as a panic rather than silently accepted.
func checkKeyIndex(i Index) int {
	if i == Invalid {
		panic("denseid: sentinel index used as container key")
	}
	return int(i)
}
