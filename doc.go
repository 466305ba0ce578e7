// Package denseid provides dense, array-backed storage keyed by small
// integer identifiers, plus an allocator that mints and reclaims those
// identifiers without unbounded growth.
//
// It targets programs that hand out many typed integer ids (entity ids,
// graph node ids, interned-string ids) and want O(1) lookup with no hashing:
// ids index directly into slot arrays and bitsets.
//
// # Quick Start
//
//	alloc := denseid.NewAllocator[denseid.ID]()
//	names := denseid.NewMap[denseid.ID, string]()
//
//	id, _ := alloc.Allocate()
//	names.Insert(id, "alpha")
//
//	name, ok := names.Get(id)   // "alpha", true
//
//	_ = alloc.Free(id)          // id becomes reusable; names still holds the slot
//	names.Delete(id)
//
// Define a newtype for stronger typing:
//
//	type NodeID uint32
//
//	func (id NodeID) Index() denseid.Index          { return denseid.Index(id) }
//	func (NodeID) FromIndex(i denseid.Index) NodeID { return NodeID(i) }
//
// # Density Assumption
//
// Container memory is proportional to the highest id index in use, not the
// member count. The Allocator exists to keep that bound tight: freed ids
// are recycled (LIFO) before the high-water mark advances, so backing
// arrays grow with peak concurrent liveness rather than cumulative
// allocations. Sparse or hashed key spaces are out of scope.
//
// # Concurrency
//
// All containers and the Allocator are single-owner: no internal locking,
// no blocking operations. Wrap them in your own synchronization for shared
// access. AtomicCounter is the one concurrency-safe component, for the
// common "monotonic ids from many goroutines" case.
//
// # Interchange
//
// Sets and maps optionally serialize to a length-prefixed binary snapshot
// (zstd or lz4 block compression, self-describing value codec), and sets
// convert to and from roaring bitmaps. These surfaces are for interchange;
// durability is out of scope.
package denseid
