package denseid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_DenseFromZero(t *testing.T) {
	alloc := NewAllocator[ID]()

	for want := ID(0); want < 100; want++ {
		id, err := alloc.Allocate()
		require.NoError(t, err)
		assert.Equal(t, want, id)
		assert.True(t, alloc.IsLive(id))
	}
	assert.Equal(t, 100, alloc.Len())
	assert.Equal(t, 100, alloc.CapacityHint())
}

func TestAllocator_LIFOReuse(t *testing.T) {
	alloc := NewAllocator[ID]()

	id0, err := alloc.Allocate()
	require.NoError(t, err)
	id1, err := alloc.Allocate()
	require.NoError(t, err)
	require.NotEqual(t, id0, id1)

	require.NoError(t, alloc.Free(id0))
	assert.False(t, alloc.IsLive(id0))

	// The freed id comes back before the high-water mark advances.
	id2, err := alloc.Allocate()
	require.NoError(t, err)
	assert.Equal(t, id0, id2)
	assert.Equal(t, 2, alloc.CapacityHint())

	// Most recently freed wins.
	require.NoError(t, alloc.Free(id1))
	require.NoError(t, alloc.Free(id2))
	next, err := alloc.Allocate()
	require.NoError(t, err)
	assert.Equal(t, id2, next)
}

func TestAllocator_FreeMisuse(t *testing.T) {
	alloc := NewAllocator[ID]()
	id, err := alloc.Allocate()
	require.NoError(t, err)

	// Never-allocated id.
	err = alloc.Free(ID(999))
	var notLive *ErrNotLive
	require.ErrorAs(t, err, &notLive)
	assert.Equal(t, Index(999), notLive.Index)

	// Double free.
	require.NoError(t, alloc.Free(id))
	err = alloc.Free(id)
	require.ErrorAs(t, err, &notLive)

	// Sentinel.
	err = alloc.Free(ID(Invalid))
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestAllocator_Exhaustion(t *testing.T) {
	alloc := NewAllocator[ID](WithLimit(3))

	ids := make([]ID, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := alloc.Allocate()
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err := alloc.Allocate()
	assert.ErrorIs(t, err, ErrExhausted)

	// Freeing makes the space allocatable again.
	require.NoError(t, alloc.Free(ids[1]))
	id, err := alloc.Allocate()
	require.NoError(t, err)
	assert.Equal(t, ids[1], id)
}

func TestAllocator_WithStart(t *testing.T) {
	alloc := NewAllocator[ID](WithStart(10))

	id, err := alloc.Allocate()
	require.NoError(t, err)
	assert.Equal(t, ID(10), id)

	st := alloc.Stats()
	assert.Equal(t, 1, st.Live)
	assert.Equal(t, 0, st.Free)
	assert.Equal(t, 11, st.HighWater)
}

func TestAllocator_Reset(t *testing.T) {
	alloc := NewAllocator[ID]()
	for i := 0; i < 10; i++ {
		_, err := alloc.Allocate()
		require.NoError(t, err)
	}
	alloc.Reset()

	assert.Equal(t, 0, alloc.Len())
	id, err := alloc.Allocate()
	require.NoError(t, err)
	assert.Equal(t, ID(0), id)
}

func TestAllocator_Live(t *testing.T) {
	alloc := NewAllocator[ID]()
	var kept []ID
	for i := 0; i < 6; i++ {
		id, err := alloc.Allocate()
		require.NoError(t, err)
		if i%2 == 0 {
			kept = append(kept, id)
		}
	}
	require.NoError(t, alloc.Free(ID(1)))
	require.NoError(t, alloc.Free(ID(3)))
	require.NoError(t, alloc.Free(ID(5)))

	var live []ID
	for id := range alloc.Live() {
		live = append(live, id)
	}
	assert.Equal(t, kept, live)
}

// Under any sequence of operations, every id below the high-water mark is
// in exactly one of {live, free}.
func TestAllocator_LiveFreePartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alloc := NewAllocator[ID]()
	var held []ID

	check := func() {
		st := alloc.Stats()
		require.Equal(t, st.HighWater, st.Live+st.Free, "live/free must partition [0, hwm)")
		require.Equal(t, len(held), st.Live)
		for _, id := range held {
			require.True(t, alloc.IsLive(id))
		}
	}

	for i := 0; i < 5000; i++ {
		if len(held) == 0 || rng.Intn(3) > 0 {
			id, err := alloc.Allocate()
			require.NoError(t, err)
			// Uniqueness: an allocated id is never concurrently held.
			for _, h := range held {
				require.NotEqual(t, h, id, "id handed out twice without an intervening free")
			}
			held = append(held, id)
		} else {
			j := rng.Intn(len(held))
			require.NoError(t, alloc.Free(held[j]))
			held[j] = held[len(held)-1]
			held = held[:len(held)-1]
		}
		if i%500 == 0 {
			check()
		}
	}
	check()

	// Backing arrays stay bounded by peak concurrent liveness.
	st := alloc.Stats()
	assert.LessOrEqual(t, st.HighWater, 5000)
}

func TestAllocator_CapacityHintPairsWithMap(t *testing.T) {
	alloc := NewAllocator[ID](WithCapacityHint(64))
	for i := 0; i < 50; i++ {
		_, err := alloc.Allocate()
		require.NoError(t, err)
	}

	m := NewMapWithCapacity[ID, int](alloc.CapacityHint())
	for id := range alloc.Live() {
		m.Insert(id, int(id))
	}
	assert.Equal(t, 50, m.Len())
}
