package denseid

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_SnapshotRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ct   CompressionType
	}{
		{"none", CompressionNone},
		{"lz4", CompressionLZ4},
		{"zstd", CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSet[ID]()
			for _, x := range []ID{0, 1, 63, 64, 4095, 100_000} {
				src.Insert(x)
			}

			var buf bytes.Buffer
			n, err := src.WriteToCompressed(&buf, tt.ct)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			dst := NewSet[ID]()
			dst.Insert(7) // replaced by ReadFrom
			rn, err := dst.ReadFrom(&buf)
			require.NoError(t, err)
			assert.Equal(t, n, rn)

			assert.Equal(t, src.Len(), dst.Len())
			for id := range src.All() {
				assert.True(t, dst.Contains(id), "missing %d", id)
			}
			assert.False(t, dst.Contains(7))
		})
	}
}

func TestSet_SnapshotEmpty(t *testing.T) {
	var buf bytes.Buffer
	src := NewSet[ID]()
	_, err := src.WriteTo(&buf)
	require.NoError(t, err)

	dst := NewSet[ID]()
	_, err = dst.ReadFrom(&buf)
	require.NoError(t, err)
	assert.True(t, dst.IsEmpty())
}

func TestSet_SnapshotBadMagic(t *testing.T) {
	var buf bytes.Buffer
	m := NewMap[ID, int]()
	m.Insert(1, 1)
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	// A map snapshot is not a set snapshot.
	s := NewSet[ID]()
	_, err = s.ReadFrom(&buf)
	assert.ErrorIs(t, err, ErrSnapshot)
}

func TestSet_SnapshotRejectsBogusWordCount(t *testing.T) {
	src := NewSet[ID]()
	src.Insert(1)

	var buf bytes.Buffer
	_, err := src.WriteToCompressed(&buf, CompressionNone)
	require.NoError(t, err)

	// Overwrite the word count with a value chosen so that 8*count wraps
	// around uint64 and matches the actual payload length. The count must
	// be validated against the payload, not the other way round.
	b := buf.Bytes()
	const wordCountOff = 6 + 4 + blockHeaderSize
	binary.LittleEndian.PutUint64(b[wordCountOff:], 1<<61+1)

	dst := NewSet[ID]()
	_, err = dst.ReadFrom(bytes.NewReader(b))
	assert.ErrorIs(t, err, ErrSnapshot)
}

func TestMap_SnapshotRejectsSentinelEntry(t *testing.T) {
	src := NewMap[ID, int]()
	src.Insert(5, 7)

	var buf bytes.Buffer
	_, err := src.WriteToWith(&buf, JSONCodec{}, CompressionNone)
	require.NoError(t, err)

	// Overwrite the entry's index with the sentinel. ReadFrom must reject
	// the snapshot instead of handing the sentinel to Insert.
	b := buf.Bytes()
	idxOff := 6 + 1 + len("json") + 4 + blockHeaderSize + 8
	binary.LittleEndian.PutUint32(b[idxOff:], uint32(Invalid))

	dst := NewMap[ID, int]()
	_, err = dst.ReadFrom(bytes.NewReader(b))
	assert.ErrorIs(t, err, ErrSnapshot)
}

func TestSnapshot_FrameLimit(t *testing.T) {
	require.NoError(t, checkFrameLen(0))
	require.NoError(t, checkFrameLen(1<<32-1))
	assert.ErrorIs(t, checkFrameLen(1<<32), ErrValueTooLarge)
}

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestMap_SnapshotRoundTrip(t *testing.T) {
	codecs := []Codec{JSONCodec{}, GoJSONCodec{}}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			src := NewMap[ID, payload]()
			src.Insert(2, payload{Name: "two", Score: 2})
			src.Insert(64, payload{Name: "sixty-four", Score: 64})
			src.Insert(9000, payload{Name: "far", Score: -1})

			var buf bytes.Buffer
			n, err := src.WriteToWith(&buf, c, CompressionZSTD)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			dst := NewMap[ID, payload]()
			_, err = dst.ReadFrom(&buf)
			require.NoError(t, err)

			assert.Equal(t, src.Len(), dst.Len())
			for k, v := range src.All() {
				got, ok := dst.Get(k)
				require.True(t, ok, "key %d missing", k)
				assert.Equal(t, v, got)
			}
		})
	}
}

func TestMap_SnapshotOrderPreserved(t *testing.T) {
	src := NewMap[ID, int]()
	for _, k := range []ID{300, 1, 77} {
		src.Insert(k, int(k))
	}

	var buf bytes.Buffer
	_, err := src.WriteTo(&buf)
	require.NoError(t, err)

	dst := NewMap[ID, int]()
	_, err = dst.ReadFrom(&buf)
	require.NoError(t, err)

	var keys []ID
	for k := range dst.Keys() {
		keys = append(keys, k)
	}
	assert.Equal(t, []ID{1, 77, 300}, keys)
}

func TestMap_SnapshotUnknownCodec(t *testing.T) {
	_, ok := CodecByName("msgpack")
	assert.False(t, ok)

	c, ok := CodecByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())
}

func TestCompressBlock_RoundTrip(t *testing.T) {
	// Compressible payload: repeated words.
	data := bytes.Repeat([]byte("denseid"), 1000)

	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		block, err := compressBlock(data, ct)
		require.NoError(t, err)

		out, err := decompressBlock(block, ct)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	}
}

func TestCompressBlock_IncompressibleStoredRaw(t *testing.T) {
	// Too small to compress; must still round-trip.
	data := []byte{1, 2, 3}
	block, err := compressBlock(data, CompressionZSTD)
	require.NoError(t, err)
	out, err := decompressBlock(block, CompressionZSTD)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}
