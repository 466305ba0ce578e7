package denseid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Binary snapshot surface for interchange. The encoding is self-describing
// (magic, version, compression, codec name) so a payload written anywhere
// round-trips losslessly: occupied slots, their order and the sentinel
// discipline are preserved exactly. This is an interchange format, not a
// durability layer.

const (
	setMagic = 0x44534554 // "DSET"
	mapMagic = 0x444D4150 // "DMAP"

	snapshotVersion = 1
)

// ErrSnapshot indicates a malformed or unsupported snapshot payload.
var ErrSnapshot = errors.New("invalid snapshot")

// ErrValueTooLarge indicates a payload or value that exceeds the uint32
// length prefixes used by the snapshot framing.
var ErrValueTooLarge = errors.New("value too large for snapshot frame")

func checkFrameLen(n int) error {
	if uint64(n) > 0xFFFFFFFF {
		return ErrValueTooLarge
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

func writeHeader(w io.Writer, magic uint32, ct CompressionType) error {
	var hdr [6]byte
	binary.LittleEndian.PutUint32(hdr[0:], magic)
	hdr[4] = snapshotVersion
	hdr[5] = byte(ct)
	_, err := w.Write(hdr[:])
	return err
}

func readHeader(r io.Reader, magic uint32) (CompressionType, error) {
	var hdr [6]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, err
	}
	if binary.LittleEndian.Uint32(hdr[0:]) != magic {
		return 0, fmt.Errorf("%w: bad magic", ErrSnapshot)
	}
	if hdr[4] != snapshotVersion {
		return 0, fmt.Errorf("%w: unsupported version %d", ErrSnapshot, hdr[4])
	}
	return CompressionType(hdr[5]), nil
}

func writeBlock(w io.Writer, payload []byte, ct CompressionType) error {
	block, err := compressBlock(payload, ct)
	if err != nil {
		return err
	}
	if err := checkFrameLen(len(block)); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(block)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

func readBlock(r io.Reader, ct CompressionType) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	block := make([]byte, binary.LittleEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, err
	}
	return decompressBlock(block, ct)
}

// WriteTo writes the set to w using DefaultCompression.
// It matches the io.WriterTo interface for toolchain friendliness.
func (s *Set[K]) WriteTo(w io.Writer) (int64, error) {
	return s.WriteToCompressed(w, DefaultCompression)
}

// WriteToCompressed writes the set to w with the given compression type.
// The payload is the bit-packed word array, length-prefixed.
func (s *Set[K]) WriteToCompressed(w io.Writer, ct CompressionType) (int64, error) {
	cw := &countingWriter{w: w}

	if err := writeHeader(cw, setMagic, ct); err != nil {
		return cw.n, err
	}

	payload := make([]byte, 8+8*len(s.words))
	binary.LittleEndian.PutUint64(payload[0:], uint64(len(s.words)))
	for i, word := range s.words {
		binary.LittleEndian.PutUint64(payload[8+8*i:], word)
	}
	if err := writeBlock(cw, payload, ct); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom replaces the set's contents with a snapshot written by WriteTo.
// The compression type is read from the header.
// It matches the io.ReaderFrom interface.
func (s *Set[K]) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}

	ct, err := readHeader(cr, setMagic)
	if err != nil {
		return cr.n, err
	}
	payload, err := readBlock(cr, ct)
	if err != nil {
		return cr.n, err
	}
	if len(payload) < 8 {
		return cr.n, fmt.Errorf("%w: truncated set payload", ErrSnapshot)
	}
	numWords := binary.LittleEndian.Uint64(payload[0:])
	words := payload[8:]
	if len(words)%8 != 0 || numWords != uint64(len(words)/8) {
		return cr.n, fmt.Errorf("%w: set payload length mismatch", ErrSnapshot)
	}

	s.words = make([]uint64, numWords)
	for i := range s.words {
		s.words[i] = binary.LittleEndian.Uint64(words[8*i:])
	}
	s.recount()
	return cr.n, nil
}

// WriteTo writes the map to w using DefaultCodec and DefaultCompression.
// It matches the io.WriterTo interface.
func (m *Map[K, V]) WriteTo(w io.Writer) (int64, error) {
	return m.WriteToWith(w, DefaultCodec, DefaultCompression)
}

// WriteToWith writes the map to w with an explicit value codec and
// compression type. Entries are written in ascending index order; the codec
// name is recorded in the header so ReadFrom can validate it.
func (m *Map[K, V]) WriteToWith(w io.Writer, c Codec, ct CompressionType) (int64, error) {
	if c == nil {
		c = DefaultCodec
	}
	cw := &countingWriter{w: w}

	if err := writeHeader(cw, mapMagic, ct); err != nil {
		return cw.n, err
	}

	name := c.Name()
	if len(name) > 0xFF {
		return cw.n, fmt.Errorf("%w: codec name too long", ErrSnapshot)
	}
	if _, err := cw.Write([]byte{byte(len(name))}); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write([]byte(name)); err != nil {
		return cw.n, err
	}

	var payload []byte
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(m.Len()))
	payload = append(payload, scratch[:8]...)

	for k, v := range m.All() {
		data, err := c.Marshal(v)
		if err != nil {
			return cw.n, fmt.Errorf("marshal value at index %d: %w", k.Index(), err)
		}
		if err := checkFrameLen(len(data)); err != nil {
			return cw.n, fmt.Errorf("value at index %d: %w", k.Index(), err)
		}
		binary.LittleEndian.PutUint32(scratch[0:], uint32(k.Index()))
		binary.LittleEndian.PutUint32(scratch[4:], uint32(len(data)))
		payload = append(payload, scratch[:8]...)
		payload = append(payload, data...)
	}

	if err := writeBlock(cw, payload, ct); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom replaces the map's contents with a snapshot written by WriteTo.
// The codec is resolved by the name recorded in the header.
// It matches the io.ReaderFrom interface.
func (m *Map[K, V]) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}

	ct, err := readHeader(cr, mapMagic)
	if err != nil {
		return cr.n, err
	}

	var nameLen [1]byte
	if _, err := io.ReadFull(cr, nameLen[:]); err != nil {
		return cr.n, err
	}
	nameBuf := make([]byte, nameLen[0])
	if _, err := io.ReadFull(cr, nameBuf); err != nil {
		return cr.n, err
	}
	c, ok := CodecByName(string(nameBuf))
	if !ok {
		return cr.n, fmt.Errorf("%w: unknown codec %q", ErrSnapshot, string(nameBuf))
	}

	payload, err := readBlock(cr, ct)
	if err != nil {
		return cr.n, err
	}
	if len(payload) < 8 {
		return cr.n, fmt.Errorf("%w: truncated map payload", ErrSnapshot)
	}
	count := binary.LittleEndian.Uint64(payload[0:])
	payload = payload[8:]

	m.Clear()
	for i := uint64(0); i < count; i++ {
		if len(payload) < 8 {
			return cr.n, fmt.Errorf("%w: truncated map entry", ErrSnapshot)
		}
		idx := Index(binary.LittleEndian.Uint32(payload[0:]))
		valLen := binary.LittleEndian.Uint32(payload[4:])
		payload = payload[8:]
		if idx == Invalid {
			return cr.n, fmt.Errorf("%w: sentinel index entry", ErrSnapshot)
		}
		if uint64(len(payload)) < uint64(valLen) {
			return cr.n, fmt.Errorf("%w: truncated map value", ErrSnapshot)
		}
		var v V
		if err := c.Unmarshal(payload[:valLen], &v); err != nil {
			return cr.n, fmt.Errorf("unmarshal value at index %d: %w", idx, err)
		}
		payload = payload[valLen:]
		m.Insert(keyOf[K](idx), v)
	}
	return cr.n, nil
}
