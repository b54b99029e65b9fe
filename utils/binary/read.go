package binary

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/gitobj/gitobj/plumbing"
)

// sniffLen is the number of leading bytes IsBinary inspects, mirroring
// git's own binary-content heuristic.
const sniffLen = 8000

// Read reads structured binary data from r into data, using BigEndian
// order. See https://golang.org/pkg/encoding/binary/#Read.
func Read(r io.Reader, data ...interface{}) error {
	for _, v := range data {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return err
		}
	}

	return nil
}

// ReadUint64 reads a BigEndian encoded uint64 from r.
func ReadUint64(r io.Reader) (uint64, error) {
	var v uint64
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}

	return v, nil
}

// ReadUint32 reads a BigEndian encoded uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}

	return v, nil
}

// ReadUint16 reads a BigEndian encoded uint16 from r.
func ReadUint16(r io.Reader) (uint16, error) {
	var v uint16
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}

	return v, nil
}

// ReadHash reads a hash from r. The hash is assumed to be of the default
// (SHA1) size, unless an explicit length is given.
func ReadHash(r io.Reader, length ...int) (plumbing.Hash, error) {
	var h plumbing.Hash

	n := h.Size()
	if len(length) > 0 {
		n = length[0]
	}
	h.ResetBySize(n)

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return h, err
	}

	h.Write(buf)
	return h, nil
}

// ReadUntil reads from r until delim is found, returning everything read
// before it. The delimiter itself is consumed but not included.
//
// Unlike bufio.Reader.ReadBytes, this never reads ahead past the
// delimiter, so it is safe to call repeatedly against a shared,
// non-buffered reader without losing unread bytes.
func ReadUntil(r io.Reader, delim byte) ([]byte, error) {
	if br, ok := r.(*bufio.Reader); ok {
		return ReadUntilFromBufioReader(br, delim)
	}

	var b [1]byte
	value := make([]byte, 0, 16)
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}

		if b[0] == delim {
			return value, nil
		}

		value = append(value, b[0])
	}
}

// ReadUntilFromBufioReader reads from r until delim is found, returning
// everything read before it.
func ReadUntilFromBufioReader(r *bufio.Reader, delim byte) ([]byte, error) {
	b, err := r.ReadBytes(delim)
	if err != nil {
		return nil, err
	}

	return b[:len(b)-1], nil
}

// ReadVariableWidthInt reads the variable width integer encoding git uses
// for OFS delta offsets: a run of bytes with the high bit set except for
// the last one, most significant group first.
func ReadVariableWidthInt(r io.Reader) (int64, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	n := int64(b[0] & 0x7f)
	for b[0]&0x80 != 0 {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		n = ((n + 1) << 7) | int64(b[0]&0x7f)
	}

	return n, nil
}

// IsBinary detects whether the content read from r looks like binary
// data, by checking the first sniffLen bytes for a NUL byte.
func IsBinary(r io.Reader) (bool, error) {
	buf := make([]byte, sniffLen)

	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}

	return bytes.IndexByte(buf[:n], 0) != -1, nil
}
