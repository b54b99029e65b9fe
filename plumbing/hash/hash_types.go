package hash

import (
	"bytes"
	"crypto"
	"encoding/hex"
	"fmt"
	"io"
)

// SHA1Hash is a fixed-size SHA-1 ObjectID. The zero value is the all-zeros
// hash, not a valid object id.
type SHA1Hash struct {
	hash [SHA1Size]byte
}

func (h SHA1Hash) Size() int { return SHA1Size }

func (h SHA1Hash) IsZero() bool {
	var zero [SHA1Size]byte
	return h.hash == zero
}

func (h SHA1Hash) Compare(b []byte) int {
	return bytes.Compare(h.hash[:], b)
}

func (h SHA1Hash) String() string {
	return hex.EncodeToString(h.hash[:])
}

func (h SHA1Hash) Bytes() []byte {
	out := make([]byte, SHA1Size)
	copy(out, h.hash[:])
	return out
}

func (h SHA1Hash) HasPrefix(prefix []byte) bool {
	if len(prefix) > SHA1Size {
		return false
	}
	return bytes.HasPrefix(h.hash[:], prefix)
}

// Write implements io.Writer, allowing a SHA1Hash to be filled in after
// construction, mirroring LazyObjectID.
func (h *SHA1Hash) Write(p []byte) (int, error) {
	n := copy(h.hash[:], p)
	if n < len(p) {
		return n, fmt.Errorf("cannot write %d bytes into a %d-byte hash", len(p), SHA1Size)
	}
	return n, nil
}

func (h *SHA1Hash) FromReaderAt(r io.ReaderAt, off int64) (int, error) {
	return r.ReadAt(h.hash[:], off)
}

func (h *SHA1Hash) FromReader(r io.Reader) (int, error) {
	return io.ReadFull(r, h.hash[:])
}

// SHA256Hash is a fixed-size SHA-256 ObjectID.
type SHA256Hash struct {
	hash [SHA256Size]byte
}

func (h SHA256Hash) Size() int { return SHA256Size }

func (h SHA256Hash) IsZero() bool {
	var zero [SHA256Size]byte
	return h.hash == zero
}

func (h SHA256Hash) Compare(b []byte) int {
	return bytes.Compare(h.hash[:], b)
}

func (h SHA256Hash) String() string {
	return hex.EncodeToString(h.hash[:])
}

func (h SHA256Hash) Bytes() []byte {
	out := make([]byte, SHA256Size)
	copy(out, h.hash[:])
	return out
}

func (h SHA256Hash) HasPrefix(prefix []byte) bool {
	if len(prefix) > SHA256Size {
		return false
	}
	return bytes.HasPrefix(h.hash[:], prefix)
}

func (h *SHA256Hash) Write(p []byte) (int, error) {
	n := copy(h.hash[:], p)
	if n < len(p) {
		return n, fmt.Errorf("cannot write %d bytes into a %d-byte hash", len(p), SHA256Size)
	}
	return n, nil
}

func (h *SHA256Hash) FromReaderAt(r io.ReaderAt, off int64) (int, error) {
	return r.ReadAt(h.hash[:], off)
}

func (h *SHA256Hash) FromReader(r io.Reader) (int, error) {
	return io.ReadFull(r, h.hash[:])
}

var (
	_ ObjectID = SHA1Hash{}
	_ ObjectID = SHA256Hash{}

	_ LazyObjectID = &SHA1Hash{}
	_ LazyObjectID = &SHA256Hash{}
)

// NewLazy returns an unfilled LazyObjectID sized for the given hash function,
// ready to be populated via FromReader/FromReaderAt/Write.
func NewLazy(h crypto.Hash) LazyObjectID {
	switch h {
	case crypto.SHA256:
		return &SHA256Hash{}
	default:
		return &SHA1Hash{}
	}
}
