package plumbing

import (
	"bytes"
	"io"

	"github.com/gitobj/gitobj/plumbing/format/config"
)

// MemoryObject is an EncodedObject implementation that keeps the whole
// object contents in memory. It's used as the default object produced by
// repository storage layers that don't have a cheaper way to hand back a
// fully buffered object, and in tests.
type MemoryObject struct {
	typ  ObjectType
	h    Hash
	sz   int64
	cont []byte
	oh   *ObjectHasher
}

// NewMemoryObject returns a MemoryObject that hashes itself using the
// format of the given ObjectHasher. A nil oh falls back to the default
// object format.
func NewMemoryObject(oh *ObjectHasher) *MemoryObject {
	return &MemoryObject{oh: oh}
}

// Hash returns the hash of the object, computed lazily from its type, size
// and content the first time it's requested, then cached. Until something
// has actually been written to the object, Hash returns ZeroHash.
func (o *MemoryObject) Hash() Hash {
	if o.h.IsZero() && o.cont != nil {
		format := config.DefaultObjectFormat
		if o.oh != nil {
			format = o.oh.format
		}

		h := NewHasher(format, o.typ, o.sz)
		_, _ = h.Write(o.cont)
		o.h = h.Sum()
	}

	return o.h
}

// Type returns the object type.
func (o *MemoryObject) Type() ObjectType { return o.typ }

// SetType sets the object type.
func (o *MemoryObject) SetType(t ObjectType) { o.typ = t }

// Size returns the plaintext size of the object.
func (o *MemoryObject) Size() int64 { return o.sz }

// SetSize sets the plaintext size of the object.
func (o *MemoryObject) SetSize(s int64) { o.sz = s }

// Write appends p to the object's content buffer, growing Size to match,
// and implements io.Writer directly so callers don't need to go through
// Writer for the common case of filling in a freshly built object.
func (o *MemoryObject) Write(p []byte) (int, error) {
	o.cont = append(o.cont, p...)
	o.sz = int64(len(o.cont))
	return len(p), nil
}

// Reader returns a reader for the object's content. The returned reader
// also implements io.ReadSeeker, whatever the size of the content.
func (o *MemoryObject) Reader() (io.ReadCloser, error) {
	return &memoryObjectReader{bytes.NewReader(o.cont)}, nil
}

// memoryObjectReader embeds *bytes.Reader directly (rather than going
// through io.NopCloser) so that callers doing an io.ReadSeeker type
// assertion on the result still succeed.
type memoryObjectReader struct {
	*bytes.Reader
}

func (memoryObjectReader) Close() error { return nil }

// Writer returns a writer that appends to the object's content buffer.
func (o *MemoryObject) Writer() (io.WriteCloser, error) {
	return &memoryObjectWriter{o}, nil
}

type memoryObjectWriter struct {
	o *MemoryObject
}

func (w *memoryObjectWriter) Write(p []byte) (int, error) {
	return w.o.Write(p)
}

func (w *memoryObjectWriter) Close() error { return nil }
