package objfile

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/format/config"
)

// ErrOverflow is returned when a Writer receives more bytes than declared
// in its header.
var ErrOverflow = errors.New("objfile: declared data length exceeded")

// Writer encodes loose git objects, writing the "<type> <size>\x00" header
// followed by the zlib-compressed content to the underlying writer.
type Writer struct {
	w      io.Writer
	zw     *zlib.Writer
	hasher plumbing.Hasher

	size    int64
	written int64

	closed bool
}

// NewWriter returns a new Writer writing a loose object to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, zw: zlib.NewWriter(w)}
}

// WriteHeader writes the object's header, fixing its type and declared
// size for the rest of the Writer's lifetime.
func (w *Writer) WriteHeader(t plumbing.ObjectType, sz int64) error {
	if !t.Valid() {
		return plumbing.ErrInvalidType
	}

	if sz < 0 {
		return ErrNegativeSize
	}

	w.size = sz
	w.hasher = plumbing.NewHasher(config.DefaultObjectFormat, t, sz)

	header := []byte(fmt.Sprintf("%s %d\x00", t, sz))
	if _, err := w.zw.Write(header); err != nil {
		return err
	}

	return nil
}

// Write implements io.Writer, compressing and hashing up to the declared
// size. Writing beyond the size given to WriteHeader returns ErrOverflow.
func (w *Writer) Write(p []byte) (int, error) {
	overwrite := false
	if remaining := w.size - w.written; int64(len(p)) > remaining {
		p = p[:remaining]
		overwrite = true
	}

	n, err := w.zw.Write(p)
	if err == nil {
		w.hasher.Write(p[:n])
	}

	w.written += int64(n)
	if err == nil && overwrite {
		err = ErrOverflow
	}

	return n, err
}

// Hash returns the hash of the object written so far.
func (w *Writer) Hash() plumbing.Hash {
	return w.hasher.Sum()
}

// Close flushes the zlib stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true
	return w.zw.Close()
}
