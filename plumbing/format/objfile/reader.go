// Package objfile implements encoding and decoding of loose objects, as
// found in .git/objects/xx/yyy...: a zlib-compressed stream of a
// "<type> <size>\x00<content>" header followed by the object's raw content.
package objfile

import (
	"bufio"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/format/config"
)

var (
	ErrClosed       = errors.New("objfile: already closed")
	ErrHeader       = errors.New("objfile: invalid header")
	ErrNegativeSize = errors.New("objfile: negative object size")
)

// Reader reads and decodes loose git objects.
type Reader struct {
	zr   io.ReadCloser
	hr   *headerReader
	typ  plumbing.ObjectType
	size int64
	h    plumbing.Hash
}

// NewReader returns a new Reader reading a loose object from r. The zlib
// header is decoded eagerly; the object header (type, size) is decoded
// lazily, on the first call to Header or Read.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("objfile: zlib: %w", err)
	}

	return &Reader{zr: zr}, nil
}

// Header parses and returns the object's type and plaintext size.
func (r *Reader) Header() (t plumbing.ObjectType, size int64, err error) {
	if r.hr == nil {
		br := bufio.NewReader(r.zr)
		typ, err := br.ReadString(' ')
		if err != nil {
			return plumbing.InvalidObject, 0, ErrHeader
		}
		typ = typ[:len(typ)-1]

		sz, err := br.ReadString(0)
		if err != nil {
			return plumbing.InvalidObject, 0, ErrHeader
		}
		sz = sz[:len(sz)-1]

		t, err = plumbing.ParseObjectType(typ)
		if err != nil {
			return plumbing.InvalidObject, 0, ErrHeader
		}

		size, err = strconv.ParseInt(sz, 10, 64)
		if err != nil {
			return plumbing.InvalidObject, 0, ErrHeader
		}

		r.typ = t
		r.size = size
		r.hr = &headerReader{
			r:      br,
			hasher: plumbing.NewHasher(config.DefaultObjectFormat, t, size),
		}
	}

	return r.typ, r.size, nil
}

// Hash returns the hash of the object. It's only valid once the whole
// content has been read from the Reader.
func (r *Reader) Hash() plumbing.Hash {
	if r.hr == nil {
		return plumbing.ZeroHash
	}

	return r.hr.hasher.Sum()
}

// Read implements io.Reader, returning the object's decompressed content.
func (r *Reader) Read(p []byte) (int, error) {
	if _, _, err := r.Header(); err != nil {
		return 0, err
	}

	return r.hr.Read(p)
}

// Close releases the underlying zlib reader.
func (r *Reader) Close() error {
	return r.zr.Close()
}

// headerReader wraps the post-header zlib stream, computing the object's
// git hash as content streams through it.
type headerReader struct {
	r      io.Reader
	hasher plumbing.Hasher
}

func (hr *headerReader) Read(p []byte) (int, error) {
	n, err := hr.r.Read(p)
	if n > 0 {
		hr.hasher.Write(p[:n])
	}

	return n, err
}
