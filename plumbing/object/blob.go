package object

import (
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// Blob is equivalent to a file in a filesystem, but it only contains
// the file's content, not its name or mode; those live in the
// TreeEntry that references it.
type Blob struct {
	Hash plumbing.Hash
	Size int64

	obj plumbing.EncodedObject
}

// ID returns the object hash of the blob.
func (b *Blob) ID() plumbing.Hash {
	return b.Hash
}

// Type returns the type of the object, always BlobObject.
func (b *Blob) Type() plumbing.ObjectType {
	return plumbing.BlobObject
}

// Decode transforms an EncodedObject into a Blob struct.
func (b *Blob) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.BlobObject {
		return ErrUnsupportedObject
	}

	b.Hash = o.Hash()
	b.Size = o.Size()
	b.obj = o

	return nil
}

// Encode transforms a Blob into an EncodedObject.
func (b *Blob) Encode(o plumbing.EncodedObject) error {
	o.SetType(plumbing.BlobObject)

	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	r, err := b.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if _, err := io.Copy(w, r); err != nil {
		return err
	}

	return nil
}

// Reader returns a reader allowing the access to the content of the
// blob.
func (b *Blob) Reader() (io.ReadCloser, error) {
	return b.obj.Reader()
}

// BlobIter provides an iterator for a set of blobs.
type BlobIter struct {
	storer.EncodedObjectIter
}

// NewBlobIter returns a BlobIter for the given repository and slice of
// objects.
func NewBlobIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *BlobIter {
	return &BlobIter{iter}
}

// Next moves the iterator to the next blob and returns it, or returns
// io.EOF if there are no more blobs.
func (iter *BlobIter) Next() (*Blob, error) {
	for {
		obj, err := iter.EncodedObjectIter.Next()
		if err != nil {
			return nil, err
		}

		if obj.Type() != plumbing.BlobObject {
			continue
		}

		return DecodeBlob(obj)
	}
}

// ForEach calls f for every blob in the iterator, until the iterator
// is exhausted, f returns storer.ErrStop or a non-nil error.
func (iter *BlobIter) ForEach(f func(*Blob) error) error {
	for {
		b, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(b); err != nil {
			if err == storer.ErrStop {
				return nil
			}

			return err
		}
	}
}
