package object

import (
	"errors"
	"fmt"
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// ErrUnsupportedObject is returned when an unsupported plumbing object
// type is requested for decoding.
var ErrUnsupportedObject = errors.New("unsupported object type")

// Object is implemented by every concrete git object: Commit, Tree,
// Blob and Tag.
type Object interface {
	ID() plumbing.Hash
	Type() plumbing.ObjectType
	Decode(plumbing.EncodedObject) error
	Encode(plumbing.EncodedObject) error
}

// DecodeObject decodes an EncodedObject into its matching concrete
// type, dispatching on o.Type(). AnyObject-typed encoded objects are
// not supported, since the concrete type must be known beforehand.
func DecodeObject(s storer.EncodedObjectStorer, o plumbing.EncodedObject) (Object, error) {
	if o == nil {
		return nil, plumbing.ErrObjectNotFound
	}

	switch o.Type() {
	case plumbing.CommitObject:
		c := &Commit{}
		if err := c.Decode(o); err != nil {
			return nil, err
		}
		c.s = s
		return c, nil
	case plumbing.TreeObject:
		t := &Tree{s: s}
		if err := t.Decode(o); err != nil {
			return nil, err
		}
		return t, nil
	case plumbing.BlobObject:
		b := &Blob{}
		if err := b.Decode(o); err != nil {
			return nil, err
		}
		return b, nil
	case plumbing.TagObject:
		t := &Tag{s: s}
		if err := t.Decode(o); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedObject, o.Type())
	}
}

// GetCommit retrieves and decodes the commit at hash.
func GetCommit(s storer.EncodedObjectStorer, h plumbing.Hash) (*Commit, error) {
	o, err := s.EncodedObject(plumbing.CommitObject, h)
	if err != nil {
		return nil, err
	}

	return DecodeCommit(s, o)
}

// DecodeCommit decodes o into a Commit, recording s as its object
// storer so that Tree() and Parents() can resolve further objects.
func DecodeCommit(s storer.EncodedObjectStorer, o plumbing.EncodedObject) (*Commit, error) {
	c := &Commit{s: s}
	if err := c.Decode(o); err != nil {
		return nil, err
	}

	return c, nil
}

// GetTree retrieves and decodes the tree at hash.
func GetTree(s storer.EncodedObjectStorer, h plumbing.Hash) (*Tree, error) {
	o, err := s.EncodedObject(plumbing.TreeObject, h)
	if err != nil {
		return nil, err
	}

	return DecodeTree(s, o)
}

// DecodeTree decodes o into a Tree, recording s as its object storer.
func DecodeTree(s storer.EncodedObjectStorer, o plumbing.EncodedObject) (*Tree, error) {
	t := &Tree{s: s}
	if err := t.Decode(o); err != nil {
		return nil, err
	}

	return t, nil
}

// GetBlob retrieves and decodes the blob at hash.
func GetBlob(s storer.EncodedObjectStorer, h plumbing.Hash) (*Blob, error) {
	o, err := s.EncodedObject(plumbing.BlobObject, h)
	if err != nil {
		return nil, err
	}

	return DecodeBlob(o)
}

// DecodeBlob decodes o into a Blob.
func DecodeBlob(o plumbing.EncodedObject) (*Blob, error) {
	b := &Blob{}
	if err := b.Decode(o); err != nil {
		return nil, err
	}

	return b, nil
}

// GetTag retrieves and decodes the annotated tag at hash.
func GetTag(s storer.EncodedObjectStorer, h plumbing.Hash) (*Tag, error) {
	o, err := s.EncodedObject(plumbing.TagObject, h)
	if err != nil {
		return nil, err
	}

	return DecodeTag(s, o)
}

// DecodeTag decodes o into a Tag, recording s as its object storer so
// that Commit()/Tree()/Blob()/Object() can resolve the tagged object.
func DecodeTag(s storer.EncodedObjectStorer, o plumbing.EncodedObject) (*Tag, error) {
	t := &Tag{s: s}
	if err := t.Decode(o); err != nil {
		return nil, err
	}

	return t, nil
}

// ObjectIter iterates over a series of objects, decoding each one to
// its concrete type as it is reached.
type ObjectIter struct {
	storer.EncodedObjectIter
	s storer.EncodedObjectStorer
}

// NewObjectIter returns an ObjectIter that decodes every object
// produced by iter using s to resolve nested references.
func NewObjectIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *ObjectIter {
	return &ObjectIter{iter, s}
}

// Next returns the next Object, or io.EOF when there are no more.
func (iter *ObjectIter) Next() (Object, error) {
	for {
		obj, err := iter.EncodedObjectIter.Next()
		if err != nil {
			return nil, err
		}

		o, err := DecodeObject(iter.s, obj)
		if err != nil {
			if errors.Is(err, plumbing.ErrInvalidType) {
				continue
			}

			return nil, err
		}

		return o, nil
	}
}

// ForEach calls f for every object produced by the iterator, stopping
// early if f returns storer.ErrStop or a non-nil error.
func (iter *ObjectIter) ForEach(f func(Object) error) error {
	for {
		obj, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(obj); err != nil {
			if err == storer.ErrStop {
				return nil
			}

			return err
		}
	}
}
