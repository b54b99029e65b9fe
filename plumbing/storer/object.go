package storer

import (
	"errors"
	"io"

	"github.com/gitobj/gitobj/plumbing"
)

// ErrStop is used to stop a ForEach function in an Iter.
var ErrStop = errors.New("stop iter")

// Transaction is a set of operations for the storer that must be applied as
// a whole, or not applied at all.
type Transaction interface {
	SetEncodedObject(plumbing.EncodedObject) (plumbing.Hash, error)
	EncodedObject(plumbing.ObjectType, plumbing.Hash) (plumbing.EncodedObject, error)
	Commit() error
	Rollback() error
}

// EncodedObjectStorer generic storage of objects.
type EncodedObjectStorer interface {
	// NewEncodedObject returns a new noop plumbing.EncodedObject, the real
	// type is determined by the underlying storage implementation.
	NewEncodedObject() plumbing.EncodedObject
	// SetEncodedObject saves an object into the storage.
	SetEncodedObject(plumbing.EncodedObject) (plumbing.Hash, error)
	// EncodedObject gets an object by hash with the given plumbing.ObjectType.
	// ObjectType.AnyObject matches any object type.
	EncodedObject(plumbing.ObjectType, plumbing.Hash) (plumbing.EncodedObject, error)
	// IterEncodedObjects returns a EncodedObjectIter for the given
	// plumbing.ObjectType. ObjectType.AnyObject matches all the object types.
	IterEncodedObjects(plumbing.ObjectType) (EncodedObjectIter, error)
	// HasEncodedObject returns ErrObjNotFound if the object doesn't
	// exist. If the object exists, it returns nil.
	HasEncodedObject(plumbing.Hash) error
	// EncodedObjectSize returns the plaintext size of the object.
	EncodedObjectSize(plumbing.Hash) (int64, error)
	// RawObjectWriter returns a writer to bind the header of the object.
	RawObjectWriter(typ plumbing.ObjectType, sz int64) (w io.WriteCloser, err error)
	// Begin starts a transaction.
	Begin() Transaction
	// AddAlternate adds a path as an alternate object database.
	AddAlternate(remote string) error
}

// PackfileWriter is an optional interface for object storers that can
// write a whole packfile at once, rather than one object at a time.
type PackfileWriter interface {
	// PackfileWriter returns a writer that accepts a whole packfile. Once
	// everything is written, the writer must be closed and the
	// implementation must first implement a decoder to index the new
	// packfile before it is accessible for reading.
	PackfileWriter() (io.WriteCloser, error)
}

// DeltaObjectStorer is an optional interface for object storers that can
// return an object without resolving its delta chain, along with
// information about its delta base.
type DeltaObjectStorer interface {
	// DeltaObject is the same as EncodedObject, but when the requested
	// object is stored as a delta, it returns a plumbing.DeltaObject
	// rather than fully resolving it.
	DeltaObject(plumbing.ObjectType, plumbing.Hash) (plumbing.EncodedObject, error)
}

// EncodedObjectIter is a generic closable interface for iterating over
// EncodedObjects.
type EncodedObjectIter interface {
	Next() (plumbing.EncodedObject, error)
	ForEach(func(plumbing.EncodedObject) error) error
	Close()
}

// EncodedObjectSliceIter implements EncodedObjectIter over a plain slice of
// EncodedObjects.
type EncodedObjectSliceIter struct {
	series []plumbing.EncodedObject
}

// NewEncodedObjectSliceIter returns an EncodedObjectIter over a slice of
// EncodedObjects.
func NewEncodedObjectSliceIter(series []plumbing.EncodedObject) *EncodedObjectSliceIter {
	return &EncodedObjectSliceIter{series: series}
}

// Next returns the next object from the iterator. If the iterator has
// reached the end it will return io.EOF as an error.
func (iter *EncodedObjectSliceIter) Next() (plumbing.EncodedObject, error) {
	if len(iter.series) == 0 {
		return nil, io.EOF
	}

	obj := iter.series[0]
	iter.series = iter.series[1:]

	return obj, nil
}

// ForEach iterates over every EncodedObject, calling f for each. It stops
// early when either the end of the iterator is reached, f returns ErrStop
// or a non-nil error.
func (iter *EncodedObjectSliceIter) ForEach(f func(plumbing.EncodedObject) error) error {
	for {
		obj, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(obj); err != nil {
			if err == ErrStop {
				return nil
			}

			return err
		}
	}
}

func (iter *EncodedObjectSliceIter) Close() {
	iter.series = []plumbing.EncodedObject{}
}

type objectsIterByHash struct {
	series  []plumbing.Hash
	storage EncodedObjectStorer
	t       plumbing.ObjectType
}

// NewEncodedObjectLookupIter returns an EncodedObjectIter that iterates over
// a set of hashes, resolving each one, in the given storage, lazily.
func NewEncodedObjectLookupIter(
	storage EncodedObjectStorer, t plumbing.ObjectType, series []plumbing.Hash,
) EncodedObjectIter {
	return &objectsIterByHash{
		series:  series,
		storage: storage,
		t:       t,
	}
}

func (iter *objectsIterByHash) Next() (plumbing.EncodedObject, error) {
	if len(iter.series) == 0 {
		return nil, io.EOF
	}

	obj, err := iter.storage.EncodedObject(iter.t, iter.series[0])
	if err != nil {
		return nil, err
	}

	iter.series = iter.series[1:]

	return obj, nil
}

func (iter *objectsIterByHash) ForEach(f func(plumbing.EncodedObject) error) error {
	for {
		obj, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(obj); err != nil {
			if err == ErrStop {
				return nil
			}

			return err
		}
	}
}

func (iter *objectsIterByHash) Close() {
	iter.series = []plumbing.Hash{}
}

// MultiEncodedObjectIter combines a set of EncodedObjectIter, visiting each
// in turn until all are exhausted.
type MultiEncodedObjectIter struct {
	iters []EncodedObjectIter
}

// NewMultiEncodedObjectIter returns an EncodedObjectIter composing iters,
// iterated over in order.
func NewMultiEncodedObjectIter(iters []EncodedObjectIter) EncodedObjectIter {
	return &MultiEncodedObjectIter{iters: iters}
}

func (m *MultiEncodedObjectIter) Next() (plumbing.EncodedObject, error) {
	for {
		if len(m.iters) == 0 {
			return nil, io.EOF
		}

		obj, err := m.iters[0].Next()
		if err == io.EOF {
			m.iters[0].Close()
			m.iters = m.iters[1:]
			continue
		}

		return obj, err
	}
}

func (m *MultiEncodedObjectIter) ForEach(f func(plumbing.EncodedObject) error) error {
	for {
		obj, err := m.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(obj); err != nil {
			if err == ErrStop {
				return nil
			}

			return err
		}
	}
}

func (m *MultiEncodedObjectIter) Close() {
	for _, i := range m.iters {
		i.Close()
	}
}
