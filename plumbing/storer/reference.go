package storer

import (
	"io"

	"github.com/gitobj/gitobj/plumbing"
)

// ReferenceStorer is a generic storage of references.
type ReferenceStorer interface {
	SetReference(*plumbing.Reference) error
	// CheckAndSetReference sets the reference `new`, only if the reference
	// currently stored for the same name equals `old`; old being nil means
	// the reference must not exist.
	CheckAndSetReference(new, old *plumbing.Reference) error
	Reference(plumbing.ReferenceName) (*plumbing.Reference, error)
	IterReferences() (ReferenceIter, error)
	RemoveReference(plumbing.ReferenceName) error
	CountLooseRefs() (int, error)
	PackRefs() error
}

// ReferenceIter is a generic closable interface for iterating over
// references.
type ReferenceIter interface {
	Next() (*plumbing.Reference, error)
	ForEach(func(*plumbing.Reference) error) error
	Close()
}

// ReferenceSliceIter implements ReferenceIter over a plain slice of
// references.
type ReferenceSliceIter struct {
	series []*plumbing.Reference
	pos    int
}

// NewReferenceSliceIter returns a ReferenceIter over a slice of References.
func NewReferenceSliceIter(series []*plumbing.Reference) *ReferenceSliceIter {
	return &ReferenceSliceIter{series: series}
}

// Next returns the next reference from the iterator. If the iterator has
// reached the end it will return io.EOF as an error.
func (iter *ReferenceSliceIter) Next() (*plumbing.Reference, error) {
	if iter.pos >= len(iter.series) {
		return nil, io.EOF
	}

	obj := iter.series[iter.pos]
	iter.pos++

	return obj, nil
}

// ForEach iterates over every Reference, calling f for each. It stops early
// when either the end of the iterator is reached, f returns ErrStop or a
// non-nil error.
func (iter *ReferenceSliceIter) ForEach(f func(*plumbing.Reference) error) error {
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

func (iter *ReferenceSliceIter) Close() {
	iter.pos = len(iter.series)
}

// ReferenceFilteredIter wraps another ReferenceIter, skipping over any
// reference for which f returns false.
type ReferenceFilteredIter struct {
	f    func(*plumbing.Reference) bool
	iter ReferenceIter
}

// NewReferenceFilteredIter returns a ReferenceIter over the references of
// iter for which f returns true.
func NewReferenceFilteredIter(
	f func(*plumbing.Reference) bool, iter ReferenceIter,
) *ReferenceFilteredIter {
	return &ReferenceFilteredIter{f, iter}
}

func (iter *ReferenceFilteredIter) Next() (*plumbing.Reference, error) {
	for {
		obj, err := iter.iter.Next()
		if err != nil {
			return nil, err
		}

		if iter.f(obj) {
			return obj, nil
		}
	}
}

func (iter *ReferenceFilteredIter) ForEach(f func(*plumbing.Reference) error) error {
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

func (iter *ReferenceFilteredIter) Close() {
	iter.iter.Close()
}

// MultiReferenceIter combines a set of ReferenceIter, visiting each in turn
// until all are exhausted.
type MultiReferenceIter struct {
	iters []ReferenceIter
}

// NewMultiReferenceIter returns a ReferenceIter composing iters, iterated
// over in order.
func NewMultiReferenceIter(iters []ReferenceIter) *MultiReferenceIter {
	return &MultiReferenceIter{iters: iters}
}

func (m *MultiReferenceIter) Next() (*plumbing.Reference, error) {
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

func (m *MultiReferenceIter) ForEach(f func(*plumbing.Reference) error) error {
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

func (m *MultiReferenceIter) Close() {
	for _, i := range m.iters {
		i.Close()
	}
}
