package object

import (
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// CommitFilter reports whether a commit matches some caller-defined
// predicate, used by NewFilterCommitIter to decide which commits are
// emitted and where traversal should stop.
type CommitFilter func(*Commit) bool

type commitFilterIterator struct {
	isValid *CommitFilter
	isLimit *CommitFilter

	seen  map[plumbing.Hash]bool
	queue []*Commit
}

// NewFilterCommitIter returns a CommitIter that walks the commit history
// starting at from in breadth-first order, the same as NewCommitIterBSF,
// emitting only the commits isValid accepts (every commit, if isValid is
// nil). Traversal does not continue past a commit isLimit accepts: that
// commit is still emitted (subject to isValid), but its parents are never
// enqueued, the same as a shallow boundary.
func NewFilterCommitIter(
	from *Commit,
	isValid *CommitFilter,
	isLimit *CommitFilter,
) CommitIter {
	return &commitFilterIterator{
		isValid: isValid,
		isLimit: isLimit,
		seen:    make(map[plumbing.Hash]bool),
		queue:   []*Commit{from},
	}
}

func (w *commitFilterIterator) Next() (*Commit, error) {
	for {
		if len(w.queue) == 0 {
			return nil, io.EOF
		}

		c := w.queue[0]
		w.queue = w.queue[1:]

		if w.seen[c.Hash] {
			continue
		}
		w.seen[c.Hash] = true

		if w.isLimit == nil || !(*w.isLimit)(c) {
			err := c.Parents().ForEach(func(p *Commit) error {
				if !w.seen[p.Hash] {
					w.queue = append(w.queue, p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}

		if w.isValid != nil && !(*w.isValid)(c) {
			continue
		}

		return c, nil
	}
}

func (w *commitFilterIterator) ForEach(cb func(*Commit) error) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := cb(c); err != nil {
			if err == storer.ErrStop {
				break
			}
			return err
		}
	}

	return nil
}

func (w *commitFilterIterator) Close() {}
