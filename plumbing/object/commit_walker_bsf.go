package object

import (
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
)

type commitBSFIterator struct {
	seenExternal map[plumbing.Hash]bool
	seen         map[plumbing.Hash]bool
	queue        []*Commit
}

// NewCommitIterBSF returns a CommitIter that walks the commit history
// starting at c in breadth-first order: every commit at a given
// distance from c is visited before any commit further away. Each
// commit is visited only once. ignore skips the named commits and
// everything only reachable through them.
func NewCommitIterBSF(
	c *Commit,
	seenExternal map[plumbing.Hash]bool,
	ignore []plumbing.Hash,
) CommitIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}

	return &commitBSFIterator{
		seenExternal: seenExternal,
		seen:         seen,
		queue:        []*Commit{c},
	}
}

func (w *commitBSFIterator) Next() (*Commit, error) {
	var c *Commit
	for {
		if len(w.queue) == 0 {
			return nil, io.EOF
		}

		c = w.queue[0]
		w.queue = w.queue[1:]

		if w.seen[c.Hash] || w.seenExternal[c.Hash] {
			continue
		}

		w.seen[c.Hash] = true

		err := c.Parents().ForEach(func(p *Commit) error {
			if !w.seen[p.Hash] && !w.seenExternal[p.Hash] {
				w.queue = append(w.queue, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		return c, nil
	}
}

func (w *commitBSFIterator) ForEach(cb func(*Commit) error) error {
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

func (w *commitBSFIterator) Close() {}
