package object

import (
	"container/heap"
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// commitTimeHeap is a min-heap ordering commits so that the most
// recent committer time pops first.
type commitTimeHeap []*Commit

func (h commitTimeHeap) Len() int { return len(h) }
func (h commitTimeHeap) Less(i, j int) bool {
	return h[i].Committer.When.After(h[j].Committer.When)
}
func (h commitTimeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *commitTimeHeap) Push(x interface{}) {
	*h = append(*h, x.(*Commit))
}

func (h *commitTimeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

type commitCTimeIterator struct {
	seenExternal map[plumbing.Hash]bool
	seen         map[plumbing.Hash]bool
	heap         commitTimeHeap
}

// NewCommitIterCTime returns a CommitIter that walks the commit
// history starting at c, visiting commits ordered by committer time,
// most recent first, regardless of parent/child relationships. Each
// commit is visited only once. ignore skips the named commits and
// everything only reachable through them.
func NewCommitIterCTime(
	c *Commit,
	seenExternal map[plumbing.Hash]bool,
	ignore []plumbing.Hash,
) CommitIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}

	h := make(commitTimeHeap, 0)
	heap.Push(&h, c)

	return &commitCTimeIterator{
		seenExternal: seenExternal,
		seen:         seen,
		heap:         h,
	}
}

func (w *commitCTimeIterator) Next() (*Commit, error) {
	var c *Commit
	for {
		if len(w.heap) == 0 {
			return nil, io.EOF
		}

		c = heap.Pop(&w.heap).(*Commit)

		if w.seen[c.Hash] || w.seenExternal[c.Hash] {
			continue
		}

		w.seen[c.Hash] = true

		err := c.Parents().ForEach(func(p *Commit) error {
			if !w.seen[p.Hash] && !w.seenExternal[p.Hash] {
				heap.Push(&w.heap, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		return c, nil
	}
}

func (w *commitCTimeIterator) ForEach(cb func(*Commit) error) error {
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

func (w *commitCTimeIterator) Close() {}
