package merkletrie

import (
	"fmt"
	"io"

	"github.com/gitobj/gitobj/utils/merkletrie/internal/frame"
	"github.com/gitobj/gitobj/utils/merkletrie/noder"
)

// Iter is a stateful preorder iterator over a merkletrie.
//
// Element i of frameStack holds the as-yet-unvisited siblings of
// path[i]; it is consulted first on Next/Step and is what "produces"
// path[i] once one of its elements is taken. Consequently
// len(frameStack) == len(path) always holds once the iterator has
// returned at least one element.
type Iter struct {
	frameStack []*frame.Frame
	top        noder.Path
}

// NewIter returns a new Iter for the given root noder. A nil root is
// treated as an empty tree.
func NewIter(root noder.Noder) (*Iter, error) {
	if root == nil {
		return &Iter{}, nil
	}

	topFrame, err := frame.New(root)
	if err != nil {
		return nil, err
	}

	return &Iter{
		frameStack: []*frame.Frame{topFrame},
	}, nil
}

// NewIterFromPath returns an Iter that will resume traversal right
// after the given path, as if every one of its elements (and anything
// that sorts before them among their siblings) had already been
// visited.
func NewIterFromPath(start noder.Path) (*Iter, error) {
	if len(start) == 0 {
		return NewIter(nil)
	}

	iter := &Iter{
		// the siblings of start[0] are unknown, since its parent was
		// never given to us; leave that level with nothing pending.
		frameStack: []*frame.Frame{{}},
	}

	for i, n := range start {
		f, err := frame.New(n)
		if err != nil {
			return nil, err
		}

		if i+1 < len(start) {
			dropThrough(f, start[i+1].Name())
		}

		iter.frameStack = append(iter.frameStack, f)
	}

	iter.top = clonePath(start)

	return iter, nil
}

// dropThrough removes elements from f, in order, up to and including
// the first one whose name matches target.
func dropThrough(f *frame.Frame, target string) {
	for {
		n, ok := f.First()
		if !ok {
			return
		}

		f.Drop()
		if n.Name() == target {
			return
		}
	}
}

// Next returns the path to the next noder in the trie, without
// descending into the children of the last noder returned. Returns
// io.EOF when there are no more noders.
func (iter *Iter) Next() (noder.Path, error) {
	return iter.advance(false)
}

// Step returns the path to the next noder in the trie, first
// descending into the children of the last noder returned by Next or
// Step, if any. Returns io.EOF when there are no more noders.
func (iter *Iter) Step() (noder.Path, error) {
	return iter.advance(true)
}

func (iter *Iter) advance(descend bool) (noder.Path, error) {
	if descend {
		if err := iter.pushTopChildren(); err != nil {
			return nil, err
		}
	}

	for len(iter.frameStack) != 0 {
		depth := len(iter.frameStack) - 1
		current := iter.frameStack[depth]

		first, ok := current.First()
		if !ok {
			iter.frameStack = iter.frameStack[:depth]
			iter.top = truncatePath(iter.top, len(iter.frameStack))
			continue
		}

		current.Drop()
		iter.top = append(truncatePath(iter.top, depth), first)

		return iter.top, nil
	}

	iter.top = nil

	return nil, io.EOF
}

// pushTopChildren pushes a new frame onto the stack holding the
// children of the noder at the top of the path, if it has any and
// isn't marked to be skipped.
func (iter *Iter) pushTopChildren() error {
	if len(iter.top) == 0 {
		return nil
	}

	n := iter.top.Last()
	if n.Skip() {
		return nil
	}

	numChildren, err := n.NumChildren()
	if err != nil {
		return fmt.Errorf("cannot get number of children of %q: %w", n.Name(), err)
	}
	if numChildren == 0 {
		return nil
	}

	f, err := frame.New(n)
	if err != nil {
		return fmt.Errorf("cannot get frame of %q: %w", n.Name(), err)
	}

	iter.frameStack = append(iter.frameStack, f)

	return nil
}

func truncatePath(p noder.Path, n int) noder.Path {
	if n > len(p) {
		n = len(p)
	}

	ret := make(noder.Path, n)
	copy(ret, p)

	return ret
}

func clonePath(p noder.Path) noder.Path {
	ret := make(noder.Path, len(p))
	copy(ret, p)
	return ret
}
