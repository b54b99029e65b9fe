// Package frame provides a way of sorting and iterating the children
// of a merkletrie noder, used by the merkletrie iterator to walk two
// trees in lockstep.
package frame

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/gitobj/gitobj/utils/merkletrie/noder"
)

// A Frame is a collection of siblings in a trie, sorted alphabetically
// by name.
type Frame struct {
	elements []noder.Noder
}

// New returns a new Frame, with the children of the given noder as
// elements, sorted alphabetically by name.
func New(n noder.Noder) (*Frame, error) {
	children, err := n.Children()
	if err != nil {
		return nil, err
	}

	ret := &Frame{
		elements: children,
	}
	sort.Sort(byName(ret.elements))

	return ret, nil
}

type byName []noder.Noder

func (a byName) Len() int      { return len(a) }
func (a byName) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byName) Less(i, j int) bool {
	return a[i].Name() < a[j].Name()
}

// First returns the first element in the frame, without removing it,
// and true. If the frame is empty it returns nil and false.
func (f *Frame) First() (noder.Noder, bool) {
	if len(f.elements) == 0 {
		return nil, false
	}

	return f.elements[0], true
}

// Drop removes the first element of the frame, if any.
func (f *Frame) Drop() {
	if len(f.elements) == 0 {
		return
	}

	f.elements = f.elements[1:]
}

// Len returns the number of elements still in the frame.
func (f *Frame) Len() int {
	return len(f.elements)
}

// String returns a JSON-like representation of the names of the
// elements still in the frame, for debugging purposes.
func (f *Frame) String() string {
	var names []string
	for _, e := range f.elements {
		names = append(names, fmt.Sprintf("%q", e.Name()))
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.WriteString(strings.Join(names, ", "))
	buf.WriteByte(']')

	return buf.String()
}
