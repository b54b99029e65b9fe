package fsnoder

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/gitobj/gitobj/utils/merkletrie/noder"
)

// dir values represent directory-like noders in a merkle trie.
type dir struct {
	name     string
	children []noder.Noder
	hash     []byte // memoized
}

const (
	dirStartMark  = '('
	dirEndMark    = ')'
	dirElementSep = ' '
)

// newDir returns a noder representing a directory with the given name
// and children. Children are sorted by name, as git itself sorts tree
// entries.
func newDir(name string, children []noder.Noder) (*dir, error) {
	sort.Sort(byName(children))

	return &dir{
		name:     name,
		children: children,
	}, nil
}

type byName []noder.Noder

func (a byName) Len() int           { return len(a) }
func (a byName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byName) Less(i, j int) bool { return a[i].Name() < a[j].Name() }

// The hash of a dir is the concatenation of the hashes of its children,
// in name order.
func (d *dir) Hash() []byte {
	if d.hash == nil {
		var buf bytes.Buffer
		for _, c := range d.children {
			buf.Write(c.Hash())
		}
		d.hash = buf.Bytes()
	}

	return d.hash
}

func (d *dir) Name() string {
	return d.name
}

func (d *dir) IsDir() bool {
	return true
}

func (d *dir) Children() ([]noder.Noder, error) {
	return d.children, nil
}

func (d *dir) NumChildren() (int, error) {
	return len(d.children), nil
}

func (d *dir) Skip() bool {
	return false
}

// String returns a string formatted as: name(child1 child2 ...).
func (d *dir) String() string {
	var buf bytes.Buffer
	buf.WriteString(d.name)
	buf.WriteRune(dirStartMark)
	for i, c := range d.children {
		if i != 0 {
			buf.WriteRune(dirElementSep)
		}
		buf.WriteString(fmt.Sprint(c))
	}
	buf.WriteRune(dirEndMark)

	return buf.String()
}
