package object

import (
	"fmt"
	"strings"

	"github.com/gitobj/gitobj/utils/merkletrie"
	"github.com/gitobj/gitobj/utils/merkletrie/noder"
)

// ChangeEntry names one side of a Change: the tree it was found in,
// the full slash-separated path leading to it, and the TreeEntry
// itself. The zero value represents a side that doesn't exist, as
// when a file is inserted or deleted rather than modified.
type ChangeEntry struct {
	// Name is the full path of the entry, from the root of the tree.
	Name string
	// Tree is the tree where the entry was found, which is the parent
	// of the entry itself if it is a directory.
	Tree *Tree
	// TreeEntry is the entry itself.
	TreeEntry TreeEntry
}

// empty is the zero ChangeEntry, returned for the side of a Change
// that doesn't apply (the "from" of an insert, the "to" of a delete).
var empty = ChangeEntry{}

// Change values represent a detected change between two git trees.
// For insertions, From is the zero value. For deletions, To is the
// zero value. For modifications, both are set.
type Change struct {
	From ChangeEntry
	To   ChangeEntry
}

// Action returns the kind of action represented by the change.
func (c *Change) Action() (merkletrie.Action, error) {
	if c.From == empty && c.To == empty {
		return merkletrie.Action(0), fmt.Errorf("malformed change: empty from and to")
	}

	if c.From == empty {
		return merkletrie.Insert, nil
	}

	if c.To == empty {
		return merkletrie.Delete, nil
	}

	return merkletrie.Modify, nil
}

// Files returns the files before and after the change; for insertions
// `from` is nil, for deletions `to` is nil.
func (c *Change) Files() (from, to *File, err error) {
	action, err := c.Action()
	if err != nil {
		return nil, nil, err
	}

	if action == merkletrie.Insert || action == merkletrie.Modify {
		to, err = c.To.Tree.TreeEntryFile(&c.To.TreeEntry)
		if err != nil {
			return
		}
	}

	if action == merkletrie.Delete || action == merkletrie.Modify {
		from, err = c.From.Tree.TreeEntryFile(&c.From.TreeEntry)
		if err != nil {
			return
		}
	}

	return
}

func (c *Change) String() string {
	action, err := c.Action()
	if err != nil {
		return "malformed change"
	}

	name := c.name()

	return fmt.Sprintf("<Action: %s, Path: %s>", action, name)
}

func (c *Change) name() string {
	if c.From.Name != "" {
		return c.From.Name
	}

	return c.To.Name
}

// Changes is a collection of changes, sortable by the name of the
// entry each one names.
type Changes []*Change

// NewChanges returns an empty Changes value.
func NewChanges() Changes {
	return Changes{}
}

func (c Changes) Len() int {
	return len(c)
}

func (c Changes) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

func (c Changes) Less(i, j int) bool {
	return c[i].name() < c[j].name()
}

func (c Changes) String() string {
	strs := make([]string, len(c))
	for i, ch := range c {
		strs[i] = ch.String()
	}

	return fmt.Sprintf("[%s]", strings.Join(strs, ", "))
}

// newChanges adapts a merkletrie.Changes value, produced by diffing two
// trees at the noder level, into a Changes value carrying the actual
// Tree and TreeEntry each side of the change came from.
func newChanges(src merkletrie.Changes) (Changes, error) {
	ret := make(Changes, len(src))
	for i, c := range src {
		var err error
		ret[i], err = newChange(c)
		if err != nil {
			return nil, err
		}
	}

	return ret, nil
}

func newChange(src merkletrie.Change) (*Change, error) {
	from, err := newChangeEntry(src.From)
	if err != nil {
		return nil, fmt.Errorf("malformed change: from: %w", err)
	}

	to, err := newChangeEntry(src.To)
	if err != nil {
		return nil, fmt.Errorf("malformed change: to: %w", err)
	}

	return &Change{From: from, To: to}, nil
}

// newChangeEntry adapts a noder.Path, produced by the merkletrie
// package, into a ChangeEntry, recovering the concrete Tree and
// TreeEntry it names. A nil path returns the zero ChangeEntry.
func newChangeEntry(path noder.Path) (ChangeEntry, error) {
	if path == nil {
		return empty, nil
	}

	asTreeNoder, ok := path.Last().(*treeNoder)
	if !ok {
		return empty, fmt.Errorf("cannot transform noder.Path to object.ChangeEntry: %+v", path.Last())
	}

	return ChangeEntry{
		Name:      nameFromPath(path),
		Tree:      asTreeNoder.parent,
		TreeEntry: treeEntryFromNoder(asTreeNoder),
	}, nil
}

func nameFromPath(path noder.Path) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = n.Name()
	}

	return strings.Join(parts, "/")
}

func treeEntryFromNoder(n *treeNoder) TreeEntry {
	return TreeEntry{
		Name: n.name,
		Mode: n.mode,
		Hash: n.hash,
	}
}
