package merkletrie

import (
	"errors"
	"fmt"

	"github.com/gitobj/gitobj/utils/merkletrie/noder"
)

// ErrEmptyFileName is returned when a Change involves an empty path.
var ErrEmptyFileName = errors.New("empty filename in tree entry")

// Action values represent the kind of things a Change can represent:
// insertion, deletions or modifications of files.
type Action int

const (
	_ Action = iota
	// Insert represents a newly created file.
	Insert
	// Delete represents a removed file.
	Delete
	// Modify represents a file whose contents, mode, or both have
	// changed.
	Modify
)

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	case Modify:
		return "Modify"
	default:
		panic(fmt.Sprintf("unsupported action: %d", a))
	}
}

// Change values represent a detected change between two trees: a file
// or directory that was inserted, deleted or modified.
type Change struct {
	// From is the path as it was before the change, or the zero
	// value for an Insert.
	From noder.Path
	// To is the path as it is after the change, or the zero value
	// for a Delete.
	To noder.Path
}

// NewInsert returns a Change representing the insertion of n.
func NewInsert(n noder.Path) Change { return Change{To: n} }

// NewDelete returns a Change representing the deletion of n.
func NewDelete(n noder.Path) Change { return Change{From: n} }

// NewModify returns a Change representing the modification of a into
// b.
func NewModify(a, b noder.Path) Change { return Change{From: a, To: b} }

// Action returns the kind of change represented: Insert, Delete or
// Modify.
func (c *Change) Action() (Action, error) {
	switch {
	case c.From == nil && c.To == nil:
		return Action(0), fmt.Errorf("malformed change: nil from and to")
	case c.From == nil:
		return Insert, nil
	case c.To == nil:
		return Delete, nil
	default:
		return Modify, nil
	}
}

// String returns a human readable representation of the change, in
// the form "<Action path>".
func (c *Change) String() string {
	action, err := c.Action()
	if err != nil {
		panic(err)
	}

	var path string
	switch action {
	case Insert:
		path = c.To.String()
	case Delete:
		path = c.From.String()
	case Modify:
		path = c.To.String()
	}

	return fmt.Sprintf("<%s %s>", action, path)
}

// Changes is a collection of changes between two trees.
type Changes []Change

// NewChanges returns an empty Changes value.
func NewChanges() Changes {
	return Changes{}
}

// AddRecursiveInsert adds to the changeset one Insert action for n and
// every noder in its subtree. It is used when a whole subtree has no
// counterpart in the other tree being compared.
func (c *Changes) AddRecursiveInsert(root noder.Path) error {
	return c.addRecursive(root, NewInsert)
}

// AddRecursiveDelete adds to the changeset one Delete action for n and
// every noder in its subtree.
func (c *Changes) AddRecursiveDelete(root noder.Path) error {
	return c.addRecursive(root, NewDelete)
}

func (c *Changes) addRecursive(root noder.Path, ctor func(noder.Path) Change) error {
	if len(root) == 0 {
		return ErrEmptyFileName
	}

	*c = append(*c, ctor(root))

	if root.Last().Skip() {
		return nil
	}

	children, err := root.Last().Children()
	if err != nil {
		return err
	}

	for _, child := range children {
		childPath := append(clonePath(root), child)
		if err := c.addRecursive(childPath, ctor); err != nil {
			return err
		}
	}

	return nil
}
