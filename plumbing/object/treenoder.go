package object

import (
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/filemode"
	"github.com/gitobj/gitobj/utils/merkletrie/noder"
)

// treeNoder is a merkletrie noder wrapping a single entry of a Tree
// (or, for the root, the Tree itself). It lets DiffTree and the
// merkletrie package compare two git trees without knowing anything
// about trees, blobs, or hashes.
type treeNoder struct {
	parent *Tree // the Tree containing this entry, nil for the root
	name   string
	mode   filemode.FileMode
	hash   plumbing.Hash

	// children, lazily resolved.
	tree *Tree
}

// newTreeNoder returns the root noder for t. A nil t is turned into a
// noder representing an empty tree.
func newTreeNoder(t *Tree) noder.Noder {
	if t == nil {
		return &treeNoder{hash: plumbing.ZeroHash, mode: filemode.Dir}
	}

	return &treeNoder{
		parent: t,
		mode:   filemode.Dir,
		hash:   t.Hash,
		tree:   t,
	}
}

// Hash returns the concatenation of the content hash and the file
// mode, so that a change in either one is detected by the diff
// algorithm.
func (t *treeNoder) Hash() []byte {
	return append(t.hash.Bytes(), t.mode.Bytes()...)
}

func (t *treeNoder) Name() string {
	return t.name
}

func (t *treeNoder) IsDir() bool {
	return t.mode == filemode.Dir
}

// Skip reports whether this noder's subtree should not be descended
// into; submodule links point to another repository entirely.
func (t *treeNoder) Skip() bool {
	return t.mode == filemode.Submodule
}

func (t *treeNoder) resolveTree() (*Tree, error) {
	if t.tree != nil {
		return t.tree, nil
	}

	if !t.IsDir() {
		return nil, nil
	}

	if t.hash.IsZero() {
		t.tree = &Tree{}
		return t.tree, nil
	}

	if t.parent == nil || t.parent.s == nil {
		return nil, io.ErrUnexpectedEOF
	}

	tree, err := GetTree(t.parent.s, t.hash)
	if err != nil {
		return nil, err
	}

	t.tree = tree

	return tree, nil
}

func (t *treeNoder) Children() ([]noder.Noder, error) {
	if !t.IsDir() || t.Skip() {
		return noder.NoChildren, nil
	}

	tree, err := t.resolveTree()
	if err != nil {
		return nil, err
	}

	ret := make([]noder.Noder, len(tree.Entries))
	for i, e := range tree.Entries {
		ret[i] = &treeNoder{
			parent: tree,
			name:   e.Name,
			mode:   e.Mode,
			hash:   e.Hash,
		}
	}

	return ret, nil
}

func (t *treeNoder) NumChildren() (int, error) {
	if !t.IsDir() || t.Skip() {
		return 0, nil
	}

	tree, err := t.resolveTree()
	if err != nil {
		return -1, err
	}

	return len(tree.Entries), nil
}

func (t *treeNoder) String() string {
	return t.name
}
