package object

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/filemode"
	"github.com/gitobj/gitobj/plumbing/storer"
)

const (
	maxTreeDepth      = 1024
	startingStackSize = 8
)

// ErrMaxTreeDepth is returned when the maximum allowed tree depth is
// exceeded while recursively resolving a path.
var ErrMaxTreeDepth = errors.New("maximum tree depth exceeded")

// ErrFileNotFound is returned when a path cannot be found inside a
// Tree or a Commit.
var ErrFileNotFound = errors.New("file not found")

// ErrDirectoryNotFound is returned when a dir cannot be found inside a
// Tree or a Commit.
var ErrDirectoryNotFound = errors.New("directory not found")

// ErrEntryNotFound is returned when no TreeEntry is found with a given
// name in a Tree.
var ErrEntryNotFound = errors.New("entry not found")

// TreeEntry represents a file or directory inside a Tree, without the
// content behind it; the content lives in the blob or tree identified
// by Hash.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash plumbing.Hash
}

// Tree is basically like a directory; it references a bunch of other
// tree entries, each of which points to either another tree, or a
// blob.
type Tree struct {
	Entries []TreeEntry
	Hash    plumbing.Hash

	s storer.EncodedObjectStorer
	m map[string]*TreeEntry
}

// ID returns the object hash of the tree.
func (t *Tree) ID() plumbing.Hash {
	return t.Hash
}

// Type returns the type of the object, always TreeObject.
func (t *Tree) Type() plumbing.ObjectType {
	return plumbing.TreeObject
}

// Decode transforms a plumbing.EncodedObject into a Tree struct.
func (t *Tree) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.TreeObject {
		return ErrUnsupportedObject
	}

	t.Hash = o.Hash()

	if o.Size() == 0 {
		t.Entries = nil
		t.m = nil
		return nil
	}

	r, err := o.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	reader := bufio.NewReader(r)
	t.Entries = nil
	t.m = nil

	for {
		str, err := reader.ReadString(' ')
		if err != nil {
			if err == io.EOF {
				break
			}

			return err
		}
		str = strings.TrimSuffix(str, " ")

		mode, err := filemode.New(str)
		if err != nil {
			return err
		}

		name, err := reader.ReadString(0)
		if err != nil && err != io.EOF {
			return err
		}
		name = strings.TrimSuffix(name, "\x00")

		var hash plumbing.Hash
		if _, err := hash.ReadFrom(reader); err != nil {
			return err
		}

		t.Entries = append(t.Entries, TreeEntry{
			Name: name,
			Mode: mode,
			Hash: hash,
		})
	}

	return nil
}

// Encode transforms a Tree into a plumbing.EncodedObject.
func (t *Tree) Encode(o plumbing.EncodedObject) error {
	o.SetType(plumbing.TreeObject)

	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	for _, entry := range t.Entries {
		if _, err := fmt.Fprintf(w, "%o %s", uint32(entry.Mode), entry.Name); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0x00}); err != nil {
			return err
		}
		if _, err := w.Write(entry.Hash.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

// File returns the file identified by the `path` argument.
// The path is interpreted relative to the tree's root, with "/" as
// separator.
func (t *Tree) File(filePath string) (*File, error) {
	e, err := t.FindEntry(filePath)
	if err != nil {
		return nil, ErrFileNotFound
	}

	blob, err := GetBlob(t.s, e.Hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return NewFile(filePath, e.Mode, blob), nil
}

// Tree returns the tree identified by the `path` argument, relative to
// this one.
func (t *Tree) Tree(path string) (*Tree, error) {
	entry, err := t.FindEntry(path)
	if err != nil {
		return nil, ErrDirectoryNotFound
	}

	tree, err := GetTree(t.s, entry.Hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, ErrDirectoryNotFound
		}
		return nil, err
	}

	return tree, nil
}

// TreeEntryFile returns the *File for a given TreeEntry.
func (t *Tree) TreeEntryFile(e *TreeEntry) (*File, error) {
	blob, err := GetBlob(t.s, e.Hash)
	if err != nil {
		return nil, err
	}

	return NewFile(e.Name, e.Mode, blob), nil
}

// FindEntry resolves a "/"-separated relative path against t, walking
// through nested trees as needed.
func (t *Tree) FindEntry(path string) (*TreeEntry, error) {
	pathParts := strings.Split(path, "/")

	var tree *Tree
	var err error

	tree = t
	for i, part := range pathParts {
		if i == len(pathParts)-1 {
			return tree.entry(part)
		}

		tree, err = tree.dir(part)
		if err != nil {
			return nil, err
		}
	}

	return nil, ErrEntryNotFound
}

func (t *Tree) dir(baseName string) (*Tree, error) {
	entry, err := t.entry(baseName)
	if err != nil {
		return nil, ErrDirectoryNotFound
	}

	return GetTree(t.s, entry.Hash)
}

func (t *Tree) entry(baseName string) (*TreeEntry, error) {
	if t.m == nil {
		t.buildMap()
	}

	entry, ok := t.m[baseName]
	if !ok {
		return nil, ErrEntryNotFound
	}

	return entry, nil
}

// Files returns an iterator over every regular file found anywhere
// under the tree, recursing into nested trees and skipping submodule
// entries.
func (t *Tree) Files() *FileIter {
	return NewFileIter(t.s, t)
}

// ID returns the TreeEntry's content hash.
func (e TreeEntry) ID() plumbing.Hash {
	return e.Hash
}

func (t *Tree) buildMap() {
	t.m = make(map[string]*TreeEntry, len(t.Entries))
	for i := range t.Entries {
		t.m[t.Entries[i].Name] = &t.Entries[i]
	}
}

// TreeWalker provides a means to iterate through the nodes in a tree,
// entry by entry, depth-first, recursing into nested trees as they
// are encountered.
type TreeWalker struct {
	stack     []*treeEntryIter
	base      string
	recursive bool
	seen      map[plumbing.Hash]bool

	s storer.EncodedObjectStorer
	t *Tree
}

// NewTreeWalker returns a new TreeWalker for the given tree.
//
// It is the caller's responsibility to call Close() when finished with
// the tree walker.
func NewTreeWalker(t *Tree, recursive bool, seen map[plumbing.Hash]bool) *TreeWalker {
	stack := make([]*treeEntryIter, 0, startingStackSize)
	stack = append(stack, &treeEntryIter{t, 0})

	return &TreeWalker{
		stack:     stack,
		recursive: recursive,
		seen:      seen,
		s:         t.s,
		t:         t,
	}
}

// Next returns the name and TreeEntry of the next entry in the tree,
// in preorder. io.EOF is returned when no more entries are found.
func (w *TreeWalker) Next() (name string, entry TreeEntry, err error) {
	for {
		if len(w.stack) == 0 {
			return "", TreeEntry{}, io.EOF
		}

		if len(w.stack) > maxTreeDepth {
			return "", TreeEntry{}, ErrMaxTreeDepth
		}

		current := w.stack[len(w.stack)-1]
		if current.t == nil || current.pos >= len(current.t.Entries) {
			w.stack = w.stack[:len(w.stack)-1]
			if len(w.base) != 0 {
				w.base = path.Dir(w.base)
				if w.base == "." {
					w.base = ""
				}
			}
			continue
		}

		e := current.t.Entries[current.pos]
		current.pos++

		if len(w.base) != 0 {
			name = path.Join(w.base, e.Name)
		} else {
			name = e.Name
		}

		if w.seen != nil && w.seen[e.Hash] {
			continue
		}

		entry = e

		if e.Mode == filemode.Dir && w.recursive {
			tree, err := GetTree(w.s, e.Hash)
			if err == nil {
				w.stack = append(w.stack, &treeEntryIter{tree, 0})
				w.base = name
			}
		}

		return name, entry, nil
	}
}

// Tree returns the tree being walked.
func (w *TreeWalker) Tree() *Tree {
	return w.t
}

// Close closes the walker, releasing any resources held open while
// traversing nested trees.
func (w *TreeWalker) Close() {
	w.stack = nil
}

type treeEntryIter struct {
	t   *Tree
	pos int
}

// TreeIter provides an iterator over a series of trees.
type TreeIter struct {
	storer.EncodedObjectIter
	s storer.EncodedObjectStorer
}

// NewTreeIter returns a TreeIter for the given repository and slice of
// objects.
func NewTreeIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *TreeIter {
	return &TreeIter{iter, s}
}

// Next moves the iterator to the next tree and returns it, or io.EOF
// if there are no more trees.
func (iter *TreeIter) Next() (*Tree, error) {
	for {
		obj, err := iter.EncodedObjectIter.Next()
		if err != nil {
			return nil, err
		}

		if obj.Type() != plumbing.TreeObject {
			continue
		}

		return DecodeTree(iter.s, obj)
	}
}

// ForEach calls f for every tree in the iterator.
func (iter *TreeIter) ForEach(f func(*Tree) error) error {
	for {
		t, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(t); err != nil {
			if err == storer.ErrStop {
				return nil
			}

			return err
		}
	}
}

