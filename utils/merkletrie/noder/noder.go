// Package noder provides an interface for defining nodes in a
// merkletrie, along with some utility functions to work with them.
package noder

import "fmt"

// Hasher interface is implemented by any type that can return its hash.
type Hasher interface {
	Hash() []byte
}

// Noder interface is implemented by the elements of a Merkle Trie.
//
// There are two kind of noders: file noders and dir noders, the
// latter being those that can have one or more children.
//
// Every noder has a hash, understood as a products of the noder's
// contents and, in the case of dir noders, the hash of their children,
// in some order-dependent way. Noders representing the exact same
// content should have the same hash, regardless of their actual
// position in the filesystem.
type Noder interface {
	Hasher
	// Name returns the name of the noder, relative to its parent.
	Name() string
	// IsDir returns true if the noder is a dir node, or false if it is
	// a file node.
	IsDir() bool
	// Children returns the children of the noder, in any order. File
	// noders must return a NoChildren slice.
	Children() ([]Noder, error)
	// NumChildren returns the number of children this noder has, or
	// an error if it could not be calculated. This should be
	// equivalent to calling Children and counting the elements of the
	// returned slice, but for many implementations there are more
	// efficient ways to calculate it.
	NumChildren() (int, error)

	fmt.Stringer

	// Skip allows the diff tree algorithm to skip an entire subtree,
	// for example a submodule, without descending into it.
	Skip() bool
}

// NoChildren represents the children of a noder without children.
var NoChildren = []Noder{}
