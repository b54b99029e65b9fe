package commitgraph

import (
	v2 "github.com/gitobj/gitobj/plumbing/format/commitgraph/v2"
)

// MemoryIndex is an in-memory commit graph representation.
//
// Deprecated: use v2.MemoryIndex.
type MemoryIndex = v2.MemoryIndex

// NewMemoryIndex creates in-memory commit graph representation
//
// Deprecated: use v2.NewMemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return v2.NewMemoryIndex()
}
