// Package commitgraph is the original commit-graph reader/writer.
//
// Deprecated: this package used the wrong types for Generation and Index in
// CommitData. The types below are now aliases for the v2 package's so
// existing callers keep compiling against the corrected implementation.
package commitgraph

import (
	v2 "github.com/gitobj/gitobj/plumbing/format/commitgraph/v2"
)

// CommitData is a reduced representation of Commit as presented in the commit graph
// file. It is merely useful as an optimization for walking the commit graphs.
//
// Deprecated: use v2.CommitData.
type CommitData = v2.CommitData

// Index represents a representation of commit graph that allows indexed
// access to the nodes using commit object hash
//
// Deprecated: use v2.Index.
type Index = v2.Index
