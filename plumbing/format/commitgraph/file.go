package commitgraph

import (
	"github.com/go-git/go-billy/v6"

	v2 "github.com/gitobj/gitobj/plumbing/format/commitgraph/v2"
)

// OpenFileIndex opens a serialized commit graph file in the format described at
// https://github.com/git/git/blob/master/Documentation/technical/commit-graph-format.txt
//
// Deprecated: use v2.OpenFileIndex.
func OpenFileIndex(reader v2.ReaderAtCloser) (Index, error) {
	return v2.OpenFileIndex(reader)
}

// OpenChainOrFileIndex opens the commit-graph chain file (if one is
// present) or else the single commit-graph file at the repository's
// objects/info directory.
//
// Deprecated: use v2.OpenChainOrFileIndex.
func OpenChainOrFileIndex(fs billy.Filesystem) (Index, error) {
	return v2.OpenChainOrFileIndex(fs)
}
