package object

import (
	"io"

	"github.com/gitobj/gitobj/plumbing/storer"
)

// commitPathIterator is a CommitIter that wraps another CommitIter,
// returning only commits that affect at least one path accepted by
// pathFilter.
type commitPathIterator struct {
	pathFilter  func(string) bool
	sourceIter  CommitIter
	checkParent bool
}

// NewCommitPathIterFromIter returns a CommitIter over sourceIter limited
// to the commits whose changes touch a path accepted by pathFilter, the
// same filtering `git log -- <path>` applies on top of a regular commit
// walk. When checkParent is true, a commit with no parents is tested
// against the empty tree instead of being skipped, so the commit that
// first introduces a matching path is still reported.
func NewCommitPathIterFromIter(pathFilter func(string) bool, sourceIter CommitIter, checkParent bool) CommitIter {
	return &commitPathIterator{
		pathFilter:  pathFilter,
		sourceIter:  sourceIter,
		checkParent: checkParent,
	}
}

func (c *commitPathIterator) Next() (*Commit, error) {
	for {
		commit, err := c.sourceIter.Next()
		if err != nil {
			return nil, err
		}

		match, err := c.matches(commit)
		if err != nil {
			return nil, err
		}
		if match {
			return commit, nil
		}
	}
}

func (c *commitPathIterator) matches(commit *Commit) (bool, error) {
	if commit.NumParents() == 0 {
		if !c.checkParent {
			return false, nil
		}
		return c.matchesAgainstEmptyTree(commit)
	}

	found := false
	err := commit.Parents().ForEach(func(parent *Commit) error {
		if found {
			return nil
		}

		patch, err := parent.Patch(commit)
		if err != nil {
			return err
		}

		for _, fp := range patch.FilePatches() {
			if c.pathFilter(fp.name()) {
				found = true
				break
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

func (c *commitPathIterator) matchesAgainstEmptyTree(commit *Commit) (bool, error) {
	tree, err := commit.Tree()
	if err != nil {
		return false, err
	}

	found := false
	err = tree.Files().ForEach(func(f *File) error {
		if found {
			return nil
		}
		if c.pathFilter(f.Name) {
			found = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

func (c *commitPathIterator) ForEach(cb func(*Commit) error) error {
	for {
		commit, err := c.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = cb(commit)
		if err == storer.ErrStop {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *commitPathIterator) Close() {
	c.sourceIter.Close()
}
