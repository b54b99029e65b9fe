package object

import (
	"github.com/gitobj/gitobj/plumbing"
)

// MergeBase mimics the behavior of `git merge-base actual other`, returning
// the best common ancestors of the two commits. There can be more than one
// when the branches being merged crossed each other more than once, so
// neither common ancestor is reachable from the other.
func (c *Commit) MergeBase(other *Commit) ([]*Commit, error) {
	ownAncestors, err := ancestorsOf(c)
	if err != nil {
		return nil, err
	}

	otherAncestors, err := ancestorsOf(other)
	if err != nil {
		return nil, err
	}

	var common []*Commit
	for h, cc := range ownAncestors {
		if _, ok := otherAncestors[h]; ok {
			common = append(common, cc)
		}
	}

	return Independents(common)
}

// IsAncestor returns true if c is an ancestor of other, or if they are the
// same commit.
func (c *Commit) IsAncestor(other *Commit) (bool, error) {
	if c.Hash == other.Hash {
		return true, nil
	}

	found := false
	err := walkCommitsPreorder(other, func(cur *Commit) (bool, error) {
		if found {
			return false, nil
		}
		if cur.Hash == c.Hash {
			found = true
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

// Independents filters a slice of commits, returning only the ones that
// are not reachable from any other commit in the slice: none of the
// results is an ancestor of another result. Repeated commits are
// collapsed to a single occurrence.
func Independents(commits []*Commit) ([]*Commit, error) {
	uniq := make(map[plumbing.Hash]*Commit, len(commits))
	for _, c := range commits {
		uniq[c.Hash] = c
	}

	list := make([]*Commit, 0, len(uniq))
	for _, c := range uniq {
		list = append(list, c)
	}

	dominated := make(map[plumbing.Hash]bool, len(list))
	for i, a := range list {
		for j, b := range list {
			if i == j || dominated[a.Hash] {
				continue
			}

			isAncestor, err := a.IsAncestor(b)
			if err != nil {
				return nil, err
			}
			if isAncestor {
				dominated[a.Hash] = true
			}
		}
	}

	result := make([]*Commit, 0, len(list))
	for _, c := range list {
		if !dominated[c.Hash] {
			result = append(result, c)
		}
	}

	return result, nil
}

// ancestorsOf returns every commit reachable from start, including start
// itself, keyed by hash.
func ancestorsOf(start *Commit) (map[plumbing.Hash]*Commit, error) {
	result := make(map[plumbing.Hash]*Commit)

	err := walkCommitsPreorder(start, func(c *Commit) (bool, error) {
		result[c.Hash] = c
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// walkCommitsPreorder visits start and every ancestor reachable from it
// exactly once, calling visit for each. Returning false from visit only
// stops recursion into that commit's own parents; it does not abort the
// rest of the walk.
func walkCommitsPreorder(start *Commit, visit func(*Commit) (bool, error)) error {
	seen := make(map[plumbing.Hash]bool)
	queue := []*Commit{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if seen[cur.Hash] {
			continue
		}
		seen[cur.Hash] = true

		cont, err := visit(cur)
		if err != nil {
			return err
		}
		if !cont {
			continue
		}

		err = cur.Parents().ForEach(func(p *Commit) error {
			if !seen[p.Hash] {
				queue = append(queue, p)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
