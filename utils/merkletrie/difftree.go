package merkletrie

import (
	"sort"

	"github.com/gitobj/gitobj/utils/merkletrie/noder"
)

// Equal returns whether a and b should be considered unchanged,
// typically by comparing their Hash.
type Equal func(a, b noder.Hasher) bool

// DiffTree calculates the list of changes between two merkletries. A
// nil from or to is treated as an empty tree, so every noder
// underneath the other one is reported as a whole-subtree insertion
// or deletion. equal decides whether two noders that share a path are
// considered unchanged.
func DiffTree(from, to noder.Noder, equal Equal) (Changes, error) {
	changes := NewChanges()
	if err := diff(noder.Path{}, noder.Path{}, from, to, equal, &changes); err != nil {
		return nil, err
	}

	return changes, nil
}

func diff(
	fromParent, toParent noder.Path,
	from, to noder.Noder,
	equal Equal,
	changes *Changes,
) error {
	switch {
	case from == nil && to == nil:
		return nil
	case from == nil:
		return changes.AddRecursiveInsert(append(clonePath(toParent), to))
	case to == nil:
		return changes.AddRecursiveDelete(append(clonePath(fromParent), from))
	}

	fromPath := append(clonePath(fromParent), from)
	toPath := append(clonePath(toParent), to)

	switch {
	case from.IsDir() && to.IsDir():
		return diffChildren(fromPath, toPath, from, to, equal, changes)
	case !from.IsDir() && !to.IsDir():
		if !equal(fromPath, toPath) {
			*changes = append(*changes, NewModify(fromPath, toPath))
		}
		return nil
	default:
		// the path switched between a file and a directory: treat it
		// as a full delete of the old kind and a full insert of the
		// new one.
		if err := changes.AddRecursiveDelete(fromPath); err != nil {
			return err
		}
		return changes.AddRecursiveInsert(toPath)
	}
}

func diffChildren(
	fromPath, toPath noder.Path,
	from, to noder.Noder,
	equal Equal,
	changes *Changes,
) error {
	fromChildren, err := sortedChildren(from)
	if err != nil {
		return err
	}

	toChildren, err := sortedChildren(to)
	if err != nil {
		return err
	}

	i, j := 0, 0
	for i < len(fromChildren) || j < len(toChildren) {
		switch {
		case j == len(toChildren) || (i < len(fromChildren) && fromChildren[i].Name() < toChildren[j].Name()):
			if err := diff(fromPath, toPath, fromChildren[i], nil, equal, changes); err != nil {
				return err
			}
			i++
		case i == len(fromChildren) || (j < len(toChildren) && toChildren[j].Name() < fromChildren[i].Name()):
			if err := diff(fromPath, toPath, nil, toChildren[j], equal, changes); err != nil {
				return err
			}
			j++
		default:
			if err := diff(fromPath, toPath, fromChildren[i], toChildren[j], equal, changes); err != nil {
				return err
			}
			i++
			j++
		}
	}

	return nil
}

func sortedChildren(n noder.Noder) ([]noder.Noder, error) {
	if n.Skip() {
		return nil, nil
	}

	children, err := n.Children()
	if err != nil {
		return nil, err
	}

	sorted := make([]noder.Noder, len(children))
	copy(sorted, children)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	return sorted, nil
}
