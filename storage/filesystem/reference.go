package filesystem

import (
	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
	"github.com/gitobj/gitobj/storage"
	"github.com/gitobj/gitobj/storage/filesystem/dotgit"
)

// ReferenceStorage reads and writes references stored as loose files and
// in packed-refs inside the .git directory.
//
// Updates are not atomic or lock-protected: this storage is meant for a
// single writer at a time, and does not attempt to reproduce git's
// concurrent, lock-file based reference update protocol.
type ReferenceStorage struct {
	dir *dotgit.DotGit
}

// SetReference writes ref as a loose reference, overwriting any existing
// value.
func (r *ReferenceStorage) SetReference(ref *plumbing.Reference) error {
	return r.dir.SetRef(ref)
}

// CheckAndSetReference writes new only if the current value of its
// reference matches old. If old is nil, the check is skipped.
func (r *ReferenceStorage) CheckAndSetReference(new, old *plumbing.Reference) error {
	if new == nil {
		return nil
	}

	if old != nil {
		current, err := r.dir.Reference(old.Name())
		if err != nil && err != plumbing.ErrReferenceNotFound {
			return err
		}

		if current != nil && current.Hash() != old.Hash() {
			return storage.ErrReferenceHasChanged
		}
	}

	return r.dir.SetRef(new)
}

// Reference resolves name to its current value.
func (r *ReferenceStorage) Reference(n plumbing.ReferenceName) (*plumbing.Reference, error) {
	return r.dir.Reference(n)
}

// IterReferences returns an iterator over every reference.
func (r *ReferenceStorage) IterReferences() (storer.ReferenceIter, error) {
	refs, err := r.dir.Refs()
	if err != nil {
		return nil, err
	}

	return storer.NewReferenceSliceIter(refs), nil
}

// RemoveReference deletes the loose reference named n, if present.
func (r *ReferenceStorage) RemoveReference(n plumbing.ReferenceName) error {
	return r.dir.RemoveRef(n)
}

// CountLooseRefs returns the number of loose (unpacked) references.
func (r *ReferenceStorage) CountLooseRefs() (int, error) {
	return r.dir.CountLooseRefs()
}

// PackRefs is a no-op: packed-refs consolidation is outside this
// storage's read-mostly scope.
func (r *ReferenceStorage) PackRefs() error {
	return r.dir.PackRefs()
}
