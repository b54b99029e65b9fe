// Package memory is a storage backend base on memory
package memory

import (
	"fmt"
	"io"

	"github.com/gitobj/gitobj/plumbing"
	formatcfg "github.com/gitobj/gitobj/plumbing/format/config"
	"github.com/gitobj/gitobj/plumbing/format/index"
	"github.com/gitobj/gitobj/plumbing/storer"
	"github.com/gitobj/gitobj/storage"
)

// Storage is an implementation of storage.Storer that stores data in
// memory, being ephemeral. It is meant to be used by unit tests and by
// callers that never intend to persist a repository to disk.
type Storage struct {
	ObjectStorage
	ReferenceStorage
	ShallowStorage
	IndexStorage
}

// NewStorage returns a new Storage, optionally configured with the given
// options. With no options, objects are addressed with the default object
// format (SHA1).
func NewStorage(opts ...StorageOption) *Storage {
	o := newOptions()
	for _, opt := range opts {
		opt(&o)
	}

	oh, err := plumbing.FromObjectFormat(o.objectFormat)
	if err != nil {
		// o.objectFormat always starts as formatcfg.DefaultObjectFormat and
		// WithObjectFormat only accepts values FromObjectFormat recognizes,
		// so this is unreachable in practice; fall back defensively rather
		// than panic.
		oh, _ = plumbing.FromObjectFormat(formatcfg.DefaultObjectFormat)
	}

	return &Storage{
		ObjectStorage: ObjectStorage{
			oh:      oh,
			Objects: make(map[plumbing.Hash]plumbing.EncodedObject),
			Commits: make(map[plumbing.Hash]plumbing.EncodedObject),
			Trees:   make(map[plumbing.Hash]plumbing.EncodedObject),
			Blobs:   make(map[plumbing.Hash]plumbing.EncodedObject),
			Tags:    make(map[plumbing.Hash]plumbing.EncodedObject),
		},
		ReferenceStorage: make(ReferenceStorage),
	}
}

// ObjectStorage is an in-memory storer.EncodedObjectStorer. Objects are
// additionally bucketed by type so that IterEncodedObjects doesn't have to
// filter the whole object set on every call.
type ObjectStorage struct {
	oh *plumbing.ObjectHasher

	Objects map[plumbing.Hash]plumbing.EncodedObject
	Commits map[plumbing.Hash]plumbing.EncodedObject
	Trees   map[plumbing.Hash]plumbing.EncodedObject
	Blobs   map[plumbing.Hash]plumbing.EncodedObject
	Tags    map[plumbing.Hash]plumbing.EncodedObject
}

// NewEncodedObject returns a MemoryObject ready to be filled in and handed
// to SetEncodedObject.
func (o *ObjectStorage) NewEncodedObject() plumbing.EncodedObject {
	return plumbing.NewMemoryObject(o.oh)
}

// SetEncodedObject stores obj, keyed by its own hash, and also returns that
// hash for convenience.
func (o *ObjectStorage) SetEncodedObject(obj plumbing.EncodedObject) (plumbing.Hash, error) {
	h := obj.Hash()
	o.Objects[h] = obj

	switch obj.Type() {
	case plumbing.CommitObject:
		o.Commits[h] = o.Objects[h]
	case plumbing.TreeObject:
		o.Trees[h] = o.Objects[h]
	case plumbing.BlobObject:
		o.Blobs[h] = o.Objects[h]
	case plumbing.TagObject:
		o.Tags[h] = o.Objects[h]
	default:
		return h, fmt.Errorf("unsupported object type: %v", obj.Type())
	}

	return h, nil
}

// HasEncodedObject returns plumbing.ErrObjectNotFound if h isn't stored.
func (o *ObjectStorage) HasEncodedObject(h plumbing.Hash) error {
	if _, ok := o.Objects[h]; !ok {
		return plumbing.ErrObjectNotFound
	}
	return nil
}

// EncodedObjectSize returns the plaintext size of the object addressed by
// h, or plumbing.ErrObjectNotFound if it isn't stored.
func (o *ObjectStorage) EncodedObjectSize(h plumbing.Hash) (int64, error) {
	obj, ok := o.Objects[h]
	if !ok {
		return 0, plumbing.ErrObjectNotFound
	}

	return obj.Size(), nil
}

// EncodedObject returns the object addressed by h, restricted to t unless t
// is plumbing.AnyObject.
func (o *ObjectStorage) EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	obj, ok := o.Objects[h]
	if !ok || (plumbing.AnyObject != t && obj.Type() != t) {
		return nil, plumbing.ErrObjectNotFound
	}

	return obj, nil
}

// IterEncodedObjects returns an iterator over every stored object whose
// type matches t, or every object when t is plumbing.AnyObject.
func (o *ObjectStorage) IterEncodedObjects(t plumbing.ObjectType) (storer.EncodedObjectIter, error) {
	var series []plumbing.EncodedObject
	switch t {
	case plumbing.AnyObject:
		series = flattenObjectMap(o.Objects)
	case plumbing.CommitObject:
		series = flattenObjectMap(o.Commits)
	case plumbing.TreeObject:
		series = flattenObjectMap(o.Trees)
	case plumbing.BlobObject:
		series = flattenObjectMap(o.Blobs)
	case plumbing.TagObject:
		series = flattenObjectMap(o.Tags)
	}

	return storer.NewEncodedObjectSliceIter(series), nil
}

// RawObjectWriter is unsupported: in-memory objects are always filled in
// through NewEncodedObject's Writer, never streamed header-first.
func (o *ObjectStorage) RawObjectWriter(plumbing.ObjectType, int64) (io.WriteCloser, error) {
	return nil, fmt.Errorf("RawObjectWriter not supported for memory storage")
}

// AddAlternate is unsupported: an in-memory store has no path to resolve
// an alternate object database against.
func (o *ObjectStorage) AddAlternate(string) error {
	return fmt.Errorf("AddAlternate not supported for memory storage")
}

// Begin starts a transaction that buffers writes until Commit is called.
func (o *ObjectStorage) Begin() storer.Transaction {
	return &TxObjectStorage{
		Storage: o,
		objects: make(map[plumbing.Hash]plumbing.EncodedObject),
	}
}

// ForEachObjectHash calls fun for every hash currently stored, stopping
// early (without error) if fun returns storer.ErrStop.
func (o *ObjectStorage) ForEachObjectHash(fun func(plumbing.Hash) error) error {
	for h := range o.Objects {
		if err := fun(h); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
	return nil
}

func flattenObjectMap(m map[plumbing.Hash]plumbing.EncodedObject) []plumbing.EncodedObject {
	series := make([]plumbing.EncodedObject, 0, len(m))
	for _, o := range m {
		series = append(series, o)
	}
	return series
}

// TxObjectStorage implements storer.Transaction for in-memory storage. Set
// objects are kept apart from the backing Storage until Commit, so a
// Rollback simply discards them.
type TxObjectStorage struct {
	Storage *ObjectStorage
	objects map[plumbing.Hash]plumbing.EncodedObject
}

func (tx *TxObjectStorage) SetEncodedObject(obj plumbing.EncodedObject) (plumbing.Hash, error) {
	h := obj.Hash()
	tx.objects[h] = obj
	return h, nil
}

func (tx *TxObjectStorage) EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	obj, ok := tx.objects[h]
	if !ok || (plumbing.AnyObject != t && obj.Type() != t) {
		return nil, plumbing.ErrObjectNotFound
	}

	return obj, nil
}

func (tx *TxObjectStorage) Commit() error {
	for h, obj := range tx.objects {
		if _, err := tx.Storage.SetEncodedObject(obj); err != nil {
			return err
		}
		delete(tx.objects, h)
	}
	return nil
}

func (tx *TxObjectStorage) Rollback() error {
	tx.objects = make(map[plumbing.Hash]plumbing.EncodedObject)
	return nil
}

// ReferenceStorage is an in-memory storer.ReferenceStorer.
type ReferenceStorage map[plumbing.ReferenceName]*plumbing.Reference

func (r ReferenceStorage) SetReference(ref *plumbing.Reference) error {
	if ref != nil {
		r[ref.Name()] = ref
	}

	return nil
}

func (r ReferenceStorage) CheckAndSetReference(ref, old *plumbing.Reference) error {
	if ref == nil {
		return nil
	}

	if old != nil {
		tmp := r[ref.Name()]
		if tmp != nil && tmp.Hash() != old.Hash() {
			return storage.ErrReferenceHasChanged
		}
	}

	r[ref.Name()] = ref
	return nil
}

func (r ReferenceStorage) Reference(n plumbing.ReferenceName) (*plumbing.Reference, error) {
	ref, ok := r[n]
	if !ok {
		return nil, plumbing.ErrReferenceNotFound
	}

	return ref, nil
}

func (r ReferenceStorage) IterReferences() (storer.ReferenceIter, error) {
	var refs []*plumbing.Reference
	for _, ref := range r {
		refs = append(refs, ref)
	}

	return storer.NewReferenceSliceIter(refs), nil
}

func (r ReferenceStorage) CountLooseRefs() (int, error) {
	return len(r), nil
}

// PackRefs is a no-op: every reference kept by this storage is already
// "packed" in the sense that there's no loose/packed distinction to make.
func (r ReferenceStorage) PackRefs() error {
	return nil
}

func (r ReferenceStorage) RemoveReference(n plumbing.ReferenceName) error {
	delete(r, n)
	return nil
}

// ShallowStorage is an in-memory storer.ShallowStorer.
type ShallowStorage []plumbing.Hash

func (s *ShallowStorage) SetShallow(commits []plumbing.Hash) error {
	*s = commits
	return nil
}

func (s ShallowStorage) Shallow() ([]plumbing.Hash, error) {
	return s, nil
}

// IndexStorage is an in-memory storer.IndexStorer.
type IndexStorage struct {
	idx *index.Index
}

func (s *IndexStorage) SetIndex(idx *index.Index) error {
	s.idx = idx
	return nil
}

func (s *IndexStorage) Index() (*index.Index, error) {
	if s.idx == nil {
		s.idx = &index.Index{Version: 2}
	}

	return s.idx, nil
}
