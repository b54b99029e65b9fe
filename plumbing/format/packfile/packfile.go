package packfile

import (
	"bytes"
	"io"
	"sync"

	billy "github.com/go-git/go-billy/v6"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/cache"
	"github.com/gitobj/gitobj/plumbing/format/idxfile"
	gogithash "github.com/gitobj/gitobj/plumbing/hash"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// Packfile allows retrieving information from inside a packfile.
type Packfile struct {
	idxfile.Index

	fs       billy.Filesystem
	file     billy.File
	packPath string
	cache    cache.Object
	s        *Scanner

	m    sync.Mutex
	once sync.Once
	err  error
}

// NewPackfile returns a Packfile that reads objects from file, resolving
// them against the index and filesystem given via WithIdx and WithFs.
func NewPackfile(file billy.File, opts ...PackfileOption) *Packfile {
	p := &Packfile{
		file:  file,
		cache: cache.NewObjectLRUDefault(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if nf, ok := file.(interface{ Name() string }); ok {
		p.packPath = nf.Name()
	}

	return p
}

// init lazily builds the scanner used to read objects out of the packfile.
func (p *Packfile) init() error {
	p.once.Do(func() {
		p.s = NewScanner(p.file)
		if !p.s.Scan() {
			p.err = p.s.Error()
			return
		}
		if p.s.Data().Section != HeaderSection {
			p.err = ErrMalformedPackfile
		}
	})

	return p.err
}

// Get retrieves the encoded object in the packfile with the given hash.
func (p *Packfile) Get(h plumbing.Hash) (plumbing.EncodedObject, error) {
	if obj, ok := p.cache.Get(h); ok {
		return obj, nil
	}

	offset, err := p.FindOffset(h)
	if err != nil {
		return nil, err
	}

	return p.GetByOffset(offset)
}

// GetByOffset retrieves the encoded object from the packfile at the given
// offset.
func (p *Packfile) GetByOffset(offset int64) (plumbing.EncodedObject, error) {
	if err := p.init(); err != nil {
		return nil, err
	}

	p.m.Lock()
	defer p.m.Unlock()

	oh, err := p.headerFromOffset(offset)
	if err != nil {
		return nil, err
	}

	return p.objectFromHeader(oh)
}

// GetSizeByOffset returns the plaintext size of the object located at the
// given offset, resolving delta chains when necessary.
func (p *Packfile) GetSizeByOffset(offset int64) (int64, error) {
	obj, err := p.GetByOffset(offset)
	if err != nil {
		return 0, err
	}

	return obj.Size(), nil
}

// GetByType returns an iterator over every object of the given type stored
// in the packfile.
func (p *Packfile) GetByType(typ plumbing.ObjectType) (storer.EncodedObjectIter, error) {
	switch typ {
	case plumbing.CommitObject, plumbing.TreeObject, plumbing.BlobObject, plumbing.TagObject, plumbing.AnyObject:
	default:
		return nil, plumbing.ErrInvalidType
	}

	iter, err := p.Index.EntriesByOffset()
	if err != nil {
		return nil, err
	}

	return &objectIter{p: p, typ: typ, iter: iter}, nil
}

// GetAll returns an iterator over every object in the packfile, in
// packfile offset order.
func (p *Packfile) GetAll() (storer.EncodedObjectIter, error) {
	return p.GetByType(plumbing.AnyObject)
}

// headerFromOffset reads, but does not inflate, the header for the object
// at the given offset.
func (p *Packfile) headerFromOffset(offset int64) (*ObjectHeader, error) {
	if err := p.s.SeekFromStart(offset); err != nil {
		return nil, err
	}

	if !p.s.Scan() {
		if err := p.s.Error(); err != nil {
			return nil, err
		}
		return nil, plumbing.ErrObjectNotFound
	}

	data := p.s.Data()
	if data.Section != ObjectSection {
		return nil, plumbing.ErrObjectNotFound
	}

	oh := data.Value().(ObjectHeader)
	return &oh, nil
}

// objectFromHeader materializes the encoded object described by oh,
// resolving any delta chain it is part of.
func (p *Packfile) objectFromHeader(oh *ObjectHeader) (plumbing.EncodedObject, error) {
	if !oh.Hash.IsZero() {
		if cached, ok := p.cache.Get(oh.Hash); ok {
			return cached, nil
		}
	}

	obj := new(plumbing.MemoryObject)
	obj.SetSize(oh.Size)

	switch oh.Type {
	case plumbing.CommitObject, plumbing.TreeObject, plumbing.BlobObject, plumbing.TagObject:
		obj.SetType(oh.Type)

		w, err := obj.Writer()
		if err != nil {
			return nil, err
		}

		if err := p.s.WriteObject(oh, w); err != nil {
			return nil, err
		}
	case plumbing.REFDeltaObject:
		base, err := p.Get(oh.Reference)
		if err != nil {
			return nil, err
		}

		if err := p.fillDelta(obj, base, oh); err != nil {
			return nil, err
		}
	case plumbing.OFSDeltaObject:
		base, err := p.GetByOffset(oh.OffsetReference)
		if err != nil {
			return nil, err
		}

		if err := p.fillDelta(obj, base, oh); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidObject.AddDetails("type %q", oh.Type)
	}

	p.cache.Put(obj)

	return obj, nil
}

func (p *Packfile) fillDelta(obj plumbing.EncodedObject, base plumbing.EncodedObject, oh *ObjectHeader) error {
	buf := new(bytes.Buffer)
	if err := p.s.WriteObject(oh, buf); err != nil {
		return err
	}

	obj.SetType(base.Type())

	return ApplyDelta(obj, base, buf)
}

// ID returns the ID of the packfile, which is the checksum at the end of
// it.
func (p *Packfile) ID() (plumbing.Hash, error) {
	if _, err := p.file.Seek(-int64(gogithash.SHA1Size), io.SeekEnd); err != nil {
		return plumbing.ZeroHash, err
	}

	var hash plumbing.Hash
	if _, err := hash.ReadFrom(p.file); err != nil {
		return plumbing.ZeroHash, err
	}

	if _, err := p.file.Seek(0, io.SeekStart); err != nil {
		return plumbing.ZeroHash, err
	}

	return hash, nil
}

// Close the packfile and its underlying file.
func (p *Packfile) Close() error {
	return p.file.Close()
}
