// Package dotgit discovers and reads the objects, packs and references
// stored inside a .git directory, laid out the way git itself expects.
package dotgit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"

	"github.com/gitobj/gitobj/plumbing"
	format "github.com/gitobj/gitobj/plumbing/format/config"
)

const (
	suffix         = ".git"
	packedRefsPath = "packed-refs"
	configPath     = "config"
	indexPath      = "index"
	shallowPath    = "shallow"
	modulePath     = "modules"
	objectsPath    = "objects"
	packPath       = "pack"
	refsPath       = "refs"

	packExt = ".pack"
	idxExt  = ".idx"
)

var (
	// ErrNotFound is returned by Object and ObjectPack when the requested
	// hash does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrIdxNotFound is returned by ObjectPackIdx when a packfile has no
	// matching .idx file.
	ErrIdxNotFound = errors.New("idx file not found")
	// ErrPackfileNotFound is returned by ObjectPack when a packfile by that
	// hash does not exist.
	ErrPackfileNotFound = errors.New("packfile not found")
	// ErrEmptyRefFile is returned when a loose reference file exists but is
	// empty.
	ErrEmptyRefFile = errors.New("ref file is empty")
	// ErrBadRefFile is returned when a loose reference file cannot be
	// parsed.
	ErrBadRefFile = errors.New("cannot read reference file")
)

// Options holds optional configuration for a DotGit.
type Options struct {
	// ExclusiveAccess means no other process will try to read or write
	// objects concurrently, allowing some fast paths to be enabled.
	ExclusiveAccess bool
	// KeepDescriptors makes file descriptors opened for packfiles be
	// reused rather than closed after every read.
	KeepDescriptors bool
	// AlternatesFS is used to resolve alternate object directories,
	// instead of the filesystem the DotGit itself is rooted at.
	AlternatesFS billy.Filesystem
	// ObjectFormat is the hash function in use by this repository.
	ObjectFormat format.ObjectFormat
}

// DotGit locates and reads the contents of a .git directory: loose and
// packed objects, loose and packed references, the repository config,
// shallow commits, alternates and submodules.
type DotGit struct {
	fs      billy.Filesystem
	options Options
}

// New returns a DotGit rooted at fs, using the default Options.
func New(fs billy.Filesystem) *DotGit {
	return NewWithOptions(fs, Options{})
}

// NewWithOptions returns a DotGit rooted at fs.
func NewWithOptions(fs billy.Filesystem, o Options) *DotGit {
	if o.AlternatesFS == nil {
		o.AlternatesFS = fs
	}

	return &DotGit{fs: fs, options: o}
}

// SetObjectFormat records which hash function this repository's objects
// are addressed with. The config file itself is written by the caller;
// this only updates the in-memory record consulted when sizing hashes.
func (d *DotGit) SetObjectFormat(of format.ObjectFormat) error {
	d.options.ObjectFormat = of
	return nil
}

// Fs returns the underlying filesystem.
func (d *DotGit) Fs() billy.Filesystem {
	return d.fs
}

// Close releases any resources held open by the DotGit. DotGit itself
// keeps no long-lived descriptors open, so this is a no-op reserved for
// symmetry with callers that do.
func (d *DotGit) Close() error {
	return nil
}

// Initialize creates the directory layout of an empty repository:
// objects/, objects/pack/, refs/heads/, refs/tags/ and HEAD.
func (d *DotGit) Initialize() error {
	mustExist := []string{
		d.fs.Join(objectsPath, packPath),
		d.fs.Join(refsPath, "heads"),
		d.fs.Join(refsPath, "tags"),
	}

	for _, p := range mustExist {
		if err := d.fs.MkdirAll(p, 0o777); err != nil {
			return err
		}
	}

	if _, err := d.fs.Stat("HEAD"); errors.Is(err, os.ErrNotExist) {
		if err := util.WriteFile(d.fs, "HEAD", []byte("ref: refs/heads/master\n"), 0o666); err != nil {
			return err
		}
	}

	return nil
}

// --- Loose objects ---------------------------------------------------

// Object returns a reader for the loose object with the given hash.
func (d *DotGit) Object(h plumbing.Hash) (billy.File, error) {
	s := h.String()
	return d.fs.Open(d.fs.Join(objectsPath, s[0:2], s[2:]))
}

// ObjectStat returns the FileInfo of a loose object.
func (d *DotGit) ObjectStat(h plumbing.Hash) (os.FileInfo, error) {
	s := h.String()
	return d.fs.Stat(d.fs.Join(objectsPath, s[0:2], s[2:]))
}

// ObjectDelete removes a loose object from disk.
func (d *DotGit) ObjectDelete(h plumbing.Hash) error {
	s := h.String()
	return d.fs.Remove(d.fs.Join(objectsPath, s[0:2], s[2:]))
}

// Objects returns the hashes of every loose object.
func (d *DotGit) Objects() ([]plumbing.Hash, error) {
	var hashes []plumbing.Hash
	err := d.ForEachObjectHash(func(h plumbing.Hash) error {
		hashes = append(hashes, h)
		return nil
	})

	return hashes, err
}

// ForEachObjectHash calls fun for every loose object hash, stopping early
// if fun returns storer.ErrStop.
func (d *DotGit) ForEachObjectHash(fun func(plumbing.Hash) error) error {
	dirs, err := d.fs.ReadDir(objectsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, dir := range dirs {
		name := dir.Name()
		if len(name) != 2 || name == packPath || name == "info" {
			continue
		}

		files, err := d.fs.ReadDir(d.fs.Join(objectsPath, name))
		if err != nil {
			return err
		}

		for _, f := range files {
			if len(f.Name()) < 36 {
				continue
			}

			h := plumbing.NewHash(name + f.Name())
			if err := fun(h); err != nil {
				return err
			}
		}
	}

	return nil
}

// ObjectsWithPrefix returns every loose object hash starting with prefix.
func (d *DotGit) ObjectsWithPrefix(prefix []byte) ([]plumbing.Hash, error) {
	var hashes []plumbing.Hash
	err := d.ForEachObjectHash(func(h plumbing.Hash) error {
		if h.HasPrefix(prefix) {
			hashes = append(hashes, h)
		}
		return nil
	})

	return hashes, err
}

// NewObject returns a writer for a new loose object. The file is created
// with a temporary name and renamed into place, made read-only, on Close.
func (d *DotGit) NewObject() (*ObjectWriter, error) {
	return newObjectWriter(d.fs)
}

// --- Packfiles ---------------------------------------------------------

// ObjectPacks returns the hashes of every packfile.
func (d *DotGit) ObjectPacks() ([]plumbing.Hash, error) {
	dir := d.fs.Join(objectsPath, packPath)
	files, err := d.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var hashes []plumbing.Hash
	for _, f := range files {
		name := f.Name()
		if !strings.HasSuffix(name, packExt) {
			continue
		}

		n := strings.TrimSuffix(strings.TrimPrefix(name, "pack-"), packExt)
		hashes = append(hashes, plumbing.NewHash(n))
	}

	return hashes, nil
}

// ObjectPack returns a reader for the packfile with the given hash.
func (d *DotGit) ObjectPack(h plumbing.Hash) (billy.File, error) {
	path := d.fs.Join(objectsPath, packPath, fmt.Sprintf("pack-%s%s", h, packExt))
	f, err := d.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPackfileNotFound
		}
		return nil, err
	}

	return f, nil
}

// ObjectPackIdx returns a reader for the .idx file of the packfile with
// the given hash.
func (d *DotGit) ObjectPackIdx(h plumbing.Hash) (billy.File, error) {
	path := d.fs.Join(objectsPath, packPath, fmt.Sprintf("pack-%s%s", h, idxExt))
	f, err := d.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIdxNotFound
		}
		return nil, err
	}

	return f, nil
}

// NewObjectPack returns a PackWriter that writes, indexes and stores a new
// packfile. See PackWriter for details.
func (d *DotGit) NewObjectPack() (*PackWriter, error) {
	return newPackWrite(d.fs)
}

// --- Alternates ----------------------------------------------------------

// Alternates returns a DotGit for every alternate object database listed in
// objects/info/alternates.
func (d *DotGit) Alternates() ([]*DotGit, error) {
	f, err := d.fs.Open(d.fs.Join(objectsPath, "info", "alternates"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var alts []*DotGit
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		altFs, err := d.options.AlternatesFS.Chroot(line)
		if err != nil {
			continue
		}

		alts = append(alts, New(altFs))
	}

	return alts, scanner.Err()
}

// AddAlternate appends remote to objects/info/alternates, registering it
// as an additional object database to search on cache miss.
func (d *DotGit) AddAlternate(remote string) error {
	if err := d.fs.MkdirAll(d.fs.Join(objectsPath, "info"), 0o777); err != nil {
		return err
	}

	path := d.fs.Join(objectsPath, "info", "alternates")
	f, err := d.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s\n", remote)
	return err
}

// --- References ----------------------------------------------------------

// Refs returns every reference, loose and packed.
func (d *DotGit) Refs() ([]*plumbing.Reference, error) {
	var refs []*plumbing.Reference
	seen := make(map[plumbing.ReferenceName]bool)

	if err := d.walkLooseRefs(refsPath, &refs, seen); err != nil {
		return nil, err
	}

	if head, err := d.readLooseRef("HEAD"); err == nil {
		refs = append(refs, head)
		seen[head.Name()] = true
	}

	packed, err := d.findPackedRefs()
	if err != nil {
		return nil, err
	}

	for _, r := range packed {
		if !seen[r.Name()] {
			refs = append(refs, r)
		}
	}

	return refs, nil
}

func (d *DotGit) walkLooseRefs(dir string, out *[]*plumbing.Reference, seen map[plumbing.ReferenceName]bool) error {
	entries, err := d.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		full := d.fs.Join(dir, e.Name())
		if e.IsDir() {
			if err := d.walkLooseRefs(full, out, seen); err != nil {
				return err
			}
			continue
		}

		ref, err := d.readLooseRef(full)
		if err != nil {
			continue
		}

		*out = append(*out, ref)
		seen[ref.Name()] = true
	}

	return nil
}

func (d *DotGit) readLooseRef(path string) (*plumbing.Reference, error) {
	f, err := d.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return d.readReferenceFrom(f, path)
}

func (d *DotGit) readReferenceFrom(r io.Reader, name string) (*plumbing.Reference, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	line := strings.TrimSpace(string(b))
	if line == "" {
		return nil, ErrEmptyRefFile
	}

	return plumbing.NewReferenceFromStrings(name, line), nil
}

// Reference resolves a single reference by name, checking loose refs
// first, then packed-refs.
func (d *DotGit) Reference(n plumbing.ReferenceName) (*plumbing.Reference, error) {
	ref, err := d.readLooseRef(n.String())
	if err == nil {
		return ref, nil
	}
	if !os.IsNotExist(err) && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	refs, err := d.findPackedRefs()
	if err != nil {
		return nil, err
	}

	for _, r := range refs {
		if r.Name() == n {
			return r, nil
		}
	}

	return nil, plumbing.ErrReferenceNotFound
}

// SetRef writes a single reference as a loose ref file. Unlike git's own
// atomic, lock-protected ref updates, this performs a simple
// create-or-truncate write: concurrent, cross-process ref mutation is
// explicitly out of scope here (see the package doc).
func (d *DotGit) SetRef(r *plumbing.Reference) error {
	if err := r.Name().Validate(); err != nil {
		return err
	}

	content := r.Strings()
	return util.WriteFile(d.fs, content[0], []byte(content[1]+"\n"), 0o666)
}

// RemoveRef removes a loose reference. It's a no-op if the reference is
// only present in packed-refs.
func (d *DotGit) RemoveRef(n plumbing.ReferenceName) error {
	err := d.fs.Remove(n.String())
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

// CountLooseRefs returns the number of loose (non-packed) references.
func (d *DotGit) CountLooseRefs() (int, error) {
	var refs []*plumbing.Reference
	seen := make(map[plumbing.ReferenceName]bool)
	if err := d.walkLooseRefs(refsPath, &refs, seen); err != nil {
		return 0, err
	}

	return len(refs), nil
}

func (d *DotGit) findPackedRefs() ([]*plumbing.Reference, error) {
	f, err := d.fs.Open(packedRefsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return d.findPackedRefsInFile(f)
}

func (d *DotGit) findPackedRefsInFile(f io.Reader) ([]*plumbing.Reference, error) {
	var refs []*plumbing.Reference

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		refs = append(refs, plumbing.NewReferenceFromStrings(parts[1], parts[0]))
	}

	return refs, scanner.Err()
}

// PackRefs is a no-op here: packed-refs consolidation is a maintenance
// operation outside this package's read-mostly scope.
func (d *DotGit) PackRefs() error {
	return nil
}

// --- Config, index, shallow, modules --------------------------------------

// Config returns a reader for the repository's config file.
func (d *DotGit) Config() (billy.File, error) {
	return d.fs.OpenFile(configPath, os.O_RDONLY|os.O_CREATE, 0o666)
}

// ConfigWriter returns a writer that overwrites the repository's config
// file.
func (d *DotGit) ConfigWriter() (billy.File, error) {
	return d.fs.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
}

// Index returns a reader for the repository's index file.
func (d *DotGit) Index() (billy.File, error) {
	return d.fs.Open(indexPath)
}

// IndexWriter returns a writer that overwrites the repository's index
// file.
func (d *DotGit) IndexWriter() (billy.File, error) {
	return d.fs.OpenFile(indexPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
}

// IndexExists reports whether an index file is present.
func (d *DotGit) IndexExists() bool {
	_, err := d.fs.Stat(indexPath)
	return err == nil
}

// ShallowFile returns a writer for the shallow-commits file.
func (d *DotGit) ShallowFile() (billy.File, error) {
	return d.fs.OpenFile(shallowPath, os.O_RDWR|os.O_CREATE, 0o666)
}

// Module returns the .git directory for the named submodule.
func (d *DotGit) Module(name string) (billy.Filesystem, error) {
	return d.fs.Chroot(d.fs.Join(modulePath, name))
}

// DeleteOldObjectPackAndIndex removes a superseded packfile and its .idx,
// as left behind after repacking into a replacement pack.
func (d *DotGit) DeleteOldObjectPackAndIndex(h plumbing.Hash, t time.Time) error {
	base := d.fs.Join(objectsPath, packPath, fmt.Sprintf("pack-%s", h))

	info, err := d.fs.Stat(base + packExt)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if !t.IsZero() && info.ModTime().After(t) {
		return nil
	}

	if err := d.fs.Remove(base + idxExt); err != nil && !os.IsNotExist(err) {
		return err
	}

	return d.fs.Remove(base + packExt)
}
