// Package gitobj reads git repositories directly from their on-disk
// object store: loose objects, packfiles and commit-graphs, without
// shelling out to git or speaking any network transport.
package gitobj

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"dario.cat/mergo"
	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"

	"github.com/gitobj/gitobj/internal/revision"
	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/cache"
	"github.com/gitobj/gitobj/plumbing/object"
	"github.com/gitobj/gitobj/repoformat"
	"github.com/gitobj/gitobj/storage"
	"github.com/gitobj/gitobj/storage/filesystem"
)

// Repository is a read-only view over a single git object store. It is
// the entry point every other package in this module is built to serve:
// Open it once, then Resolve, Log, Compare and Object against it.
type Repository struct {
	// Storer is the underlying object/reference storage. It is exported
	// so callers who need lower-level access (iterating every object of
	// a type, inspecting the index) are not limited to this façade.
	Storer storage.Storer

	fs     billy.Filesystem
	format *repoformat.Descriptor
}

// Open opens the repository rooted at path. path may be a bare
// repository (containing refs/, objects/, ... directly) or a worktree
// (containing a ".git" directory); both are detected automatically, the
// same way PlainOpen does in the teacher repo this package is built on.
func Open(path string) (*Repository, error) {
	wt := osfs.New(path)

	dot := wt
	if fi, err := wt.Stat(".git"); err == nil {
		if fi.IsDir() {
			dot = wt.Dir(".git")
		}
	} else if !os.IsNotExist(err) {
		return nil, NewError(KindIO, "Open", err)
	}

	st := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())

	desc, err := st.Config()
	if err != nil {
		var unsupported *repoformat.ErrUnsupportedExtension
		if errors.As(err, &unsupported) {
			return nil, NewError(KindUnsupported, "Open", err)
		}
		return nil, NewError(KindCorrupt, "Open", err)
	}

	return &Repository{Storer: st, fs: dot, format: desc}, nil
}

// Format returns the repository's parsed .git/config format descriptor.
func (r *Repository) Format() *repoformat.Descriptor {
	return r.format
}

// resolveRef follows a reference, and any symbolic references it points
// to, down to a hash reference. It bails out after a fixed number of
// hops, the same guard git itself applies against a ref cycle.
func (r *Repository) resolveRef(name plumbing.ReferenceName) (plumbing.Hash, error) {
	const maxDepth = 10

	for i := 0; i < maxDepth; i++ {
		ref, err := r.Storer.Reference(name)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		switch ref.Type() {
		case plumbing.HashReference:
			return ref.Hash(), nil
		case plumbing.SymbolicReference:
			name = ref.Target()
		default:
			return plumbing.ZeroHash, fmt.Errorf("invalid reference type for %q", name)
		}
	}

	return plumbing.ZeroHash, fmt.Errorf("reference chain too deep resolving %q", name)
}

// candidateRefNames returns the reference names a bare ref-like name
// (e.g. "main", not "refs/heads/main") could plausibly expand to, in
// git's own lookup order.
func candidateRefNames(name string) []plumbing.ReferenceName {
	if plumbing.ReferenceName(name).Validate() == nil || name == "HEAD" {
		return []plumbing.ReferenceName{plumbing.ReferenceName(name)}
	}

	return []plumbing.ReferenceName{
		plumbing.ReferenceName(name),
		plumbing.NewBranchReferenceName(name),
		plumbing.NewTagReferenceName(name),
		plumbing.NewRemoteHEADReferenceName(name),
	}
}

// resolveRefName resolves a bare name (a branch, tag or remote-tracking
// name, with or without its refs/... prefix, or HEAD) to a hash.
func (r *Repository) resolveRefName(name string) (plumbing.Hash, error) {
	var lastErr error
	for _, candidate := range candidateRefNames(name) {
		h, err := r.resolveRef(candidate)
		if err == nil {
			return h, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = plumbing.ErrReferenceNotFound
	}
	return plumbing.ZeroHash, lastErr
}

// resolveStart resolves the Ref step of a committish expression: either
// a (possibly abbreviated) hex object id, or a ref name.
func (r *Repository) resolveStart(name string) (plumbing.Hash, error) {
	if plumbing.IsHash(name) {
		return plumbing.NewHash(name), nil
	}

	h, err := r.resolveRefName(name)
	if err != nil {
		return plumbing.ZeroHash, NewError(KindNotFound, "Resolve", fmt.Errorf("%q: %w", name, err))
	}
	return h, nil
}

// commitAt decodes the commit a hash points at, peeling a single
// annotated tag if necessary.
func (r *Repository) commitAt(h plumbing.Hash) (*object.Commit, error) {
	o, err := r.Storer.EncodedObject(plumbing.AnyObject, h)
	if err != nil {
		return nil, NewError(KindNotFound, "Resolve", err)
	}

	switch o.Type() {
	case plumbing.CommitObject:
		return object.DecodeCommit(r.Storer, o)
	case plumbing.TagObject:
		tag, err := object.DecodeTag(r.Storer, o)
		if err != nil {
			return nil, NewError(KindCorrupt, "Resolve", err)
		}
		return tag.Commit()
	default:
		return nil, NewError(KindInvariant, "Resolve", fmt.Errorf("%s is a %s, not a commit or tag", h, o.Type()))
	}
}

// Resolve evaluates a committish expression (a ref name or hex object
// id, optionally followed by ~N / ^N steps) against the repository and
// returns the commit it names.
func (r *Repository) Resolve(committish string) (*object.Commit, error) {
	steps, err := revision.NewParserFromString(committish).Parse()
	if err != nil {
		return nil, NewError(KindInvariant, "Resolve", err)
	}
	if len(steps) == 0 {
		return nil, NewError(KindInvariant, "Resolve", fmt.Errorf("empty revision expression"))
	}

	ref, ok := steps[0].(revision.Ref)
	if !ok {
		return nil, NewError(KindInvariant, "Resolve", fmt.Errorf("revision must start with a ref or object id"))
	}

	h, err := r.resolveStart(ref.Name)
	if err != nil {
		return nil, err
	}

	commit, err := r.commitAt(h)
	if err != nil {
		return nil, err
	}

	for _, step := range steps[1:] {
		switch s := step.(type) {
		case revision.TildePath:
			for i := 0; i < s.Depth; i++ {
				commit, err = commit.Parent(0)
				if err != nil {
					return nil, NewError(KindNotFound, "Resolve", err)
				}
			}
		case revision.CaretPath:
			if s.Depth == 0 {
				continue
			}
			commit, err = commit.Parent(s.Depth - 1)
			if err != nil {
				return nil, NewError(KindNotFound, "Resolve", err)
			}
		case revision.CaretReg:
			commit, err = r.firstAncestorMatching(commit, s.Regexp, s.Negate)
			if err != nil {
				return nil, err
			}
		default:
			return nil, NewError(KindUnsupported, "Resolve", fmt.Errorf("unsupported revision step %T", step))
		}
	}

	return commit, nil
}

// firstAncestorMatching walks commit's ancestry, inclusive, for the
// first whose message matches (or, if negate is true, does not match)
// the given regular expression.
func (r *Repository) firstAncestorMatching(start *object.Commit, pattern string, negate bool) (*object.Commit, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, NewError(KindInvariant, "Resolve", err)
	}

	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()

	for {
		c, err := iter.Next()
		if err != nil {
			return nil, NewError(KindNotFound, "Resolve", err)
		}
		if re.MatchString(c.Message) != negate {
			return c, nil
		}
	}
}

// LogOrder selects the traversal order Log walks the commit graph in.
type LogOrder int

const (
	// LogOrderDefault walks parents before children are revisited, in
	// depth-first pre-order; the order git log uses by default.
	LogOrderDefault LogOrder = iota
	// LogOrderBreadthFirst visits every commit at a given distance from
	// the start before any commit further away.
	LogOrderBreadthFirst
	// LogOrderCommitterTime visits commits purely by committer time,
	// most recent first, regardless of parentage.
	LogOrderCommitterTime
)

// LogOptions configures a Log traversal. The zero value walks the full
// history reachable from the starting commit in default order.
type LogOptions struct {
	Order LogOrder
	Since *time.Time
	Until *time.Time
}

// defaultLogOptions is merged under any options the caller supplies, via
// mergo, so a partially-populated LogOptions never loses Log's defaults.
var defaultLogOptions = LogOptions{Order: LogOrderDefault}

// Log returns an iterator over the commits reachable from committish,
// in the order and bounds given by options.
func (r *Repository) Log(committish string, options LogOptions) (object.CommitIter, error) {
	if err := mergo.Merge(&options, defaultLogOptions); err != nil {
		return nil, NewError(KindInvariant, "Log", err)
	}

	start, err := r.Resolve(committish)
	if err != nil {
		return nil, err
	}

	var iter object.CommitIter
	switch options.Order {
	case LogOrderBreadthFirst:
		iter = object.NewCommitIterBSF(start, nil, nil)
	case LogOrderCommitterTime:
		iter = object.NewCommitIterCTime(start, nil, nil)
	default:
		iter = object.NewCommitPreorderIter(start, nil, nil)
	}

	if options.Since != nil || options.Until != nil {
		iter = object.NewCommitLimitIterFromIter(iter, object.LogLimitOptions{
			Since: options.Since,
			Until: options.Until,
		})
	}

	return iter, nil
}

// DiffOptions configures a Compare call.
type DiffOptions struct {
	// DetectRenames turns on similarity-based rename/copy detection
	// over the raw add/delete pairs DiffTree produces.
	DetectRenames bool
	// RenameScore is the minimum similarity percentage (0-100) for two
	// files to be considered a rename. Zero uses object.DefaultRenameScore.
	RenameScore int
	// RenameLimit bounds the add*delete pairs considered for content
	// similarity scoring. Zero uses object.DefaultRenameLimit.
	RenameLimit int
}

var defaultDiffOptions = DiffOptions{
	RenameScore: object.DefaultRenameScore,
	RenameLimit: object.DefaultRenameLimit,
}

// Compare returns the changes needed to turn old into new, the trees of
// two commits (or any two trees a caller already has in hand).
func (r *Repository) Compare(old, new *object.Tree, options DiffOptions) (object.Changes, error) {
	if err := mergo.Merge(&options, defaultDiffOptions); err != nil {
		return nil, NewError(KindInvariant, "Compare", err)
	}

	changes, err := object.DiffTree(old, new)
	if err != nil {
		return nil, NewError(KindCorrupt, "Compare", err)
	}

	if !options.DetectRenames {
		return changes, nil
	}

	renamed, err := object.DetectRenames(changes, &object.DiffTreeOptions{
		DetectRenames: true,
		RenameScore:   options.RenameScore,
		RenameLimit:   options.RenameLimit,
	})
	if err != nil {
		return nil, NewError(KindCorrupt, "Compare", err)
	}

	return renamed, nil
}

// Commit decodes the commit object named by h.
func (r *Repository) Commit(h plumbing.Hash) (*object.Commit, error) {
	c, err := object.GetCommit(r.Storer, h)
	if err != nil {
		return nil, NewError(kindForLookup(err), "Object", err)
	}
	return c, nil
}

// Tree decodes the tree object named by h.
func (r *Repository) Tree(h plumbing.Hash) (*object.Tree, error) {
	t, err := object.GetTree(r.Storer, h)
	if err != nil {
		return nil, NewError(kindForLookup(err), "Object", err)
	}
	return t, nil
}

// Blob decodes the blob object named by h.
func (r *Repository) Blob(h plumbing.Hash) (*object.Blob, error) {
	b, err := object.GetBlob(r.Storer, h)
	if err != nil {
		return nil, NewError(kindForLookup(err), "Object", err)
	}
	return b, nil
}

// Tag decodes the annotated tag object named by h.
func (r *Repository) Tag(h plumbing.Hash) (*object.Tag, error) {
	t, err := object.GetTag(r.Storer, h)
	if err != nil {
		return nil, NewError(kindForLookup(err), "Object", err)
	}
	return t, nil
}

// Object decodes the object named by h, dispatching on its stored type.
// It is the untyped counterpart to Commit/Tree/Blob/Tag, for callers
// that don't know ahead of time what kind of object a hash names.
func (r *Repository) Object(h plumbing.Hash) (object.Object, error) {
	o, err := r.Storer.EncodedObject(plumbing.AnyObject, h)
	if err != nil {
		return nil, NewError(kindForLookup(err), "Object", err)
	}

	decoded, err := object.DecodeObject(r.Storer, o)
	if err != nil {
		return nil, NewError(KindCorrupt, "Object", err)
	}
	return decoded, nil
}

func kindForLookup(err error) Kind {
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return KindNotFound
	}
	return KindCorrupt
}
