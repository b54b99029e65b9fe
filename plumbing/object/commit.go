package object

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/object/signature"
	"github.com/gitobj/gitobj/plumbing/object/signature/pgp"
	"github.com/gitobj/gitobj/plumbing/storer"
)

const (
	beginpgp = "-----BEGIN PGP SIGNATURE-----"
	endpgp   = "-----END PGP SIGNATURE-----"

	// DateFormat is the format used by git to print dates in commit
	// headers.
	DateFormat = "Mon Jan 02 15:04:05 2006 -0700"
)

// ErrParentNotFound is returned by Commit.Parent when the requested
// index is out of range of the commit's ParentHashes.
var ErrParentNotFound = errors.New("commit parent not found")

// MessageEncoding is the charset a commit's message is encoded in, as
// recorded by the optional "encoding" commit header. The zero value
// means the default, UTF-8.
type MessageEncoding string

const defaultUtf8CommitMessageEncoding MessageEncoding = ""

// ExtraHeader is a commit header this package doesn't give its own
// field to; it is preserved verbatim across a decode/encode round
// trip.
type ExtraHeader struct {
	Key   string
	Value string
}

// Commit points to a single tree, identifying what the project
// contents looked like at a given point in time, and to zero or more
// parent commits that came immediately before it.
type Commit struct {
	// Hash is the object hash of the commit.
	Hash plumbing.Hash
	// Author is the original author of the contents of the commit.
	Author Signature
	// Committer is the person performing the commit.
	Committer Signature
	// PGPSignature is the armored signature of the commit, if any.
	PGPSignature string
	// MergeTag holds the contents of an embedded "mergetag" header,
	// as recorded when merging a signed tag.
	MergeTag string
	// Message is the commit message, contains arbitrary text.
	Message string
	// TreeHash is the hash of the root tree of the commit.
	TreeHash plumbing.Hash
	// ParentHashes are the hashes of the parent commits.
	ParentHashes []plumbing.Hash
	// Encoding is the charset Message is encoded in.
	Encoding MessageEncoding
	// ExtraHeaders holds any other header found in the commit object.
	ExtraHeaders []ExtraHeader

	s storer.EncodedObjectStorer
}

var _ signature.VerifiableObject = (*Commit)(nil)

// ID returns the object hash of the commit.
func (c *Commit) ID() plumbing.Hash {
	return c.Hash
}

// Type returns the type of object, always CommitObject.
func (c *Commit) Type() plumbing.ObjectType {
	return plumbing.CommitObject
}

// Decode transforms a plumbing.EncodedObject into a Commit.
func (c *Commit) Decode(o plumbing.EncodedObject) (err error) {
	if o.Type() != plumbing.CommitObject {
		return ErrUnsupportedObject
	}

	c.Hash = o.Hash()
	c.ParentHashes = nil
	c.ExtraHeaders = nil
	c.Encoding = defaultUtf8CommitMessageEncoding

	r, err := o.Reader()
	if err != nil {
		return err
	}
	defer ioutilCheckClose(r, &err)

	reader := bufio.NewReader(r)

	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}

		line = bytes.TrimSuffix(line, []byte{'\n'})
		if len(line) == 0 {
			break
		}

		sp := bytes.IndexByte(line, ' ')
		var key string
		var value []byte
		if sp == -1 {
			key = string(line)
		} else {
			key = string(line[:sp])
			value = line[sp+1:]
		}

		valueBuf := bytes.NewBuffer(value)
		// A header written without a separating space carries no value,
		// so the line after it starts a header of its own.
		for sp != -1 {
			b, peekErr := reader.Peek(1)
			if peekErr != nil || len(b) == 0 || b[0] != ' ' {
				break
			}

			cont, contErr := reader.ReadBytes('\n')
			if contErr != nil && contErr != io.EOF {
				return contErr
			}
			cont = bytes.TrimSuffix(cont, []byte{'\n'})
			cont = bytes.TrimPrefix(cont, []byte{' '})
			valueBuf.WriteByte('\n')
			valueBuf.Write(cont)

			if contErr == io.EOF {
				break
			}
		}

		switch key {
		case "tree":
			c.TreeHash = plumbing.NewHash(valueBuf.String())
		case "parent":
			c.ParentHashes = append(c.ParentHashes, plumbing.NewHash(valueBuf.String()))
		case "author":
			c.Author.Decode(valueBuf.Bytes())
		case "committer":
			c.Committer.Decode(valueBuf.Bytes())
		case "encoding":
			c.Encoding = MessageEncoding(valueBuf.String())
		case "gpgsig":
			c.PGPSignature = valueBuf.String()
		case "mergetag":
			c.MergeTag = valueBuf.String()
		default:
			c.ExtraHeaders = append(c.ExtraHeaders, ExtraHeader{
				Key:   key,
				Value: valueBuf.String(),
			})
		}

		if readErr == io.EOF {
			return nil
		}
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	c.Message = string(b)

	return nil
}

// Encode transforms a Commit into a plumbing.EncodedObject.
func (c *Commit) Encode(o plumbing.EncodedObject) error {
	return c.encode(o, true)
}

// EncodeWithoutSignature is like Encode but omits the PGP signature,
// used to recover the exact bytes that were signed.
func (c *Commit) EncodeWithoutSignature(o plumbing.EncodedObject) error {
	return c.encode(o, false)
}

func (c *Commit) encode(o plumbing.EncodedObject, includeSig bool) error {
	o.SetType(plumbing.CommitObject)

	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if _, err := fmt.Fprintf(w, "tree %s\n", c.TreeHash.String()); err != nil {
		return err
	}

	for _, parent := range c.ParentHashes {
		if _, err := fmt.Fprintf(w, "parent %s\n", parent.String()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "author %s\n", c.Author.encode()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "committer %s\n", c.Committer.encode()); err != nil {
		return err
	}

	if c.Encoding != defaultUtf8CommitMessageEncoding {
		if _, err := fmt.Fprintf(w, "encoding %s\n", c.Encoding); err != nil {
			return err
		}
	}

	for _, h := range c.ExtraHeaders {
		if err := writeHeader(w, h.Key, h.Value); err != nil {
			return err
		}
	}

	if c.MergeTag != "" {
		if err := writeHeader(w, "mergetag", c.MergeTag); err != nil {
			return err
		}
	}

	if includeSig && c.PGPSignature != "" {
		if err := writeHeader(w, "gpgsig", c.PGPSignature); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, "\n", c.Message); err != nil {
		return err
	}

	return nil
}

func writeHeader(w io.Writer, key, value string) error {
	if value == "" {
		_, err := fmt.Fprintf(w, "%s\n", key)
		return err
	}

	lines := strings.Split(value, "\n")
	if _, err := fmt.Fprintf(w, "%s %s\n", key, lines[0]); err != nil {
		return err
	}
	for _, l := range lines[1:] {
		if _, err := fmt.Fprintf(w, " %s\n", l); err != nil {
			return err
		}
	}
	return nil
}

// Tree returns the tree this commit points to.
func (c *Commit) Tree() (*Tree, error) {
	return GetTree(c.s, c.TreeHash)
}

// Parents returns a CommitIter over this commit's parents.
func (c *Commit) Parents() CommitIter {
	return NewCommitIter(c.s,
		storer.NewEncodedObjectLookupIter(c.s, plumbing.CommitObject, c.ParentHashes),
	)
}

// Parent returns the ith parent of the commit.
func (c *Commit) Parent(i int) (*Commit, error) {
	if i < 0 || i >= len(c.ParentHashes) {
		return nil, ErrParentNotFound
	}

	return GetCommit(c.s, c.ParentHashes[i])
}

// NumParents returns the number of parents of the commit.
func (c *Commit) NumParents() int {
	return len(c.ParentHashes)
}

// File returns the file with the given path, as found in the commit's
// tree.
func (c *Commit) File(path string) (*File, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	return tree.File(path)
}

// Files returns an iterator over every file in the commit's tree.
func (c *Commit) Files() (*FileIter, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	return tree.Files(), nil
}

// Signature returns the commit's PGP signature, satisfying
// signature.VerifiableObject.
func (c *Commit) Signature() string {
	return c.PGPSignature
}

// Verify validates the PGP signature of the commit against the given
// armored key ring, returning the entity that produced it.
func (c *Commit) Verify(armoredKeyRing string) (*openpgp.Entity, error) {
	v, err := pgp.NewVerifierFromArmoredKeyRing(strings.NewReader(armoredKeyRing))
	if err != nil {
		return nil, err
	}

	e, err := v.Verify(c)
	if err != nil {
		return nil, err
	}

	concrete, ok := e.Concrete().(*openpgp.Entity)
	if !ok {
		return nil, fmt.Errorf("unexpected signer entity type %T", e.Concrete())
	}

	return concrete, nil
}

// String returns a git-log-like rendering of the commit.
func (c *Commit) String() string {
	return fmt.Sprintf(
		"%s %s\nAuthor: %s\nDate:   %s\n\n%s\n",
		plumbing.CommitObject, c.Hash,
		c.Author.String(),
		c.Author.When.Format(DateFormat),
		indentMessage(c.Message),
	)
}

func indentMessage(t string) string {
	var output []string
	for _, line := range strings.Split(t, "\n") {
		if len(line) != 0 {
			line = "    " + line
		}
		output = append(output, line)
	}

	return strings.Join(output, "\n")
}

// Less returns whether c should sort before other, ordered by
// committer time, then author time, then hash, all ascending.
func (c *Commit) Less(rhs *Commit) bool {
	cmp := c.Committer.When.Compare(rhs.Committer.When)
	if cmp != 0 {
		return cmp < 0
	}

	cmp = c.Author.When.Compare(rhs.Author.When)
	if cmp != 0 {
		return cmp < 0
	}

	return c.Hash.Compare(rhs.Hash.Bytes()) < 0
}

// Stats returns the per-file change statistics between the commit and
// its first parent (or, for an initial commit, the empty tree).
func (c *Commit) Stats() (FileStats, error) {
	return c.StatsContext(context.Background())
}

// StatsContext is like Stats but with a cancellable context.
func (c *Commit) StatsContext(ctx context.Context) (FileStats, error) {
	fromTree, err := firstParentTree(ctx, c)
	if err != nil {
		return nil, err
	}

	toTree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	patch, err := getPatchContext(ctx, "", fromTree, toTree)
	if err != nil {
		return nil, err
	}

	return patch.Stats(), nil
}

// Patch returns the Patch from the commit's tree to the tree of to.
func (c *Commit) Patch(to *Commit) (*Patch, error) {
	return c.PatchContext(context.Background(), to)
}

// PatchContext is like Patch but with a cancellable context.
func (c *Commit) PatchContext(ctx context.Context, to *Commit) (*Patch, error) {
	fromTree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var toTree *Tree
	if to != nil {
		toTree, err = to.Tree()
		if err != nil {
			return nil, err
		}
	}

	return getPatchContext(ctx, "", fromTree, toTree)
}

func firstParentTree(ctx context.Context, c *Commit) (*Tree, error) {
	if c.NumParents() == 0 {
		return nil, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}

	return parent.Tree()
}

// CommitIter is a generic closable interface for iterating over
// commits.
type CommitIter interface {
	Next() (*Commit, error)
	ForEach(func(*Commit) error) error
	Close()
}

// storerCommitIter decodes commits lazily as it visits the underlying
// EncodedObjectIter.
type storerCommitIter struct {
	storer.EncodedObjectIter
	s storer.EncodedObjectStorer
}

// NewCommitIter takes a storer.EncodedObjectStorer and an
// storer.EncodedObjectIter and returns a CommitIter that iterates over
// all commits contained in the storer.EncodedObjectIter.
func NewCommitIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) CommitIter {
	return &storerCommitIter{iter, s}
}

// Next moves the iterator to the next commit and returns it, or io.EOF
// once exhausted.
func (iter *storerCommitIter) Next() (*Commit, error) {
	obj, err := iter.EncodedObjectIter.Next()
	if err != nil {
		return nil, err
	}

	return DecodeCommit(iter.s, obj)
}

// ForEach calls f for every commit in the iterator, stopping early if
// f returns storer.ErrStop.
func (iter *storerCommitIter) ForEach(f func(*Commit) error) error {
	for {
		c, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(c); err != nil {
			if err == storer.ErrStop {
				return nil
			}

			return err
		}
	}
}

func ioutilCheckClose(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
