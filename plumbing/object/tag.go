package object

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/object/signature"
	"github.com/gitobj/gitobj/plumbing/object/signature/pgp"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// Tag represents an annotated tag, which points to a Commit, Tree, Blob,
// or another Tag.
type Tag struct {
	// Hash of the tag.
	Hash plumbing.Hash
	// Name of the tag.
	Name string
	// Tagger is the one who created the tag.
	Tagger Signature
	// PGPSignature is the armored PGP signature over the tag, if any.
	PGPSignature string
	// Message is the tag message, contains arbitrary text.
	Message string
	// TargetType is the object type of the target.
	TargetType plumbing.ObjectType
	// Target is the hash of the target object.
	Target plumbing.Hash

	s storer.EncodedObjectStorer
}

var _ signature.VerifiableObject = (*Tag)(nil)

// ID returns the object hash of the tag.
func (t *Tag) ID() plumbing.Hash {
	return t.Hash
}

// Type returns the type of object, always TagObject.
func (t *Tag) Type() plumbing.ObjectType {
	return plumbing.TagObject
}

// Decode transforms a plumbing.EncodedObject into a Tag.
func (t *Tag) Decode(o plumbing.EncodedObject) (err error) {
	if o.Type() != plumbing.TagObject {
		return ErrUnsupportedObject
	}

	t.Hash = o.Hash()

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
		for {
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
		case "object":
			t.Target = plumbing.NewHash(valueBuf.String())
		case "type":
			t.TargetType = parseObjectType(valueBuf.String())
		case "tag":
			t.Name = valueBuf.String()
		case "tagger":
			t.Tagger.Decode(valueBuf.Bytes())
		case "gpgsig":
			t.PGPSignature = valueBuf.String()
		}

		if readErr == io.EOF {
			return nil
		}
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	// A signature appended to the message, as git writes it, is split off
	// into PGPSignature.
	if pos, _ := parseSignedBytes(b); pos != -1 && t.PGPSignature == "" {
		t.PGPSignature = string(b[pos:])
		b = b[:pos]
	}
	t.Message = string(b)

	return nil
}

func parseObjectType(s string) plumbing.ObjectType {
	switch s {
	case "commit":
		return plumbing.CommitObject
	case "tree":
		return plumbing.TreeObject
	case "blob":
		return plumbing.BlobObject
	case "tag":
		return plumbing.TagObject
	default:
		return plumbing.InvalidObject
	}
}

// Encode transforms a Tag into a plumbing.EncodedObject.
func (t *Tag) Encode(o plumbing.EncodedObject) error {
	return t.encode(o, true)
}

// EncodeWithoutSignature is like Encode but omits the PGP signature,
// used to recover the exact bytes that were signed.
func (t *Tag) EncodeWithoutSignature(o plumbing.EncodedObject) error {
	return t.encode(o, false)
}

func (t *Tag) encode(o plumbing.EncodedObject, includeSig bool) error {
	o.SetType(plumbing.TagObject)

	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if _, err := fmt.Fprintf(w, "object %s\n", t.Target.String()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "type %s\n", t.TargetType.String()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "tag %s\n", t.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "tagger %s\n", t.Tagger.encode()); err != nil {
		return err
	}

	if includeSig && t.PGPSignature != "" {
		if err := writeHeader(w, "gpgsig", t.PGPSignature); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, "\n", t.Message); err != nil {
		return err
	}

	return nil
}

// Signature returns the tag's PGP signature, satisfying
// signature.VerifiableObject.
func (t *Tag) Signature() string {
	return t.PGPSignature
}

// Commit returns the Commit pointed to by the tag, or
// ErrUnsupportedObject if the tag does not point to a commit.
func (t *Tag) Commit() (*Commit, error) {
	if t.TargetType != plumbing.CommitObject {
		return nil, ErrUnsupportedObject
	}

	return GetCommit(t.s, t.Target)
}

// Tree returns the Tree pointed to by the tag. If the tag points to a
// Commit, its root tree is returned instead.
func (t *Tag) Tree() (*Tree, error) {
	switch t.TargetType {
	case plumbing.CommitObject:
		c, err := t.Commit()
		if err != nil {
			return nil, err
		}

		return c.Tree()
	case plumbing.TreeObject:
		return GetTree(t.s, t.Target)
	default:
		return nil, ErrUnsupportedObject
	}
}

// Blob returns the Blob pointed to by the tag, or ErrUnsupportedObject
// if the tag does not point to a blob.
func (t *Tag) Blob() (*Blob, error) {
	if t.TargetType != plumbing.BlobObject {
		return nil, ErrUnsupportedObject
	}

	return GetBlob(t.s, t.Target)
}

// Object returns the object pointed to by the tag, decoded as its
// concrete type, which might itself be another Tag.
func (t *Tag) Object() (Object, error) {
	o, err := t.s.EncodedObject(t.TargetType, t.Target)
	if err != nil {
		return nil, err
	}

	return DecodeObject(t.s, o)
}

// Verify validates the PGP signature of the tag against the given
// armored key ring, returning the entity that produced it.
func (t *Tag) Verify(armoredKeyRing string) (*openpgp.Entity, error) {
	v, err := pgp.NewVerifierFromArmoredKeyRing(strings.NewReader(armoredKeyRing))
	if err != nil {
		return nil, err
	}

	e, err := v.Verify(t)
	if err != nil {
		return nil, err
	}

	concrete, ok := e.Concrete().(*openpgp.Entity)
	if !ok {
		return nil, fmt.Errorf("unexpected signer entity type %T", e.Concrete())
	}

	return concrete, nil
}

// String returns a git-log-like rendering of the tag, followed by a
// rendering of the commit it points to, when the tag targets a commit.
func (t *Tag) String() string {
	out := fmt.Sprintf(
		"%s %s\nTagger: %s\nDate:   %s\n\n%s\n",
		plumbing.TagObject, t.Name,
		t.Tagger.String(),
		t.Tagger.When.Format(DateFormat),
		t.Message,
	)

	if t.TargetType == plumbing.CommitObject {
		if c, err := t.Commit(); err == nil {
			out += c.String()
		}
	}

	return out
}

// TagIter is an iterator over a series of tags.
type TagIter struct {
	storer.EncodedObjectIter
	s storer.EncodedObjectStorer
}

// NewTagIter takes a storer.EncodedObjectStorer and a
// storer.EncodedObjectIter and returns a TagIter that iterates over
// all tags contained in the storer.EncodedObjectIter.
func NewTagIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *TagIter {
	return &TagIter{iter, s}
}

// Next moves the iterator to the next tag and returns it, or io.EOF
// once exhausted.
func (iter *TagIter) Next() (*Tag, error) {
	obj, err := iter.EncodedObjectIter.Next()
	if err != nil {
		return nil, err
	}

	return DecodeTag(iter.s, obj)
}

// ForEach calls f for every tag in the iterator, stopping early if f
// returns storer.ErrStop.
func (iter *TagIter) ForEach(f func(*Tag) error) error {
	for {
		t, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(t); err != nil {
			if err == storer.ErrStop {
				return nil
			}

			return err
		}
	}
}
