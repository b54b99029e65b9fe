package plumbing

import (
	"errors"
	"fmt"
	"strings"
)

// ReferenceType represents the type of a reference.
type ReferenceType int8

const (
	InvalidReference  ReferenceType = 0
	HashReference     ReferenceType = 1
	SymbolicReference ReferenceType = 2
)

func (r ReferenceType) String() string {
	switch r {
	case HashReference:
		return "hash-reference"
	case SymbolicReference:
		return "symbolic-reference"
	default:
		return "invalid-reference"
	}
}

// ReferenceName is a git reference name, e.g. "refs/heads/master".
type ReferenceName string

const (
	// HEAD is the name of the reference pointing to the current checkout.
	HEAD ReferenceName = "HEAD"
	// Master is the name of the default master branch.
	Master ReferenceName = "refs/heads/master"
	// Main is the name of the default main branch.
	Main ReferenceName = "refs/heads/main"
)

// ErrInvalidReferenceName is returned by ReferenceName.Validate when the
// reference name does not follow git's ref naming rules.
var ErrInvalidReferenceName = errors.New("invalid reference name")

// ErrReferenceNotFound is returned by storage implementations when a
// reference lookup by name fails.
var ErrReferenceNotFound = errors.New("reference not found")

func (n ReferenceName) String() string {
	return string(n)
}

// Short returns the name with any of the well-known reference namespace
// prefixes stripped: "refs/heads/", "refs/tags/", "refs/remotes/" and
// "refs/notes/". The rest of the name, slashes included, is kept.
func (n ReferenceName) Short() string {
	s := string(n)
	res := s
	for _, prefix := range []string{
		"refs/heads/",
		"refs/tags/",
		"refs/remotes/",
		"refs/notes/",
	} {
		if strings.HasPrefix(s, prefix) {
			res = s[len(prefix):]
		}
	}

	return res
}

// IsBranch returns true if n is a branch reference name.
func (n ReferenceName) IsBranch() bool {
	return strings.HasPrefix(string(n), "refs/heads/")
}

// IsNote returns true if n is a note reference name.
func (n ReferenceName) IsNote() bool {
	return strings.HasPrefix(string(n), "refs/notes/")
}

// IsRemote returns true if n is a remote reference name.
func (n ReferenceName) IsRemote() bool {
	return strings.HasPrefix(string(n), "refs/remotes/")
}

// IsTag returns true if n is a tag reference name.
func (n ReferenceName) IsTag() bool {
	return strings.HasPrefix(string(n), "refs/tags/")
}

// NewBranchReferenceName builds the full reference name for a branch named
// name, e.g. "foo" becomes "refs/heads/foo".
func NewBranchReferenceName(name string) ReferenceName {
	return ReferenceName("refs/heads/" + name)
}

// NewNoteReferenceName builds the full reference name for a note named name.
func NewNoteReferenceName(name string) ReferenceName {
	return ReferenceName("refs/notes/" + name)
}

// NewRemoteReferenceName builds the full reference name for a branch named
// name tracked from the remote named remote.
func NewRemoteReferenceName(remote, name string) ReferenceName {
	return ReferenceName("refs/remotes/" + remote + "/" + name)
}

// NewRemoteHEADReferenceName builds the full reference name for the HEAD
// symbolic reference of the remote named remote.
func NewRemoteHEADReferenceName(remote string) ReferenceName {
	return ReferenceName("refs/remotes/" + remote + "/HEAD")
}

// NewTagReferenceName builds the full reference name for a tag named name.
func NewTagReferenceName(name string) ReferenceName {
	return ReferenceName("refs/tags/" + name)
}

// Validate reports whether n follows git's ref naming rules (a relaxed
// version of git-check-ref-format(1)): HEAD is always valid; anything else
// must start with "refs/", have no empty path components, and no component
// may contain a run of forbidden characters, start with '.', end with
// ".lock", or contain "..". Branch and tag names may additionally not begin
// with '-', to avoid ever being mistaken for a command line flag.
func (n ReferenceName) Validate() error {
	s := string(n)
	if s == string(HEAD) {
		return nil
	}

	if !strings.HasPrefix(s, "refs/") {
		return fmt.Errorf("%w: %q", ErrInvalidReferenceName, s)
	}

	if strings.HasPrefix(s, "refs/heads/-") || strings.HasPrefix(s, "refs/tags/-") {
		return fmt.Errorf("%w: %q", ErrInvalidReferenceName, s)
	}

	components := strings.Split(s, "/")
	for i, c := range components {
		if i == 0 {
			// the literal "refs" component.
			continue
		}

		if !isValidRefComponent(c) {
			return fmt.Errorf("%w: %q", ErrInvalidReferenceName, s)
		}
	}

	return nil
}

func isValidRefComponent(c string) bool {
	if c == "" || c == "." || c == ".." {
		return false
	}

	if strings.HasPrefix(c, ".") || strings.HasSuffix(c, ".lock") {
		return false
	}

	if strings.Contains(c, "..") || strings.Contains(c, "@{") || c == "@" {
		return false
	}

	for _, r := range c {
		switch {
		case r < 0x20 || r == 0x7f:
			return false
		case r == ' ', r == '~', r == '^', r == ':', r == '?', r == '*', r == '[', r == '\\':
			return false
		}
	}

	return true
}

// Reference represents a git reference. A reference is either a symbolic
// reference, pointing at another ReferenceName, or a hash reference,
// pointing directly at an object hash.
type Reference struct {
	t      ReferenceType
	n      ReferenceName
	h      Hash
	target ReferenceName
}

// NewReferenceFromStrings creates a Reference from a name and target string,
// in the format used by packed-refs and loose ref files: a hash reference
// has target set to the hex hash, a symbolic reference has target set to
// "ref: <name>".
func NewReferenceFromStrings(name, target string) *Reference {
	n := ReferenceName(name)

	if strings.HasPrefix(target, symrefPrefix) {
		target := ReferenceName(strings.TrimSpace(target[len(symrefPrefix):]))
		return NewSymbolicReference(n, target)
	}

	return NewHashReference(n, NewHash(target))
}

const symrefPrefix = "ref: "

// NewSymbolicReference creates a new symbolic reference named n, pointing at
// target.
func NewSymbolicReference(n, target ReferenceName) *Reference {
	return &Reference{
		t:      SymbolicReference,
		n:      n,
		target: target,
	}
}

// NewHashReference creates a new hash reference named n, pointing at h.
func NewHashReference(n ReferenceName, h Hash) *Reference {
	return &Reference{
		t: HashReference,
		n: n,
		h: h,
	}
}

// Type returns the type of the reference.
func (r *Reference) Type() ReferenceType {
	return r.t
}

// Name returns the name of the reference.
func (r *Reference) Name() ReferenceName {
	return r.n
}

// Hash returns the hash of a hash reference. It's the zero hash for any
// other reference type.
func (r *Reference) Hash() Hash {
	return r.h
}

// Target returns the target of a symbolic reference. It's empty for any
// other reference type.
func (r *Reference) Target() ReferenceName {
	return r.target
}

// Strings returns the name/target pair in the textual form used by
// packed-refs and loose ref files.
func (r *Reference) Strings() [2]string {
	var s [2]string
	s[0] = r.Name().String()

	switch r.Type() {
	case HashReference:
		s[1] = r.Hash().String()
	case SymbolicReference:
		s[1] = symrefPrefix + r.Target().String()
	}

	return s
}

func (r *Reference) String() string {
	if r == nil {
		return ""
	}

	s := r.Strings()
	return fmt.Sprintf("%s %s", s[1], s[0])
}
