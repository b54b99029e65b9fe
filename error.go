package gitobj

import (
	"errors"
	"fmt"
)

// Kind classifies why a Repository operation failed, matching the error
// taxonomy every public entry point commits to.
type Kind int

const (
	// KindNotFound means the requested ref, committish, or object id does
	// not exist in the repository.
	KindNotFound Kind = iota
	// KindAmbiguous means an abbreviated hash matches more than one
	// object, or a committish matches more than one ref.
	KindAmbiguous
	// KindCorrupt means on-disk data (a loose object, pack, index, or
	// commit-graph) failed to parse or failed its hash check. A NotFound
	// encountered while resolving a delta base is reported as Corrupt,
	// since a dangling delta base means the pack itself is broken.
	KindCorrupt
	// KindUnsupported means the repository uses a format or extension
	// this package does not implement (see repoformat.ErrUnsupportedExtension).
	KindUnsupported
	// KindIO means a filesystem operation failed for a reason unrelated
	// to the repository's content (permissions, I/O error, and the like).
	KindIO
	// KindCancelled means the caller's context was cancelled or timed
	// out before the operation completed.
	KindCancelled
	// KindInvariant means an internal precondition this package relies on
	// did not hold; it signals a bug in this package rather than a
	// problem with the repository or the caller's input.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAmbiguous:
		return "ambiguous"
	case KindCorrupt:
		return "corrupt"
	case KindUnsupported:
		return "unsupported"
	case KindIO:
		return "io"
	case KindCancelled:
		return "cancelled"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every Repository operation: a Kind
// plus the underlying cause, following the same wrap-at-the-boundary
// convention as plumbing/format/packfile's Error.
type Error struct {
	Kind  Kind
	Op    string
	cause error
}

// NewError wraps err as a *Error of the given kind, attributed to op (the
// method or function that produced it, e.g. "Resolve" or "Open").
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, cause: err}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("gitobj: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("gitobj: %s: %s: %s", e.Op, e.Kind, e.cause)
}

// Unwrap returns the wrapped cause, so errors.Is/errors.As see through to
// the underlying sentinel (plumbing.ErrObjectNotFound, and the like).
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a *Error of the same Kind, so callers can
// write errors.Is(err, gitobj.NewError(gitobj.KindNotFound, "", nil)) or,
// more conveniently, use the Is<Kind> helpers below.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// IsNotFound reports whether err is a *Error of KindNotFound.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsAmbiguous reports whether err is a *Error of KindAmbiguous.
func IsAmbiguous(err error) bool { return isKind(err, KindAmbiguous) }

// IsCorrupt reports whether err is a *Error of KindCorrupt.
func IsCorrupt(err error) bool { return isKind(err, KindCorrupt) }

// IsUnsupported reports whether err is a *Error of KindUnsupported.
func IsUnsupported(err error) bool { return isKind(err, KindUnsupported) }

func isKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
