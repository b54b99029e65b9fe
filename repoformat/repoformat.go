// Package repoformat reads just enough of a repository's .git/config
// file to resolve the object hash format and to detect the on-disk
// extensions this library cannot honor. It is not a general config
// store: no remotes, branches, or refspecs are modeled here, since
// the resolver never writes or transmits a repository.
package repoformat

import (
	"fmt"
	"io"

	"github.com/gitobj/gitobj/plumbing/format/config"
)

// Descriptor holds the subset of core.* and extensions.* that the
// object layer needs to open a repository safely.
type Descriptor struct {
	RepositoryFormatVersion config.RepositoryFormatVersion
	ObjectFormat            config.ObjectFormat

	RefStorage     string
	WorktreeConfig bool
	PartialClone   bool
	Bare           bool
}

// ErrUnsupportedExtension is returned when a repository advertises a
// format or extension this package does not implement.
type ErrUnsupportedExtension struct {
	Reason string
}

func (e *ErrUnsupportedExtension) Error() string {
	return fmt.Sprintf("unsupported repository format: %s", e.Reason)
}

// Decode parses a .git/config file and validates it against the set
// of extensions this library supports.
func Decode(r io.Reader) (*Descriptor, error) {
	raw := config.New()
	if err := config.NewDecoder(r).Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding repository config: %w", err)
	}

	d := &Descriptor{
		RepositoryFormatVersion: config.DefaultRepositoryFormatVersion,
		ObjectFormat:            config.DefaultObjectFormat,
	}

	core := raw.Section("core")
	if v := core.Option("repositoryformatversion"); v != "" {
		d.RepositoryFormatVersion = config.RepositoryFormatVersion(v)
	}
	d.Bare = core.Option("bare") == "true"

	if d.RepositoryFormatVersion != config.Version0 && d.RepositoryFormatVersion != config.Version1 {
		return nil, &ErrUnsupportedExtension{
			Reason: fmt.Sprintf("core.repositoryformatversion=%s is not supported", d.RepositoryFormatVersion),
		}
	}

	if d.RepositoryFormatVersion == config.Version1 {
		ext := raw.Section("extensions")

		if of := ext.Option("objectformat"); of != "" {
			d.ObjectFormat = config.ObjectFormat(of)
		}
		if d.ObjectFormat != config.SHA1 && d.ObjectFormat != config.SHA256 {
			return nil, &ErrUnsupportedExtension{Reason: fmt.Sprintf("extensions.objectformat=%s", d.ObjectFormat)}
		}

		d.RefStorage = ext.Option("refstorage")
		if d.RefStorage != "" && d.RefStorage != "files" {
			return nil, &ErrUnsupportedExtension{Reason: fmt.Sprintf("extensions.refstorage=%s", d.RefStorage)}
		}

		if ext.Option("worktreeconfig") == "true" {
			d.WorktreeConfig = true
			return nil, &ErrUnsupportedExtension{Reason: "extensions.worktreeconfig=true"}
		}

		if ext.Option("partialclone") != "" {
			d.PartialClone = true
			return nil, &ErrUnsupportedExtension{Reason: "extensions.partialclone is set"}
		}
	}

	return d, nil
}
