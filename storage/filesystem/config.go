package filesystem

import (
	"github.com/gitobj/gitobj/repoformat"
	"github.com/gitobj/gitobj/storage/filesystem/dotgit"
	"github.com/gitobj/gitobj/utils/ioutil"

	format "github.com/gitobj/gitobj/plumbing/format/config"
)

// ConfigStorage reads and writes the subset of the repository's config
// file, stored at .git/config, that the object layer needs: the
// repository format version and its extensions.
type ConfigStorage struct {
	dir          *dotgit.DotGit
	objectFormat format.ObjectFormat
}

// Config returns the repository's format descriptor.
func (c *ConfigStorage) Config() (desc *repoformat.Descriptor, err error) {
	f, err := c.dir.Config()
	if err != nil {
		return nil, err
	}
	defer ioutil.CheckClose(f, &err)

	return repoformat.Decode(f)
}

// SetConfig persists desc's repository format version and object format
// extension as the repository's config file.
func (c *ConfigStorage) SetConfig(desc *repoformat.Descriptor) (err error) {
	raw := format.New()
	core := raw.Section("core")
	core.SetOption("repositoryformatversion", string(desc.RepositoryFormatVersion))

	if desc.RepositoryFormatVersion == format.Version1 {
		ext := raw.Section("extensions")
		ext.SetOption("objectformat", desc.ObjectFormat.String())
	}

	f, err := c.dir.ConfigWriter()
	if err != nil {
		return err
	}
	defer ioutil.CheckClose(f, &err)

	e := format.NewEncoder(f)
	return e.Encode(raw)
}
