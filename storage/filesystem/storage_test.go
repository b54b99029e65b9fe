package filesystem

import (
	"testing"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/stretchr/testify/suite"

	"github.com/gitobj/gitobj/plumbing/cache"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// compile-time interface checks, matching the way the teacher's own
// storage test suite asserts its Storage satisfies every storer role.
var (
	_ storer.EncodedObjectStorer = (*Storage)(nil)
	_ storer.ReferenceStorer     = (*Storage)(nil)
	_ storer.ShallowStorer       = (*Storage)(nil)
	_ storer.DeltaObjectStorer   = (*Storage)(nil)
	_ storer.PackfileWriter      = (*Storage)(nil)
)

type StorageSuite struct {
	suite.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) TestFilesystem() {
	fs := memfs.New()
	storage := NewStorage(fs, cache.NewObjectLRUDefault())

	s.Equal(fs, storage.Filesystem())
}

func (s *StorageSuite) TestNewStorageShouldNotAddAnyContentsToDir() {
	dir := s.T().TempDir()
	fs := osfs.New(dir)

	NewStorage(fs, cache.NewObjectLRUDefault())

	entries, err := fs.ReadDir("")
	s.Require().NoError(err)
	s.Len(entries, 0)
}

func (s *StorageSuite) TestInitCreatesLayout() {
	fs := memfs.New()
	storage := NewStorage(fs, cache.NewObjectLRUDefault())

	s.Require().NoError(storage.Init())

	_, err := fs.Stat(fs.Join("objects", "pack"))
	s.Require().NoError(err)
}

func (s *StorageSuite) TestExclusiveAccessOption() {
	fs := memfs.New()
	storage := NewStorageWithOptions(fs, cache.NewObjectLRUDefault(), Options{ExclusiveAccess: true})

	s.Require().NoError(storage.Init())
}
