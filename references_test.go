package gitobj

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	fixtures "github.com/go-git/go-git-fixtures/v5"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/cache"
	"github.com/gitobj/gitobj/plumbing/object"
	"github.com/gitobj/gitobj/plumbing/storer"
	"github.com/gitobj/gitobj/storage/filesystem"
)

type ReferencesSuite struct {
	suite.Suite
}

func TestReferencesSuite(t *testing.T) {
	suite.Run(t, new(ReferencesSuite))
}

var referencesTests = [...]struct {
	// input data to revlist
	repo   string
	commit string
	path   string
	// expected output data form the revlist
	revs []string
}{
	// Tyba git-fixture
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "binary.jpg", []string{
		"35e85108805c84807bc66a02d91535e1e24b38b9",
		"1669dce138d9b841a518c64b10914d88f5e488ea",
	}},
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "CHANGELOG", []string{
		"b8e471f58bcbca63b07bda20e428190409c2db47",
		"a5b8b09e2f8fcb0bb99d3ccb0958157b40890d69",
		"1669dce138d9b841a518c64b10914d88f5e488ea",
	}},
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "go/example.go", []string{
		"918c48b83bd081e863dbe1b80f8998f058cd8294",
	}},
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "json/long.json", []string{
		"af2d6a6954d532f8ffb47615169c8fdf9d383a1a",
	}},
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "json/short.json", []string{
		"af2d6a6954d532f8ffb47615169c8fdf9d383a1a",
	}},
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "LICENSE", []string{
		"b029517f6300c2da0f4b651b8642506cd6aaf45d",
	}},
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "php/crappy.php", []string{
		"918c48b83bd081e863dbe1b80f8998f058cd8294",
	}},
	{"https://github.com/git-fixtures/basic.git", "6ecf0ef2c2dffb796033e5a02219af86ec6584e5", "vendor/foo.go", []string{
		"6ecf0ef2c2dffb796033e5a02219af86ec6584e5",
	}},
}

// storerForURL builds a filesystem-backed object storer for the named
// fixture repository, the same way every other package test in this
// module does.
func storerForURL(url string) storer.EncodedObjectStorer {
	return filesystem.NewStorage(fixtures.ByURL(url).One().DotGit(), cache.NewObjectLRUDefault())
}

// goneObjectStorer wraps a storer.EncodedObjectStorer and reports a
// chosen hash as missing, without mutating the underlying fixture.
type goneObjectStorer struct {
	storer.EncodedObjectStorer
	gone plumbing.Hash
}

func (s *goneObjectStorer) EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	if h == s.gone {
		return nil, plumbing.ErrObjectNotFound
	}
	return s.EncodedObjectStorer.EncodedObject(t, h)
}

func (s *ReferencesSuite) TestObjectNotFoundError() {
	h1 := plumbing.NewHash("af2d6a6954d532f8ffb47615169c8fdf9d383a1a")
	hParent := plumbing.NewHash("1669dce138d9b841a518c64b10914d88f5e488ea")

	store := &goneObjectStorer{
		EncodedObjectStorer: storerForURL("https://github.com/git-fixtures/basic.git"),
		gone:                hParent,
	}

	commit, err := object.GetCommit(store, h1)
	s.NoError(err)

	_, err = references(commit, "LICENSE")
	s.ErrorIs(err, plumbing.ErrObjectNotFound)
}

func (s *ReferencesSuite) TestRevList() {
	for _, t := range referencesTests {
		store := storerForURL(t.repo)

		commit, err := object.GetCommit(store, plumbing.NewHash(t.commit))
		s.NoError(err)

		revs, err := references(commit, t.path)
		s.NoError(err)
		s.Len(revs, len(t.revs))

		for i := range revs {
			if revs[i].Hash.String() != t.revs[i] {
				want, err := object.GetCommit(store, plumbing.NewHash(t.revs[i]))
				s.NoError(err)
				equiv, err := equivalent(t.path, revs[i], want)
				s.NoError(err)
				if equiv {
					fmt.Printf("cherry-pick detected: %s    %s\n", revs[i].Hash.String(), t.revs[i])
				} else {
					s.Failf("unexpected revision history", "repo=%s, commit=%s, path=%s, \n%s",
						t.repo, t.commit, t.path, compareSideBySide(t.revs, revs))
				}
			}
		}
	}
}

// same length is assumed
func compareSideBySide(a []string, b []*object.Commit) string {
	var buf bytes.Buffer
	buf.WriteString("\t              EXPECTED                                          OBTAINED        ")
	var sep string
	var obt string
	for i := range a {
		obt = b[i].Hash.String()
		if a[i] != obt {
			sep = "------"
		} else {
			sep = "      "
		}
		buf.WriteString(fmt.Sprintf("\n%d", i+1))
		buf.WriteString(sep)
		buf.WriteString(a[i])
		buf.WriteString(sep)
		buf.WriteString(obt)
	}
	return buf.String()
}

var cherryPicks = [...][]string{
	// repo, path, commit a, commit b
	{"https://github.com/jamesob/desk.git", "desk", "094d0e7d5d69141c98a606910ba64786c5565da0", "3f34438d54f4a1ca86db8c0f03ed8eb38f20e22c"},
}

// should detect cherry picks
func (s *ReferencesSuite) TestEquivalent() {
	for _, t := range cherryPicks {
		cs := s.commits(t[0], t[2], t[3])
		equiv, err := equivalent(t[1], cs[0], cs[1])
		s.NoError(err)
		s.True(equiv, "repo=%s, file=%s, a=%s b=%s", t[0], t[1], t[2], t[3])
	}
}

// returns the commits from a slice of hashes
func (s *ReferencesSuite) commits(repo string, hs ...string) []*object.Commit {
	store := storerForURL(repo)

	result := make([]*object.Commit, 0, len(hs))
	for _, h := range hs {
		commit, err := object.GetCommit(store, plumbing.NewHash(h))
		s.NoError(err)

		result = append(result, commit)
	}

	return result
}
