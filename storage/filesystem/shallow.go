package filesystem

import (
	"bufio"
	"os"
	"strings"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/storage/filesystem/dotgit"
	"github.com/gitobj/gitobj/utils/ioutil"
)

// ShallowStorage reads and writes the list of shallow commits recorded in
// .git/shallow.
type ShallowStorage struct {
	dir *dotgit.DotGit
}

// SetShallow replaces the repository's shallow-commit list with commits.
func (s *ShallowStorage) SetShallow(commits []plumbing.Hash) (err error) {
	f, err := s.dir.ShallowFile()
	if err != nil {
		return err
	}
	defer ioutil.CheckClose(f, &err)

	if err := f.Truncate(0); err != nil {
		return err
	}

	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	for _, h := range commits {
		if _, err := f.Write([]byte(h.String() + "\n")); err != nil {
			return err
		}
	}

	return nil
}

// Shallow returns the repository's shallow-commit list.
func (s *ShallowStorage) Shallow() (commits []plumbing.Hash, err error) {
	f, err := s.dir.ShallowFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer ioutil.CheckClose(f, &err)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		commits = append(commits, plumbing.NewHash(line))
	}

	return commits, scanner.Err()
}
