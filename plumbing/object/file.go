package object

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/filemode"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// File represents a file tracked in a Tree: the blob that holds its
// content, together with the path and mode it was found under.
type File struct {
	// Name is the path of the file, relative to the root of the tree
	// it was reached from.
	Name string
	// Mode is the file's mode.
	Mode filemode.FileMode
	// Hash is the hash of the blob backing the file's content.
	Hash plumbing.Hash

	// Blob holds the file's content.
	Blob Blob
}

// NewFile returns a File wrapping blob, under the given name and mode.
func NewFile(name string, m filemode.FileMode, b *Blob) *File {
	return &File{
		Name: name,
		Mode: m,
		Hash: b.Hash,
		Blob: *b,
	}
}

// ID returns the hash of the file's blob.
func (f *File) ID() plumbing.Hash {
	return f.Hash
}

// Size returns the plaintext size of the file's content.
func (f *File) Size() int64 {
	return f.Blob.Size
}

// IsBinary returns whether the file's contents contain a NUL byte
// within the first 8000 bytes, the same heuristic git itself uses.
func (f *File) IsBinary() (bool, error) {
	reader, err := f.Blob.Reader()
	if err != nil {
		return false, err
	}
	defer func() { _ = reader.Close() }()

	return isBinary(reader)
}

// Contents returns the full content of the file as a string.
func (f *File) Contents() (string, error) {
	reader, err := f.Blob.Reader()
	if err != nil {
		return "", err
	}
	defer func() { _ = reader.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Lines returns the contents of the file split by lines.
func (f *File) Lines() ([]string, error) {
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}

	splits := strings.Split(content, "\n")
	if len(splits) > 0 && splits[len(splits)-1] == "" {
		splits = splits[:len(splits)-1]
	}

	return splits, nil
}

const sniffLen = 8000

// isBinary detects whether r contains a NUL byte within its first
// 8000 bytes, git's own heuristic for telling binary files from text.
func isBinary(r io.Reader) (bool, error) {
	reader := bufio.NewReader(io.LimitReader(r, sniffLen))

	for {
		b, err := reader.ReadByte()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		if b == 0 {
			return true, nil
		}
	}
}

// FileIter provides an iterator over the files in a tree, recursing
// into nested trees and skipping submodule links.
type FileIter struct {
	s     storer.EncodedObjectStorer
	w     *TreeWalker
	empty plumbing.Hash
}

// NewFileIter takes a storer.EncodedObjectStorer and a Tree and
// returns a *FileIter that iterates over all the files contained in
// the tree, recursively.
func NewFileIter(s storer.EncodedObjectStorer, t *Tree) *FileIter {
	return &FileIter{s: s, w: NewTreeWalker(t, true, nil)}
}

// Next moves the iterator to the next file and returns it, or returns
// io.EOF once every file has been visited.
func (iter *FileIter) Next() (*File, error) {
	for {
		name, entry, err := iter.w.Next()
		if err != nil {
			return nil, err
		}

		if entry.Mode == filemode.Dir || entry.Mode == filemode.Submodule {
			continue
		}

		blob, err := GetBlob(iter.s, entry.Hash)
		if err != nil {
			return nil, err
		}

		return NewFile(name, entry.Mode, blob), nil
	}
}

// ForEach calls f for every file in the iterator, until it is
// exhausted, f returns storer.ErrStop, or f returns a non-nil error.
func (iter *FileIter) ForEach(f func(*File) error) error {
	for {
		file, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f(file); err != nil {
			if err == storer.ErrStop {
				return nil
			}

			return err
		}
	}
}

// Close releases the resources held by the iterator.
func (iter *FileIter) Close() {
	iter.w.Close()
}
