package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChunkType distinguishes between the three kinds of content a Chunk
// can hold within a FilePatch.
type ChunkType int

const (
	Equal ChunkType = iota
	Add
	Delete
)

// Chunk is a portion of a file's content that was either left
// untouched, added, or removed by a change.
type Chunk struct {
	Content string
	Type    ChunkType
}

// FilePatch represents the necessary steps to transform one file to
// another, containing all the changes of a Patch for a single file.
type FilePatch struct {
	From, To *ChangeEntry
	Chunks   []Chunk
}

// Patch is a collection of FilePatch, equivalent to the output of
// "git diff" between two trees.
type Patch struct {
	message     string
	filePatches []FilePatch
}

// Message returns the commit message attached to the Patch, if any.
func (p *Patch) Message() string {
	return p.message
}

// FilePatches returns the list of changes per file contained in the
// Patch.
func (p *Patch) FilePatches() []FilePatch {
	return p.filePatches
}

// Stats returns per-file line addition/deletion counts for the Patch.
func (p *Patch) Stats() FileStats {
	var result FileStats
	for _, fp := range p.filePatches {
		name := fp.name()
		if name == "" {
			continue
		}

		stat := FileStat{Name: name}
		for _, c := range fp.Chunks {
			lines := strings.Count(c.Content, "\n")
			if !strings.HasSuffix(c.Content, "\n") && c.Content != "" {
				lines++
			}

			switch c.Type {
			case Add:
				stat.Addition += lines
			case Delete:
				stat.Deletion += lines
			}
		}

		result = append(result, stat)
	}

	return result
}

func (fp *FilePatch) name() string {
	switch {
	case fp.To != nil && fp.To.Name != "":
		if fp.From != nil && fp.From.Name != "" && fp.From.Name != fp.To.Name {
			return fmt.Sprintf("%s => %s", fp.From.Name, fp.To.Name)
		}
		return fp.To.Name
	case fp.From != nil:
		return fp.From.Name
	default:
		return ""
	}
}

// String returns the Patch rendered as unified diff text.
func (p *Patch) String() string {
	var b bytes.Buffer
	_ = p.Encode(&b)
	return b.String()
}

// Encode writes the Patch in unified diff format to w.
func (p *Patch) Encode(w io.Writer) error {
	for _, fp := range p.filePatches {
		from, to := "/dev/null", "/dev/null"
		if fp.From != nil {
			from = "a/" + fp.From.Name
		}
		if fp.To != nil {
			to = "b/" + fp.To.Name
		}

		if _, err := fmt.Fprintf(w, "diff --git %s %s\n", from, to); err != nil {
			return err
		}

		switch {
		case fp.From == nil:
			if _, err := fmt.Fprintf(w, "new file mode %s\n", fp.To.TreeEntry.Mode); err != nil {
				return err
			}
		case fp.To == nil:
			if _, err := fmt.Fprintf(w, "deleted file mode %s\n", fp.From.TreeEntry.Mode); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", from, to); err != nil {
			return err
		}

		for _, c := range fp.Chunks {
			prefix := " "
			switch c.Type {
			case Add:
				prefix = "+"
			case Delete:
				prefix = "-"
			}

			for _, line := range strings.Split(strings.TrimSuffix(c.Content, "\n"), "\n") {
				if _, err := fmt.Fprintf(w, "%s%s\n", prefix, line); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// getPatchContext computes the Patch that transforms fromTree into
// toTree, attaching message to the result.
func getPatchContext(ctx context.Context, message string, fromTree, toTree *Tree) (*Patch, error) {
	changes, err := DiffTree(fromTree, toTree)
	if err != nil {
		return nil, err
	}

	patch := &Patch{message: message}
	for _, ch := range changes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fp, err := filePatch(ch)
		if err != nil {
			return nil, err
		}

		patch.filePatches = append(patch.filePatches, fp)
	}

	return patch, nil
}

// getPatch is a convenience wrapper building a Patch from loose
// Changes, used by callers that already hold the set of changes
// (e.g. a single ChangeEntry pair in tests).
func getPatch(message string, changes ...*Change) (*Patch, error) {
	patch := &Patch{message: message}
	for _, ch := range changes {
		fp, err := filePatch(ch)
		if err != nil {
			return nil, err
		}

		patch.filePatches = append(patch.filePatches, fp)
	}

	return patch, nil
}

func filePatch(c *Change) (FilePatch, error) {
	from, to, err := c.Files()
	if err != nil {
		return FilePatch{}, err
	}

	fp := FilePatch{}
	if c.From != empty {
		e := c.From
		fp.From = &e
	}
	if c.To != empty {
		e := c.To
		fp.To = &e
	}

	fromContent, fIsBinary, err := fileContent(from)
	if err != nil {
		return FilePatch{}, err
	}
	toContent, tIsBinary, err := fileContent(to)
	if err != nil {
		return FilePatch{}, err
	}

	if fIsBinary || tIsBinary {
		return fp, nil
	}

	fp.Chunks = diffContent(fromContent, toContent)

	return fp, nil
}

func fileContent(f *File) (string, bool, error) {
	if f == nil {
		return "", false, nil
	}

	isBinary, err := f.IsBinary()
	if err != nil {
		return "", false, err
	}
	if isBinary {
		return "", true, nil
	}

	content, err := f.Contents()
	if err != nil {
		return "", false, err
	}

	return content, false, nil
}

func diffContent(from, to string) []Chunk {
	if from == to {
		if from == "" {
			return nil
		}
		return []Chunk{{Content: from, Type: Equal}}
	}

	dmp := diffmatchpatch.New()

	fromRunes, toRunes, lineArray := dmp.DiffLinesToRunes(from, to)
	wDiffs := dmp.DiffMainRunes(fromRunes, toRunes, false)
	diffs := dmp.DiffCharsToLines(wDiffs, lineArray)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]Chunk, 0, len(diffs))
	for _, d := range diffs {
		var t ChunkType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			t = Add
		case diffmatchpatch.DiffDelete:
			t = Delete
		default:
			t = Equal
		}

		chunks = append(chunks, Chunk{Content: d.Text, Type: t})
	}

	return chunks
}

// FileStat describes the number of line additions/deletions a single
// file received as part of a Patch.
type FileStat struct {
	Name     string
	Addition int
	Deletion int
}

// FileStats is a collection of FileStat, one per modified file.
type FileStats []FileStat

const statsLineLength = 80

// String renders the FileStat in the same style as "git diff --stat".
func (fs FileStat) String() string {
	return FileStats{fs}.String()
}

// String renders the FileStats in the same style as "git diff --stat".
func (fs FileStats) String() string {
	var padLength, maxChanges int
	for _, stat := range fs {
		if len(stat.Name) > padLength {
			padLength = len(stat.Name)
		}
		if changes := stat.Addition + stat.Deletion; changes > maxChanges {
			maxChanges = changes
		}
	}

	scale := 1.0
	if maxChanges > statsLineLength {
		scale = float64(maxChanges) / float64(statsLineLength)
	}

	var b strings.Builder
	for _, stat := range fs {
		addn := int(float64(stat.Addition) / scale)
		deln := int(float64(stat.Deletion) / scale)

		fmt.Fprintf(&b, " %-*s | %d %s%s\n",
			padLength, stat.Name, stat.Addition+stat.Deletion,
			strings.Repeat("+", addn), strings.Repeat("-", deln))
	}

	return b.String()
}
