package object

import (
	"bufio"
	"bytes"
	"hash/fnv"
	"io"
	"path/filepath"
	"sort"

	"github.com/gitobj/gitobj/plumbing/filemode"
	"github.com/gitobj/gitobj/utils/merkletrie"
)

// DefaultRenameScore is the similarity percentage, out of 100, a pair
// of a deleted and an added file must reach before they are reported
// as a rename rather than as a separate delete and add.
const DefaultRenameScore = 60

// DefaultRenameLimit caps the number of add/delete candidates content
// similarity detection will compare pairwise; above it, detection is
// skipped entirely rather than paying its quadratic cost.
const DefaultRenameLimit = 400

// DiffTreeOptions configures rename detection over a set of Changes.
type DiffTreeOptions struct {
	// DetectRenames enables rename detection. Present for parity with
	// callers that build this struct positionally; DetectRenames
	// itself only runs when asked to, so this field is informational.
	DetectRenames bool
	// RenameScore is the minimum similarity percentage, out of 100,
	// required to treat a delete/add pair as a rename. Zero uses
	// DefaultRenameScore.
	RenameScore int
	// RenameLimit caps the number of add/delete candidates considered
	// for content similarity. Zero uses DefaultRenameLimit.
	RenameLimit int
}

// DetectRenames re-pairs the deletes and adds in changes into renames
// wherever the deleted and added blobs are identical or similar enough
// to clear opts.RenameScore (or DefaultRenameScore if opts is nil).
// Changes that aren't paired are returned unmodified, in their
// original relative order; renames are appended after them.
func DetectRenames(changes Changes, opts *DiffTreeOptions) (Changes, error) {
	renameScore := DefaultRenameScore
	renameLimit := DefaultRenameLimit
	if opts != nil {
		if opts.RenameScore != 0 {
			renameScore = opts.RenameScore
		}
		if opts.RenameLimit != 0 {
			renameLimit = opts.RenameLimit
		}
	}

	d := &renameDetector{renameScore: renameScore, renameLimit: renameLimit}

	var result Changes
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, err
		}

		switch action {
		case merkletrie.Insert:
			d.added = append(d.added, c)
		case merkletrie.Delete:
			d.deleted = append(d.deleted, c)
		default:
			result = append(result, c)
		}
	}

	d.detectExactRenames()

	renames, err := d.detectContentRenames()
	if err != nil {
		return nil, err
	}

	for _, c := range d.added {
		if c != nil {
			result = append(result, c)
		}
	}
	for _, c := range d.deleted {
		if c != nil {
			result = append(result, c)
		}
	}

	return append(result, renames...), nil
}

// renameDetector pairs the deletes and adds of a diff into renames.
// Entries consumed by a match are nilled out of added/deleted in
// place, rather than removed, so indexes stay stable while matching.
type renameDetector struct {
	added   []*Change
	deleted []*Change

	renameScore int
	renameLimit int
}

// detectExactRenames pairs every added/deleted blob whose content hash
// is identical, preferring the closest path name when more than one
// candidate on either side ties.
func (d *renameDetector) detectExactRenames() {
	byHash := make(map[string][]int)
	for i, del := range d.deleted {
		if del == nil {
			continue
		}
		byHash[del.From.TreeEntry.Hash.String()] = append(byHash[del.From.TreeEntry.Hash.String()], i)
	}

	for ai, add := range d.added {
		if add == nil {
			continue
		}

		candidates := byHash[add.To.TreeEntry.Hash.String()]
		best := -1
		bestScore := -1
		for _, di := range candidates {
			del := d.deleted[di]
			if del == nil {
				continue
			}
			score := nameSimilarityScore(del.From.Name, add.To.Name)
			if score > bestScore {
				bestScore = score
				best = di
			}
		}

		if best >= 0 {
			d.rename(best, ai)
		}
	}
}

// pairScore is a candidate rename pairing and the similarity score
// that produced it, used to settle matches in descending order of
// confidence.
type pairScore struct {
	addIdx, delIdx int
	score          int
}

// detectContentRenames pairs the add/delete entries left after exact
// matching by the similarity of their blob contents, greedily
// accepting the highest-scoring pair first so no file is claimed by
// more than one match.
func (d *renameDetector) detectContentRenames() (Changes, error) {
	var remainingAdds, remainingDeletes []int
	for i, c := range d.added {
		if c != nil {
			remainingAdds = append(remainingAdds, i)
		}
	}
	for i, c := range d.deleted {
		if c != nil {
			remainingDeletes = append(remainingDeletes, i)
		}
	}

	if len(remainingAdds) == 0 || len(remainingDeletes) == 0 {
		return nil, nil
	}

	if len(remainingAdds)*len(remainingDeletes) > d.renameLimit*d.renameLimit {
		return nil, nil
	}

	addIdx := make(map[int]*similarityIndex, len(remainingAdds))
	for _, ai := range remainingAdds {
		idx, err := fileSimilarityIndexFrom(d.added[ai], true)
		if err != nil {
			return nil, err
		}
		addIdx[ai] = idx
	}

	delIdx := make(map[int]*similarityIndex, len(remainingDeletes))
	for _, di := range remainingDeletes {
		idx, err := fileSimilarityIndexFrom(d.deleted[di], false)
		if err != nil {
			return nil, err
		}
		delIdx[di] = idx
	}

	var candidates []pairScore
	for _, ai := range remainingAdds {
		addMode := d.added[ai].To.TreeEntry.Mode
		for _, di := range remainingDeletes {
			delMode := d.deleted[di].From.TreeEntry.Mode
			if !sameFileish(addMode, delMode) {
				continue
			}

			score := addIdx[ai].score(delIdx[di], 100)
			if score >= d.renameScore {
				candidates = append(candidates, pairScore{addIdx: ai, delIdx: di, score: score})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var renames Changes
	for _, cand := range candidates {
		if d.added[cand.addIdx] == nil || d.deleted[cand.delIdx] == nil {
			continue
		}
		renames = append(renames, d.rename(cand.delIdx, cand.addIdx))
	}

	return renames, nil
}

// rename consumes deleted[di] and added[ai], replacing them with a
// single Change joining the deletion's From to the addition's To, and
// returns that Change.
func (d *renameDetector) rename(di, ai int) *Change {
	del, add := d.deleted[di], d.added[ai]
	d.deleted[di] = nil
	d.added[ai] = nil

	return &Change{From: del.From, To: add.To}
}

func sameFileish(a, b filemode.FileMode) bool {
	isFile := func(m filemode.FileMode) bool {
		return m == filemode.Regular || m == filemode.Executable
	}
	return isFile(a) && isFile(b)
}

// fileSimilarityIndexFrom builds a similarity index for whichever side
// of the change is populated: the added (to) side when useTo is true,
// otherwise the deleted (from) side.
func fileSimilarityIndexFrom(c *Change, useTo bool) (*similarityIndex, error) {
	from, to, err := c.Files()
	if err != nil {
		return nil, err
	}

	f := from
	if useTo {
		f = to
	}

	return fileSimilarityIndex(f)
}

// nameSimilarityScore scores how similar two paths are, out of 100,
// weighting matching leading and trailing path segments more than the
// segments that differ between them. It is used only to break ties
// between equally-scoring content matches, never to gate a rename on
// its own.
func nameSimilarityScore(a, b string) int {
	aDir, aBase := filepath.Split(a)
	bDir, bBase := filepath.Split(b)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}

	baseScore := commonRunScore(aBase, bBase)
	dirScore := commonRunScore(aDir, bDir)

	baseWeight := len(aBase)
	if len(bBase) > baseWeight {
		baseWeight = len(bBase)
	}
	dirWeight := len(aDir)
	if len(bDir) > dirWeight {
		dirWeight = len(bDir)
	}

	total := baseWeight + dirWeight
	if total == 0 {
		return 100
	}

	return (baseScore*baseWeight + dirScore*dirWeight) / total
}

// commonRunScore scores the fraction of a and b, out of 100, covered
// by their common leading and trailing character runs.
func commonRunScore(a, b string) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}

	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	prefix := 0
	for prefix < minLen && a[prefix] == b[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < minLen-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	return (prefix + suffix) * 100 / maxLen
}

// similarityIndex is a content fingerprint used to estimate how
// similar two blobs are without diffing them line by line. Content is
// split into lines (or fixed-size blocks for binary content), each
// hashed with FNV-1a; common() sums the bytes shared between two
// indexes' matching hash buckets.
type similarityIndex struct {
	hashes    []hashedContent
	numHashes int
	fileSize  uint64
}

// hashedContent is one bucket of a similarityIndex: the hash of a
// chunk of content, and the number of bytes of that chunk seen.
type hashedContent struct {
	hash  int
	bytes uint64
}

func (h hashedContent) key() int      { return h.hash }
func (h hashedContent) count() uint64 { return h.bytes }

func newSimilarityIndex() *similarityIndex {
	return &similarityIndex{}
}

const similarityBlockSize = 64

// hashContent populates idx from r. Binary content (isBinary true) is
// chunked into fixed-size blocks; text content is split into lines,
// with a trailing '\r' stripped from both the hashed bytes and the
// byte count so CRLF and LF line endings compare as equal content.
func (idx *similarityIndex) hashContent(r io.Reader, size int64, isBinary bool) error {
	counts := make(map[int]uint64)
	var total uint64

	if isBinary {
		buf := make([]byte, similarityBlockSize)
		for {
			n, err := io.ReadFull(r, buf)
			if n > 0 {
				key := hashChunk(buf[:n])
				counts[key] += uint64(n)
				total += uint64(n)
			}
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			if err != nil {
				return err
			}
		}
	} else {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadBytes('\n')
			if len(line) > 0 {
				if bytes.IndexByte(line, '\r') != -1 {
					line = bytes.ReplaceAll(line, []byte{'\r'}, nil)
				}
				key := hashChunk(line)
				counts[key] += uint64(len(line))
				total += uint64(len(line))
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
		}
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	idx.hashes = make([]hashedContent, len(keys))
	for i, k := range keys {
		idx.hashes[i] = hashedContent{hash: k, bytes: counts[k]}
	}
	idx.numHashes = len(idx.hashes)
	idx.fileSize = total
	_ = size

	return nil
}

func hashChunk(b []byte) int {
	h := fnv.New32a()
	_, _ = h.Write(b)
	return int(h.Sum32())
}

// common returns the number of content bytes idx and dst have in
// common, taking the smaller of the two byte counts whenever both
// sides carry the same content hash.
func (idx *similarityIndex) common(dst *similarityIndex) uint64 {
	var i, j int
	var common uint64
	for i < len(idx.hashes) && j < len(dst.hashes) {
		a, b := idx.hashes[i], dst.hashes[j]
		switch {
		case a.key() == b.key():
			if a.count() < b.count() {
				common += a.count()
			} else {
				common += b.count()
			}
			i++
			j++
		case a.key() < b.key():
			i++
		default:
			j++
		}
	}
	return common
}

// score returns how similar idx and dst are, on a scale of 0 to
// maxScore.
func (idx *similarityIndex) score(dst *similarityIndex, maxScore int) int {
	maxSize := idx.fileSize
	if dst.fileSize > maxSize {
		maxSize = dst.fileSize
	}
	if maxSize == 0 {
		return maxScore
	}

	return int(idx.common(dst) * uint64(maxScore) / maxSize)
}

// fileSimilarityIndex builds a similarityIndex from f's content.
func fileSimilarityIndex(f *File) (*similarityIndex, error) {
	idx := newSimilarityIndex()

	isBin, err := f.IsBinary()
	if err != nil {
		return nil, err
	}

	r, err := f.Blob.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	if err := idx.hashContent(r, f.Size(), isBin); err != nil {
		return nil, err
	}

	return idx, nil
}
