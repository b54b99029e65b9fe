// Package idxfile implements encoding and decoding of packfile .idx
// files (the standard v2 on-disk index that maps object hashes and
// CRC32 checksums to byte offsets within a sibling packfile).
package idxfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sort"

	"github.com/gitobj/gitobj/plumbing"
)

const (
	fanout    = 256
	noMapping = -1

	// VersionSupported is the only idx version this decoder/encoder
	// understands.
	VersionSupported = 2
)

var idxHeader = []byte{255, 't', 'O', 'c'}

// ErrUnsupportedVersion is returned when an idx file declares a
// version other than VersionSupported.
var ErrUnsupportedVersion = errors.New("unsupported idx version")

// Index is satisfied by anything that can resolve hashes, offsets and
// CRC32 values for the objects in a single packfile.
type Index interface {
	Contains(h plumbing.Hash) (bool, error)
	FindOffset(h plumbing.Hash) (int64, error)
	FindCRC32(h plumbing.Hash) (uint32, error)
	FindHash(offset int64) (plumbing.Hash, error)
	Count() (int64, error)
	Entries() (EntryIter, error)
	EntriesByOffset() (EntryIter, error)
}

// Entry describes a single object as recorded in an idx file.
type Entry struct {
	Hash   plumbing.Hash
	Offset uint64
	CRC32  uint32
}

// EntryIter iterates over the Entry values of an Index.
type EntryIter interface {
	Next() (*Entry, error)
	Close() error
}

// MemoryIndex is an in-memory representation of a pack idx file,
// organized by fanout bucket to match the on-disk layout.
type MemoryIndex struct {
	Version uint32

	Fanout        [fanout]uint32
	FanoutMapping [fanout]int

	Names    [][]byte
	CRC32    [][]byte
	Offset32 [][]byte
	Offset64 []byte

	PackfileChecksum plumbing.Hash
	IdxChecksum      bytes.Buffer

	hashSize    int
	offsetCache offsetHashCache
}

// NewMemoryIndex returns an empty index sized for hashes of hashSize
// bytes (20 for SHA-1, 32 for SHA-256).
func NewMemoryIndex(hashSize int) *MemoryIndex {
	return &MemoryIndex{hashSize: hashSize}
}

func (idx *MemoryIndex) bucketRange(k int) (lo, hi uint32) {
	if k > 0 {
		lo = idx.Fanout[k-1]
	}
	hi = idx.Fanout[k]
	return
}

func (idx *MemoryIndex) nameAt(pos int) plumbing.Hash {
	first := sort.Search(fanout, func(k int) bool { return idx.Fanout[k] > uint32(pos) })

	bucket := idx.FanoutMapping[first]
	lo, _ := idx.bucketRange(first)
	within := pos - int(lo)

	var h plumbing.Hash
	h.ResetBySize(idx.hashSize)
	_, _ = h.Write(idx.Names[bucket][within*idx.hashSize : (within+1)*idx.hashSize])
	return h
}

func (idx *MemoryIndex) crc32At(pos int) uint32 {
	first := sort.Search(fanout, func(k int) bool { return idx.Fanout[k] > uint32(pos) })
	bucket := idx.FanoutMapping[first]
	lo, _ := idx.bucketRange(first)
	within := pos - int(lo)

	return binary.BigEndian.Uint32(idx.CRC32[bucket][within*4 : (within+1)*4])
}

func (idx *MemoryIndex) offsetAt(pos int) uint64 {
	first := sort.Search(fanout, func(k int) bool { return idx.Fanout[k] > uint32(pos) })
	bucket := idx.FanoutMapping[first]
	lo, _ := idx.bucketRange(first)
	within := pos - int(lo)

	off32 := binary.BigEndian.Uint32(idx.Offset32[bucket][within*4 : (within+1)*4])
	if uint64(off32)&Is64BitsMask == 0 {
		return uint64(off32)
	}

	loIndex := int(uint64(off32) &^ Is64BitsMask)
	return binary.BigEndian.Uint64(idx.Offset64[loIndex*8 : (loIndex+1)*8])
}

// Contains implements Index.
func (idx *MemoryIndex) Contains(h plumbing.Hash) (bool, error) {
	_, err := idx.FindOffset(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return false, nil
	}
	return err == nil, err
}

// FindOffset implements Index.
func (idx *MemoryIndex) FindOffset(h plumbing.Hash) (int64, error) {
	k := int(h.Bytes()[0])
	lo, hi := idx.bucketRange(k)

	pos, found := idx.searchHash(int(lo), int(hi), h)
	if !found {
		return 0, plumbing.ErrObjectNotFound
	}

	return int64(idx.offsetAt(pos)), nil
}

// FindCRC32 implements Index.
func (idx *MemoryIndex) FindCRC32(h plumbing.Hash) (uint32, error) {
	k := int(h.Bytes()[0])
	lo, hi := idx.bucketRange(k)

	pos, found := idx.searchHash(int(lo), int(hi), h)
	if !found {
		return 0, plumbing.ErrObjectNotFound
	}

	return idx.crc32At(pos), nil
}

func (idx *MemoryIndex) searchHash(lo, hi int, want plumbing.Hash) (int, bool) {
	n := hi - lo
	pos := lo + sort.Search(n, func(i int) bool {
		return bytes.Compare(idx.nameAt(lo+i).Bytes(), want.Bytes()) >= 0
	})

	if pos < hi && idx.nameAt(pos) == want {
		return pos, true
	}
	return 0, false
}

// FindHash implements Index. Building the reverse map is O(n) the
// first time it's needed and cached afterwards.
func (idx *MemoryIndex) FindHash(offset int64) (plumbing.Hash, error) {
	if err := idx.offsetCache.BuildOnce(idx.buildOffsetHash); err != nil {
		return plumbing.ZeroHash, err
	}

	h, ok := idx.offsetCache.Get(offset)
	if !ok {
		return plumbing.ZeroHash, plumbing.ErrObjectNotFound
	}
	return h, nil
}

func (idx *MemoryIndex) buildOffsetHash() (map[int64]plumbing.Hash, error) {
	count := int(idx.Fanout[fanout-1])
	offsetHash := make(map[int64]plumbing.Hash, count)
	for i := 0; i < count; i++ {
		offsetHash[int64(idx.offsetAt(i))] = idx.nameAt(i)
	}
	return offsetHash, nil
}

// Count implements Index.
func (idx *MemoryIndex) Count() (int64, error) {
	return int64(idx.Fanout[fanout-1]), nil
}

// Entries implements Index, iterating in hash order.
func (idx *MemoryIndex) Entries() (EntryIter, error) {
	return &memoryEntryIter{idx: idx, count: int(idx.Fanout[fanout-1])}, nil
}

// EntriesByOffset implements Index, iterating in packfile offset order.
func (idx *MemoryIndex) EntriesByOffset() (EntryIter, error) {
	count := int(idx.Fanout[fanout-1])
	entries := make(entriesByOffset, count)
	for i := 0; i < count; i++ {
		entries[i] = &Entry{Hash: idx.nameAt(i), Offset: idx.offsetAt(i), CRC32: idx.crc32At(i)}
	}

	sort.Sort(entries)
	return &idxfileEntryOffsetIter{entries: entries}, nil
}

type memoryEntryIter struct {
	idx   *MemoryIndex
	pos   int
	count int
}

func (i *memoryEntryIter) Next() (*Entry, error) {
	if i.pos >= i.count {
		return nil, io.EOF
	}

	e := &Entry{Hash: i.idx.nameAt(i.pos), Offset: i.idx.offsetAt(i.pos), CRC32: i.idx.crc32At(i.pos)}
	i.pos++
	return e, nil
}

func (i *memoryEntryIter) Close() error { i.pos = i.count; return nil }

type entriesByOffset []*Entry

func (e entriesByOffset) Len() int           { return len(e) }
func (e entriesByOffset) Less(i, j int) bool { return e[i].Offset < e[j].Offset }
func (e entriesByOffset) Swap(i, j int)      { e[i], e[j] = e[j], e[i] }

type idxfileEntryOffsetIter struct {
	entries entriesByOffset
	pos     int
}

func (i *idxfileEntryOffsetIter) Next() (*Entry, error) {
	if i.pos >= len(i.entries) {
		return nil, io.EOF
	}
	e := i.entries[i.pos]
	i.pos++
	return e, nil
}

func (i *idxfileEntryOffsetIter) Close() error { i.pos = len(i.entries); return nil }

// Decoder reads MemoryIndex structs from an idx file stream.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a new decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r}
}

// Decode fills idx (created via NewMemoryIndex) from the decoder's
// stream.
func (d *Decoder) Decode(idx *MemoryIndex) error {
	header := make([]byte, 8)
	if _, err := io.ReadFull(d.r, header); err != nil {
		return err
	}
	if !bytes.Equal(header[:4], idxHeader) {
		return ErrUnsupportedVersion
	}

	idx.Version = binary.BigEndian.Uint32(header[4:])
	if idx.Version != VersionSupported {
		return ErrUnsupportedVersion
	}

	fanoutBuf := make([]byte, fanout*4)
	if _, err := io.ReadFull(d.r, fanoutBuf); err != nil {
		return err
	}
	for i := 0; i < fanout; i++ {
		idx.Fanout[i] = binary.BigEndian.Uint32(fanoutBuf[i*4 : (i+1)*4])
	}

	count := int(idx.Fanout[fanout-1])

	names := make([]byte, count*idx.hashSize)
	if count > 0 {
		if _, err := io.ReadFull(d.r, names); err != nil {
			return err
		}
	}

	crcs := make([]byte, count*4)
	if count > 0 {
		if _, err := io.ReadFull(d.r, crcs); err != nil {
			return err
		}
	}

	offsets32 := make([]byte, count*4)
	if count > 0 {
		if _, err := io.ReadFull(d.r, offsets32); err != nil {
			return err
		}
	}

	large := 0
	for i := 0; i < count; i++ {
		if binary.BigEndian.Uint32(offsets32[i*4:(i+1)*4])&Is64BitsMask != 0 {
			large++
		}
	}
	if large > 0 {
		idx.Offset64 = make([]byte, large*8)
		if _, err := io.ReadFull(d.r, idx.Offset64); err != nil {
			return err
		}
	}

	for i := range idx.FanoutMapping {
		idx.FanoutMapping[i] = noMapping
	}

	bucket := -1
	for k := 0; k < fanout; k++ {
		lo, hi := idx.bucketRange(k)
		if hi <= lo {
			continue
		}

		bucket++
		idx.FanoutMapping[k] = bucket

		idx.Names = append(idx.Names, names[lo*uint32(idx.hashSize):hi*uint32(idx.hashSize)])
		idx.CRC32 = append(idx.CRC32, crcs[lo*4:hi*4])
		idx.Offset32 = append(idx.Offset32, offsets32[lo*4:hi*4])
	}

	var pk, sumBuf [32]byte
	if _, err := io.ReadFull(d.r, pk[:idx.hashSize]); err != nil {
		return err
	}
	idx.PackfileChecksum.ResetBySize(idx.hashSize)
	_, _ = idx.PackfileChecksum.Write(pk[:idx.hashSize])

	if _, err := io.ReadFull(d.r, sumBuf[:idx.hashSize]); err != nil {
		return err
	}
	idx.IdxChecksum.Write(sumBuf[:idx.hashSize])

	return nil
}
