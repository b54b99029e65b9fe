package idxfile

import (
	"bytes"
	"math"
	"sort"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/utils/binary"
)

type object struct {
	hash   plumbing.Hash
	offset int64
	crc    uint32
}

type objects []object

// Writer implements a packfile Observer interface and is used to generate
// indexes.
type Writer struct {
	count    uint32
	checksum plumbing.Hash
	objects  objects
}

// Index returns a filled MemoryIndex with the information filled by
// the observer callbacks.
func (w *Writer) Index() (*MemoryIndex, error) {
	idx := NewMemoryIndex(w.checksum.Size())
	sort.Sort(w.objects)

	// unmap all fans by default
	for i := range idx.FanoutMapping {
		idx.FanoutMapping[i] = noMapping
	}

	buf := new(bytes.Buffer)

	last := -1
	bucket := -1
	for i, o := range w.objects {
		fan := o.hash.Bytes()[0]

		// fill the gaps between fans
		for j := last + 1; j < int(fan); j++ {
			idx.Fanout[j] = uint32(i)
		}

		// update the number of objects for this position
		idx.Fanout[fan] = uint32(i + 1)

		// we move from one bucket to another, update counters and allocate
		// memory
		if last != int(fan) {
			bucket++
			idx.FanoutMapping[fan] = bucket
			last = int(fan)

			idx.Names = append(idx.Names, make([]byte, 0))
			idx.Offset32 = append(idx.Offset32, make([]byte, 0))
			idx.CRC32 = append(idx.CRC32, make([]byte, 0))
		}

		idx.Names[bucket] = append(idx.Names[bucket], o.hash.Bytes()...)

		if o.offset > math.MaxInt32 {
			loIndex := len(idx.Offset64) / 8
			buf.Truncate(0)
			_ = binary.Write(buf, uint64(o.offset))
			idx.Offset64 = append(idx.Offset64, buf.Bytes()...)

			buf.Truncate(0)
			_ = binary.WriteUint32(buf, uint32(loIndex)|uint32(Is64BitsMask))
			idx.Offset32[bucket] = append(idx.Offset32[bucket], buf.Bytes()...)
		} else {
			buf.Truncate(0)
			_ = binary.WriteUint32(buf, uint32(o.offset))
			idx.Offset32[bucket] = append(idx.Offset32[bucket], buf.Bytes()...)
		}

		buf.Truncate(0)
		_ = binary.WriteUint32(buf, o.crc)
		idx.CRC32[bucket] = append(idx.CRC32[bucket], buf.Bytes()...)
	}

	for j := last + 1; j < fanout; j++ {
		idx.Fanout[j] = uint32(len(w.objects))
	}

	idx.PackfileChecksum = w.checksum

	return idx, nil
}

// Add appends new object data.
func (w *Writer) Add(h plumbing.Hash, pos int64, crc uint32) {
	w.objects = append(w.objects, object{h, pos, crc})
}

// OnHeader implements packfile.Observer interface.
func (w *Writer) OnHeader(count uint32) error {
	w.count = count
	w.objects = make(objects, 0, count)
	return nil
}

// OnInflatedObjectHeader implements packfile.Observer interface.
func (w *Writer) OnInflatedObjectHeader(t plumbing.ObjectType, objSize int64, pos int64) error {
	return nil
}

// OnInflatedObjectContent implements packfile.Observer interface.
func (w *Writer) OnInflatedObjectContent(h plumbing.Hash, pos int64, crc uint32, content []byte) error {
	w.Add(h, pos, crc)
	return nil
}

// OnFooter implements packfile.Observer interface.
func (w *Writer) OnFooter(h plumbing.Hash) error {
	w.checksum = h
	return nil
}

func (o objects) Len() int {
	return len(o)
}

func (o objects) Less(i int, j int) bool {
	return bytes.Compare(o[i].hash.Bytes(), o[j].hash.Bytes()) < 0
}

func (o objects) Swap(i int, j int) {
	o[i], o[j] = o[j], o[i]
}
