package packfile

import (
	"compress/zlib"
	"crypto/sha1"
	"fmt"
	"io"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
	"github.com/gitobj/gitobj/utils/binary"
)

// Encoder gets the data from a storer and writes it to a writer in PACK
// format.
type Encoder struct {
	storer       storer.EncodedObjectStorer
	w            *offsetWriter
	zw           *zlib.Writer
	hasher       plumbing.Hasher
	offsets      map[plumbing.Hash]int64
	useRefDeltas bool
}

// NewEncoder creates a new packfile encoder that writes to w, resolving
// objects to pack from s. When useRefDeltas is true, delta objects are
// encoded against their base's hash (REF deltas); otherwise they are
// encoded against the base's offset in the packfile (OFS deltas).
func NewEncoder(w io.Writer, s storer.EncodedObjectStorer, useRefDeltas bool) *Encoder {
	h := plumbing.Hasher{Hash: sha1.New()}
	mw := io.MultiWriter(w, h)
	ow := newOffsetWriter(mw)
	zw := zlib.NewWriter(mw)
	return &Encoder{
		storer:       s,
		w:            ow,
		zw:           zw,
		hasher:       h,
		offsets:      make(map[plumbing.Hash]int64),
		useRefDeltas: useRefDeltas,
	}
}

// Encode selects, among the objects referenced by hashes, which ones are
// worth encoding as deltas within packWindow, and writes the resulting
// packfile to the Encoder's writer.
func (e *Encoder) Encode(hashes []plumbing.Hash, packWindow uint) (plumbing.Hash, error) {
	objects, err := newDeltaSelector(e.storer).ObjectsToPack(hashes, packWindow)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return e.encode(objects)
}

func (e *Encoder) encode(objects []*ObjectToPack) (plumbing.Hash, error) {
	if err := e.head(len(objects)); err != nil {
		return plumbing.ZeroHash, err
	}

	for _, o := range objects {
		if err := e.entry(o); err != nil {
			return plumbing.ZeroHash, err
		}
	}

	return e.footer()
}

func (e *Encoder) head(numEntries int) error {
	return binary.Write(
		e.w,
		signature,
		int32(VersionSupported),
		int32(numEntries),
	)
}

func (e *Encoder) entry(o *ObjectToPack) error {
	offset := e.w.Offset()

	entryType := o.Type()
	if o.IsDelta() {
		if e.useRefDeltas {
			entryType = plumbing.REFDeltaObject
		} else {
			entryType = plumbing.OFSDeltaObject
		}
	}

	if err := e.entryHead(entryType, o.Object.Size()); err != nil {
		return err
	}

	// Save the position using the object's own hash, so a later delta
	// can find this entry as its base.
	e.offsets[o.Hash()] = offset

	if o.IsDelta() {
		if e.useRefDeltas {
			if err := e.writeRefDeltaHeader(o.Base.Hash()); err != nil {
				return err
			}
		} else {
			if err := e.writeOfsDeltaHeader(offset, o.Base.Hash()); err != nil {
				return err
			}
		}
	}

	e.zw.Reset(e.w)
	or, err := o.Object.Reader()
	if err != nil {
		return err
	}
	_, err = io.Copy(e.zw, or)
	if err != nil {
		return err
	}

	return e.zw.Close()
}

func (e *Encoder) writeRefDeltaHeader(source plumbing.Hash) error {
	_, err := e.w.Write(source.Bytes())
	return err
}

func (e *Encoder) writeOfsDeltaHeader(deltaOffset int64, source plumbing.Hash) error {
	// Because it is an offset delta, we need the source object's
	// position in the packfile.
	offset, ok := e.offsets[source]
	if !ok {
		return fmt.Errorf("delta source not found. Hash: %v", source)
	}

	return binary.WriteVariableWidthInt(e.w, deltaOffset-offset)
}

func (e *Encoder) entryHead(typeNum plumbing.ObjectType, size int64) error {
	t := int64(typeNum)
	header := []byte{}
	c := (t << firstLengthBits) | (size & maskFirstLength)
	size >>= firstLengthBits
	for {
		if size == 0 {
			break
		}
		header = append(header, byte(c|maskContinue))
		c = size & int64(maskLength)
		size >>= lengthBits
	}

	header = append(header, byte(c))
	_, err := e.w.Write(header)

	return err
}

func (e *Encoder) footer() (plumbing.Hash, error) {
	h := e.hasher.Sum()
	_, err := e.w.Write(h.Bytes())
	return h, err
}

type offsetWriter struct {
	w      io.Writer
	offset int64
}

func newOffsetWriter(w io.Writer) *offsetWriter {
	return &offsetWriter{w: w}
}

func (ow *offsetWriter) Write(p []byte) (n int, err error) {
	n, err = ow.w.Write(p)
	ow.offset += int64(n)
	return n, err
}

func (ow *offsetWriter) Offset() int64 {
	return ow.offset
}
