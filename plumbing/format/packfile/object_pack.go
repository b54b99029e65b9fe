package packfile

import (
	"github.com/gitobj/gitobj/plumbing"
)

// ObjectToPack represents an object that is going to be packed, either
// as a full object or as a delta against another ObjectToPack.
type ObjectToPack struct {
	// Object is what will actually be written to the packfile: the
	// original content for a non-delta object, or the delta bytes
	// once SetDelta has been called.
	Object plumbing.EncodedObject
	// Base is the object this one is deltified against. Nil for
	// non-delta objects.
	Base *ObjectToPack
	// Original is the object's own content. It is kept around so the
	// delta selector can diff against it, and can be dropped with
	// CleanOriginal once the type, hash and size have been cached.
	Original plumbing.EncodedObject
	// Depth is the number of deltas that must be resolved, in chain,
	// to get back to Original.
	Depth int
	// Offset is the object's position in the packfile, filled in as
	// it is written.
	Offset int64

	originalType plumbing.ObjectType
	originalHash plumbing.Hash
	originalSize int64
}

// newObjectToPack creates an ObjectToPack for a non-delta object.
func newObjectToPack(o plumbing.EncodedObject) *ObjectToPack {
	return &ObjectToPack{
		Object:   o,
		Original: o,
	}
}

// newDeltaObjectToPack creates an ObjectToPack representing original
// packed as a delta of base, with delta holding the encoded
// instructions.
func newDeltaObjectToPack(base *ObjectToPack, original, delta plumbing.EncodedObject) *ObjectToPack {
	return &ObjectToPack{
		Object:   delta,
		Base:     base,
		Original: original,
		Depth:    base.Depth + 1,
	}
}

// IsDelta returns whether this object will be packed as a delta.
func (o *ObjectToPack) IsDelta() bool {
	return o.Base != nil
}

// SetDelta turns o into a delta of base, encoded by delta.
func (o *ObjectToPack) SetDelta(base *ObjectToPack, delta plumbing.EncodedObject) {
	o.Object = delta
	o.Base = base
	o.Depth = base.Depth + 1
}

// SetOriginal sets the object's own content, caching its type, hash and
// size so they remain available after CleanOriginal.
func (o *ObjectToPack) SetOriginal(obj plumbing.EncodedObject) {
	o.Original = obj
	if obj != nil {
		o.originalType = obj.Type()
		o.originalHash = obj.Hash()
		o.originalSize = obj.Size()
	}
}

// CleanOriginal drops the reference to the object's own content,
// leaving only the cached type, hash and size behind.
func (o *ObjectToPack) CleanOriginal() {
	o.Original = nil
}

// Type returns the type of the packed object.
func (o *ObjectToPack) Type() plumbing.ObjectType {
	if o.Original != nil {
		return o.Original.Type()
	}
	return o.originalType
}

// Hash returns the hash of the packed object.
func (o *ObjectToPack) Hash() plumbing.Hash {
	if o.Original != nil {
		return o.Original.Hash()
	}
	return o.originalHash
}

// Size returns the plaintext size of the packed object.
func (o *ObjectToPack) Size() int64 {
	if o.Original != nil {
		return o.Original.Size()
	}
	return o.originalSize
}
