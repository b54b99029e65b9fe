package packfile

import (
	"sort"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/storer"
)

// maxDepth is the maximum number of chained deltas the selector will
// produce; git itself defaults to 50.
const maxDepth = 50

// deltaSelector picks, among a set of objects destined for a packfile,
// which ones are worth encoding as deltas against one another.
type deltaSelector struct {
	storer storer.EncodedObjectStorer
}

func newDeltaSelector(s storer.EncodedObjectStorer) *deltaSelector {
	return &deltaSelector{s}
}

// ObjectsToPack resolves hashes against the selector's storer and
// decides, within packWindow, which resulting objects should be
// encoded as deltas. A packWindow of 0 disables delta compression and
// returns the objects in the order given.
func (dw *deltaSelector) ObjectsToPack(hashes []plumbing.Hash, packWindow uint) ([]*ObjectToPack, error) {
	otp, err := dw.objectsToPack(hashes, packWindow)
	if err != nil {
		return nil, err
	}

	if packWindow == 0 {
		return otp, nil
	}

	dw.sort(otp)

	if err := dw.walk(otp, packWindow); err != nil {
		return nil, err
	}

	return otp, nil
}

func (dw *deltaSelector) objectsToPack(hashes []plumbing.Hash, packWindow uint) ([]*ObjectToPack, error) {
	otp := make([]*ObjectToPack, 0, len(hashes))
	for _, h := range hashes {
		o, err := dw.storer.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return nil, err
		}

		otp = append(otp, newObjectToPack(o))
	}

	return otp, nil
}

// sort orders objects by type (so the same kind of object sits next to
// each other) and, within a type, by decreasing size: the biggest
// object in a run is the best candidate base for the others.
func (dw *deltaSelector) sort(objectsToPack []*ObjectToPack) {
	sort.Stable(byTypeAndSize(objectsToPack))
}

// walk scans the (already sorted) objects and, for each one, tries to
// deltify it against up to packWindow of the objects immediately
// before it.
func (dw *deltaSelector) walk(objectsToPack []*ObjectToPack, packWindow uint) error {
	for i, target := range objectsToPack {
		for j := i - 1; j >= 0 && i-j <= int(packWindow); j-- {
			base := objectsToPack[j]
			if base.Type() != target.Type() {
				continue
			}

			if err := dw.tryToDeltify(base, target); err != nil {
				return err
			}
		}
	}

	return nil
}

func (dw *deltaSelector) tryToDeltify(base, target *ObjectToPack) error {
	// A target much smaller than its base is a poor pairing.
	if target.Size() < base.Size()>>4 {
		return nil
	}

	msz := dw.deltaSizeLimit(target.Size(), base.Depth, maxDepth, target.IsDelta())
	if msz == 0 {
		return nil
	}

	delta, err := GetDelta(base.Original, target.Original)
	if err != nil {
		return err
	}

	if delta.Size() >= msz {
		return nil
	}

	if target.IsDelta() && delta.Size() >= target.Object.Size() {
		return nil
	}

	target.SetDelta(base, delta)

	return nil
}

// deltaSizeLimit caps how big a delta is allowed to be before it's
// not worth the depth it would add to the chain.
func (dw *deltaSelector) deltaSizeLimit(targetSize int64, depth int, maxDepth int, hasBigBase bool) int64 {
	if depth >= maxDepth {
		return 0
	}

	if hasBigBase {
		return targetSize
	}

	return targetSize / 2
}

type byTypeAndSize []*ObjectToPack

func (a byTypeAndSize) Len() int      { return len(a) }
func (a byTypeAndSize) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byTypeAndSize) Less(i, j int) bool {
	if a[i].Type() != a[j].Type() {
		return a[i].Type() > a[j].Type()
	}
	return a[i].Size() > a[j].Size()
}
