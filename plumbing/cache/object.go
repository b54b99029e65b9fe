package cache

import (
	"container/list"
	"sync"

	"github.com/gitobj/gitobj/plumbing"
)

// DefaultMaxSize is the size used by NewObjectLRUDefault.
const DefaultMaxSize = 96 * MiByte

// ObjectLRU implements Object as an LRU cache, evicting the least recently
// used object(s) whenever a Put would otherwise push actualSize past
// MaxSize.
type ObjectLRU struct {
	MaxSize FileSize

	mu         sync.Mutex
	actualSize FileSize
	ll         *list.List
	table      map[plumbing.Hash]*list.Element
}

// NewObjectLRUDefault creates a new ObjectLRU with DefaultMaxSize.
func NewObjectLRUDefault() *ObjectLRU {
	return NewObjectLRU(DefaultMaxSize)
}

// NewObjectLRU creates a new ObjectLRU with the given maximum size.
func NewObjectLRU(maxSize FileSize) *ObjectLRU {
	return &ObjectLRU{MaxSize: maxSize}
}

type objectEntry struct {
	hash   plumbing.Hash
	object plumbing.EncodedObject
}

// Put adds an object to the cache, evicting older entries as needed to stay
// within MaxSize. An object larger than MaxSize is not cached at all.
func (c *ObjectLRU) Put(o plumbing.EncodedObject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ll == nil {
		c.ll = list.New()
		c.table = make(map[plumbing.Hash]*list.Element)
	}

	hash := o.Hash()
	size := FileSize(o.Size())

	if ee, ok := c.table[hash]; ok {
		c.ll.MoveToFront(ee)
		entry := ee.Value.(*objectEntry)
		c.actualSize -= FileSize(entry.object.Size())
		entry.object = o
		c.actualSize += size
	} else {
		ele := c.ll.PushFront(&objectEntry{hash, o})
		c.table[hash] = ele
		c.actualSize += size
	}

	for c.actualSize > c.MaxSize {
		last := c.ll.Back()
		if last == nil {
			break
		}
		c.removeElement(last)
	}
}

// Get returns the cached object for the given hash, if present, moving it
// to the front of the recency list.
func (c *ObjectLRU) Get(k plumbing.Hash) (plumbing.EncodedObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ee, ok := c.table[k]
	if !ok {
		return nil, false
	}

	c.ll.MoveToFront(ee)
	return ee.Value.(*objectEntry).object, true
}

// Clear empties the cache.
func (c *ObjectLRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll = nil
	c.table = nil
	c.actualSize = 0
}

func (c *ObjectLRU) removeElement(e *list.Element) {
	entry := e.Value.(*objectEntry)
	c.ll.Remove(e)
	delete(c.table, entry.hash)
	c.actualSize -= FileSize(entry.object.Size())
}
