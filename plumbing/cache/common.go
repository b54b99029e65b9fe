// Package cache provides LRU caches used to avoid re-reading and
// re-inflating objects and delta buffers from the on-disk object store.
package cache

import "github.com/gitobj/gitobj/plumbing"

// FileSize represents the size of an object or buffer held in a cache, in
// bytes.
type FileSize int64

const (
	Byte FileSize = 1 << (iota * 10)
	KiByte
	MiByte
	GiByte
)

// Object is an LRU cache of plumbing.EncodedObject, keyed by hash.
type Object interface {
	Put(o plumbing.EncodedObject)
	Get(k plumbing.Hash) (plumbing.EncodedObject, bool)
	Clear()
}

// Buffer is an LRU cache of raw byte buffers, keyed by an arbitrary int64 —
// typically a pack offset, so reconstructed delta bases can be memoized
// without re-walking their delta chain.
type Buffer interface {
	Put(k int64, b []byte)
	Get(k int64) ([]byte, bool)
	Clear()
}
