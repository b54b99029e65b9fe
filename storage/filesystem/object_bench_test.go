package filesystem

import (
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v6/osfs"

	"github.com/gitobj/gitobj/plumbing"
	"github.com/gitobj/gitobj/plumbing/cache"
	"github.com/gitobj/gitobj/storage/filesystem/dotgit"
)

// BenchmarkAlternatesObjectLookup measures object lookup performance when
// resolving objects that only exist in an alternate object database.
func BenchmarkAlternatesObjectLookup(b *testing.B) {
	baseDir := b.TempDir()
	rootFs := osfs.New(baseDir)

	templateFs, err := rootFs.Chroot("template")
	if err != nil {
		b.Fatal(err)
	}
	templateDir := dotgit.New(templateFs)
	if err := templateDir.Initialize(); err != nil {
		b.Fatal(err)
	}

	var hashes []plumbing.Hash
	for i := 0; i < 5; i++ {
		content := []byte(fmt.Sprintf("alternate object payload number %d", i))
		w, err := templateDir.NewObject()
		if err != nil {
			b.Fatal(err)
		}
		if err := w.WriteHeader(plumbing.BlobObject, int64(len(content))); err != nil {
			b.Fatal(err)
		}
		if _, err := w.Write(content); err != nil {
			b.Fatal(err)
		}
		if err := w.Close(); err != nil {
			b.Fatal(err)
		}
		hashes = append(hashes, hashOf(plumbing.BlobObject, content))
	}

	workFs, err := rootFs.Chroot("work/.git")
	if err != nil {
		b.Fatal(err)
	}
	dg := dotgit.NewWithOptions(workFs, dotgit.Options{AlternatesFS: rootFs})
	if err := dg.Initialize(); err != nil {
		b.Fatal(err)
	}
	if err := dg.AddAlternate("template"); err != nil {
		b.Fatal(err)
	}

	storage := NewObjectStorage(dg, cache.NewObjectLRUDefault())
	b.Cleanup(func() { storage.Close() })

	b.ReportAllocs()
	b.Run("EncodedObject", func(b *testing.B) {
		for b.Loop() {
			for _, hash := range hashes {
				if _, err := storage.EncodedObject(plumbing.AnyObject, hash); err != nil {
					b.Fatal(err)
				}
			}
		}
	})

	b.Run("HasEncodedObject", func(b *testing.B) {
		for b.Loop() {
			for _, hash := range hashes {
				if err := storage.HasEncodedObject(hash); err != nil {
					b.Fatal(err)
				}
			}
		}
	})

	b.Run("EncodedObjectSize", func(b *testing.B) {
		for b.Loop() {
			for _, hash := range hashes {
				if _, err := storage.EncodedObjectSize(hash); err != nil {
					b.Fatal(err)
				}
			}
		}
	})
}
