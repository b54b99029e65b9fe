package objfile

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/gitobj/gitobj/plumbing"
)

type objfileFixture struct {
	t       plumbing.ObjectType
	hash    string
	content []byte
	data    []byte
}

// objfileFixtures holds a handful of loose-object payloads, built directly
// with compress/zlib rather than this package's own Writer, so the Reader
// tests exercise decoding of objects as any compliant producer (i.e. git
// itself) would have written them.
var objfileFixtures = buildObjfileFixtures()

func buildObjfileFixtures() []objfileFixture {
	raw := []struct {
		t       plumbing.ObjectType
		content []byte
	}{
		{plumbing.BlobObject, []byte("Hello, World!\n")},
		{plumbing.CommitObject, []byte("tree 918c48b83bd081e863dbe1b80f8998f058cd8294\n" +
			"author John Doe <john@example.com> 1257894000 +0200\n" +
			"committer John Doe <john@example.com> 1257894000 +0200\n\n" +
			"initial commit\n")},
	}

	fixtures := make([]objfileFixture, len(raw))
	for i, r := range raw {
		header := []byte(fmt.Sprintf("%s %d\x00", r.t, len(r.content)))

		h := sha1.New()
		h.Write(header)
		h.Write(r.content)

		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		w.Write(header)
		w.Write(r.content)
		w.Close()

		fixtures[i] = objfileFixture{
			t:       r.t,
			hash:    hex.EncodeToString(h.Sum(nil)),
			content: r.content,
			data:    buf.Bytes(),
		}
	}

	return fixtures
}
