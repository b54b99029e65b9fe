package commitgraph

import (
	"io"

	v2 "github.com/gitobj/gitobj/plumbing/format/commitgraph/v2"
)

// Encoder writes MemoryIndex structs to an output stream.
//
// Deprecated: use v2.Encoder.
type Encoder = v2.Encoder

// NewEncoder returns a new stream encoder that writes to w.
//
// Deprecated: use v2.NewEncoder.
func NewEncoder(w io.Writer) *Encoder {
	return v2.NewEncoder(w)
}
