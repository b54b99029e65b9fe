package noder

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Path values represent a noder and its ancestors. The root of the
// hierarchy is the first element in the slice, and the noder itself is
// the last one.
type Path []Noder

// String returns the concatenation of the names of every noder in the
// path, using "/" as separator.
func (p Path) String() string {
	var sb strings.Builder
	for i, e := range p {
		if i != 0 {
			sb.WriteRune('/')
		}
		sb.WriteString(e.Name())
	}

	return sb.String()
}

// Last returns the noder at the end of the path, or nil if the path is
// empty.
func (p Path) Last() Noder {
	if len(p) == 0 {
		return nil
	}

	return p[len(p)-1]
}

// IsRoot returns true if there is only one element in the path.
func (p Path) IsRoot() bool {
	return len(p) == 1
}

// Compare returns -1, 0 or 1 if p is less than, equal to, or greater
// than other, comparing element by element the Unicode-normalized
// (NFKC) name of each noder in the path. A path that is a strict
// prefix of the other compares as less than it.
func (p Path) Compare(other Path) int {
	i := 0
	for {
		switch {
		case len(p) == i && len(other) == i:
			return 0
		case len(p) == i:
			return -1
		case len(other) == i:
			return 1
		default:
			a := norm.NFKC.String(p[i].Name())
			b := norm.NFKC.String(other[i].Name())
			if c := strings.Compare(a, b); c != 0 {
				return c
			}
		}
		i++
	}
}

func (p Path) Hash() []byte {
	if len(p) == 0 {
		return nil
	}

	return p.Last().Hash()
}

func (p Path) Name() string {
	return p.Last().Name()
}

func (p Path) IsDir() bool {
	return p.Last().IsDir()
}

func (p Path) Children() ([]Noder, error) {
	return p.Last().Children()
}

func (p Path) NumChildren() (int, error) {
	return p.Last().NumChildren()
}

func (p Path) Skip() bool {
	return p.Last().Skip()
}
