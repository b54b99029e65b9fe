// Package filemode defines the set of file modes allowed in git trees and
// the conversions between them and go's os.FileMode.
package filemode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// A FileMode represents the mode of a tree entry, matching git's own
// representation: a subset of the unix mode bits.
type FileMode uint32

const (
	Empty      FileMode = 0
	Dir        FileMode = 0o40000
	Regular    FileMode = 0o100644
	Deprecated FileMode = 0o100664
	Executable FileMode = 0o100755
	Symlink    FileMode = 0o120000
	Submodule  FileMode = 0o160000
)

// New takes the octal string representation of a FileMode and returns the
// FileMode and a nil error. If the string can't be parsed, it returns Empty
// and the parsing error.
func New(s string) (FileMode, error) {
	m := FileMode(0)
	err := m.UnmarshalText([]byte(s))
	return m, err
}

// NewFromOSFileMode returns the FileMode that best matches the given
// os.FileMode, or an error if there is no equivalent.
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	switch {
	case m.IsDir():
		return Dir, nil
	case m&os.ModeSymlink != 0:
		return Symlink, nil
	case m&os.ModeNamedPipe != 0:
		return Empty, fmt.Errorf("no equivalent file mode: %s", m)
	case m&os.ModeSocket != 0:
		return Empty, fmt.Errorf("no equivalent file mode: %s", m)
	case m&os.ModeDevice != 0:
		return Empty, fmt.Errorf("no equivalent file mode: %s", m)
	case m&os.ModeCharDevice != 0:
		return Empty, fmt.Errorf("no equivalent file mode: %s", m)
	case m&os.ModeTemporary != 0:
		return Empty, fmt.Errorf("no equivalent file mode: %s", m)
	case isSetTowardsExecutable(m):
		return Executable, nil
	default:
		return Regular, nil
	}
}

func isSetTowardsExecutable(m os.FileMode) bool {
	return m.Perm()&0o111 != 0
}

// String returns the zero-padded octal representation of m.
func (m FileMode) String() string {
	return fmt.Sprintf("%07o", uint32(m))
}

// UnmarshalText parses the octal representation of a mode, as found in a
// tree entry.
func (m *FileMode) UnmarshalText(txt []byte) error {
	s := string(txt)
	if s == "" {
		return errors.New("empty file mode string")
	}
	for _, r := range s {
		if r < '0' || r > '7' {
			return fmt.Errorf("invalid file mode string: %q", s)
		}
	}

	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid file mode string: %q: %w", s, err)
	}

	*m = FileMode(n)
	return nil
}

// Bytes returns the little-endian 4-byte representation of m.
func (m FileMode) Bytes() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(m))
	return b
}

// IsMalformed reports whether m does not correspond to any of the valid
// tree entry modes.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}

// IsRegular reports whether m represents a file without the executable bit
// set (Regular or Deprecated).
func (m FileMode) IsRegular() bool {
	return m == Regular || m == Deprecated
}

// IsFile reports whether m represents any kind of file content entry:
// Regular, Deprecated, Executable or Symlink.
func (m FileMode) IsFile() bool {
	switch m {
	case Regular, Deprecated, Executable, Symlink:
		return true
	default:
		return false
	}
}

// ToOSFileMode converts m into its closest os.FileMode equivalent, or
// returns an error if m is malformed.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Dir, Submodule:
		return os.ModePerm | os.ModeDir, nil
	case Regular, Deprecated:
		return os.FileMode(0o644), nil
	case Executable:
		return os.FileMode(0o755), nil
	case Symlink:
		return os.ModePerm | os.ModeSymlink, nil
	default:
		return os.FileMode(0), fmt.Errorf("malformed file mode: %s", m)
	}
}
