package object

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Signature identifies a commit or tag's author/committer/tagger — a name,
// an email, and a point in time.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Decode parses b as a signature line, in the form used by raw commit and
// tag objects: `Name <email> unixTimestamp zone`. Any part that cannot be
// recovered is left at its zero value rather than returning an error,
// matching how git itself tolerates malformed identities.
func (s *Signature) Decode(b []byte) {
	open := bytes.LastIndexByte(b, '<')
	clse := bytes.LastIndexByte(b, '>')
	if open == -1 || clse == -1 || open > clse {
		return
	}

	s.Name = string(bytes.TrimSpace(b[:open]))
	s.Email = string(b[open+1 : clse])

	hasTime := clse+2 < len(b)
	if !hasTime {
		return
	}

	parts := bytes.SplitN(b[clse+2:], []byte(" "), 2)
	timestamp, err := strconv.ParseInt(string(parts[0]), 10, 64)
	if err != nil {
		return
	}

	when := time.Unix(timestamp, 0).In(time.FixedZone("", 0))
	if len(parts) == 2 {
		if offset, ok := parseTimezoneOffset(string(parts[1])); ok {
			when = time.Unix(timestamp, 0).In(time.FixedZone("", offset))
		}
	}
	s.When = when
}

// parseTimezoneOffset parses a git-style `+HHMM`/`-HHMM` timezone into a
// signed offset in seconds east of UTC.
func parseTimezoneOffset(tz string) (int, bool) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return 0, false
	}

	hh, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return 0, false
	}

	offset := hh*3600 + mm*60
	if tz[0] == '-' {
		offset = -offset
	}
	return offset, true
}

// String renders the signature as "Name <email>", without the point in
// time, matching the way git shows authorship in commit/tag headers.
func (s *Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// encode renders the signature in the raw object form Decode accepts:
// `Name <email> unixTimestamp zone`.
func (s *Signature) encode() string {
	when := s.When.Unix()
	if when < 0 {
		when = 0
	}
	_, offset := s.When.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s <%s> %d %s%02d%02d", s.Name, s.Email, when, sign, offset/3600, (offset%3600)/60)
}
