package revision

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Revisioner is implemented by every step a committish expression can
// compile down to.
type Revisioner interface {
	isRevisioner()
}

// Ref names the starting point of the expression: a branch, tag, remote
// ref, or a hex object id (full or abbreviated).
type Ref struct {
	Name string
}

// TildePath walks Depth first-parent steps back from the current commit,
// i.e. `~Depth`. `~` alone is TildePath{Depth: 1}.
type TildePath struct {
	Depth int
}

// CaretPath selects parent number N (1-indexed) of the current commit, i.e.
// `^N`. `^` alone is CaretPath{Depth: 1}.
type CaretPath struct {
	Depth int
}

// CaretReg selects the nearest ancestor whose message matches a regular
// expression (git's `^{/<regexp>}`). Parse never produces it: a `{` after
// `^` is rejected as an unexpected character.
type CaretReg struct {
	Regexp  string
	Negate  bool
}

func (Ref) isRevisioner()       {}
func (TildePath) isRevisioner() {}
func (CaretPath) isRevisioner() {}
func (CaretReg) isRevisioner()  {}

// Parser turns a committish expression into a sequence of Revisioner steps,
// applied left to right starting from Ref.
type Parser struct {
	s *scanner
}

// NewParserFromString is a convenience constructor wrapping a string reader.
func NewParserFromString(revision string) *Parser {
	return NewParser(strings.NewReader(revision))
}

// NewParser returns a Parser reading a committish expression from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{s: newScanner(r)}
}

// Parse consumes the whole expression and returns its steps, or an error if
// the expression is malformed.
func (p *Parser) Parse() ([]Revisioner, error) {
	var name strings.Builder
	var steps []Revisioner

	tok, lit, err := p.s.scan()
	if err != nil {
		return nil, err
	}

	for {
		switch tok {
		case word, number, minus, dot, slash, at, obracket, cbrace, emark, qmark, asterisk:
			name.WriteString(lit)
		case tilde:
			if name.Len() == 0 {
				return nil, fmt.Errorf("missing ref name before '~'")
			}
			if len(steps) == 0 {
				steps = append(steps, Ref{Name: name.String()})
			}
			depth, next, err := p.parseOptionalDepth()
			if err != nil {
				return nil, err
			}
			steps = append(steps, TildePath{Depth: depth})
			tok, lit = next.tok, next.lit
			continue
		case caret:
			if name.Len() == 0 && len(steps) == 0 {
				return nil, fmt.Errorf("missing ref name before '^'")
			}
			if len(steps) == 0 {
				steps = append(steps, Ref{Name: name.String()})
			}
			depth, next, err := p.parseOptionalDepth()
			if err != nil {
				return nil, err
			}
			steps = append(steps, CaretPath{Depth: depth})
			tok, lit = next.tok, next.lit
			continue
		case colon:
			// A bare `:path` or `rev:path` form is out of this grammar's
			// scope (tree-path lookups are resolved by the caller once the
			// commit itself is known); stop here and let the caller see the
			// remainder via an error so it isn't silently dropped.
			return nil, fmt.Errorf("unsupported ':path' suffix in revision expression")
		case eof:
			if name.Len() > 0 && len(steps) == 0 {
				steps = append(steps, Ref{Name: name.String()})
			}
			return steps, nil
		case control, tokenError:
			return nil, fmt.Errorf("unexpected character %q in revision expression", lit)
		default:
			return nil, fmt.Errorf("unexpected token in revision expression: %q", lit)
		}

		tok, lit, err = p.s.scan()
		if err != nil {
			return nil, err
		}
	}
}

type scanResult struct {
	tok token
	lit string
}

// parseOptionalDepth parses the optional decimal depth following '~' or '^'
// (defaulting to 1 when absent), and returns the next unconsumed token.
func (p *Parser) parseOptionalDepth() (int, scanResult, error) {
	tok, lit, err := p.s.scan()
	if err != nil {
		return 0, scanResult{}, err
	}

	if tok != number {
		return 1, scanResult{tok: tok, lit: lit}, nil
	}

	depth, err := strconv.Atoi(lit)
	if err != nil {
		return 0, scanResult{}, fmt.Errorf("invalid depth %q: %w", lit, err)
	}

	tok, lit, err = p.s.scan()
	if err != nil {
		return 0, scanResult{}, err
	}

	return depth, scanResult{tok: tok, lit: lit}, nil
}
