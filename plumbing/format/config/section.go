package config

import (
	"fmt"
	"strings"
)

// Sections is a list of sections.
type Sections []*Section

// GoString implements fmt.GoStringer.
func (ss Sections) GoString() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.GoString()
	}
	return strings.Join(parts, ", ")
}

// Section is a collection of options and, optionally, subsections under a
// common name, e.g. everything under `[core]` or `[remote "origin"]`.
type Section struct {
	Name        string
	Options     Options
	Subsections Subsections
}

// GoString implements fmt.GoStringer.
func (s *Section) GoString() string {
	return fmt.Sprintf("&config.Section{Name:%q, Options:%s, Subsections:%s}",
		s.Name, s.Options.GoString(), s.Subsections.GoString())
}

// IsName reports whether s has the given name, case-insensitively, as git
// section names are.
func (s *Section) IsName(name string) bool {
	return strings.EqualFold(s.Name, name)
}

// Subsection returns the named subsection, creating it if absent.
// Subsection names are case-sensitive, unlike section names.
func (s *Section) Subsection(name string) *Subsection {
	for i := len(s.Subsections) - 1; i >= 0; i-- {
		ss := s.Subsections[i]
		if ss.IsName(name) {
			return ss
		}
	}

	ss := &Subsection{Name: name}
	s.Subsections = append(s.Subsections, ss)
	return ss
}

// HasSubsection reports whether a subsection with the given name exists.
func (s *Section) HasSubsection(name string) bool {
	for _, ss := range s.Subsections {
		if ss.IsName(name) {
			return true
		}
	}
	return false
}

// RemoveSubsection removes a subsection by name.
func (s *Section) RemoveSubsection(name string) *Section {
	result := Subsections{}
	for _, ss := range s.Subsections {
		if !ss.IsName(name) {
			result = append(result, ss)
		}
	}
	s.Subsections = result
	return s
}

// AddOption appends an option; options with the same key are appended
// rather than overwritten, since git allows multi-valued keys.
func (s *Section) AddOption(key string, value string) *Section {
	s.Options = s.Options.withAddedOption(key, value)
	return s
}

// SetOption drops every existing value of key and appends the given ones at
// the end.
func (s *Section) SetOption(key string, values ...string) *Section {
	s.Options = s.Options.withReplacedOption(key, values...)
	return s
}

// Option returns the last value set for key, or "" if unset.
func (s *Section) Option(key string) string {
	return s.Options.Get(key)
}

// GetOption is an alias of Option, matching the Config-level accessor name.
func (s *Section) GetOption(key string) string {
	return s.Option(key)
}

// OptionAll returns every value set for key, in file order.
func (s *Section) OptionAll(key string) []string {
	return s.Options.GetAll(key)
}

// GetAllOptions is an alias of OptionAll, matching the Config-level
// accessor name.
func (s *Section) GetAllOptions(key string) []string {
	return s.OptionAll(key)
}

// HasOption reports whether key was set at least once.
func (s *Section) HasOption(key string) bool {
	return s.Options.Has(key)
}

// RemoveOption drops every value set for key.
func (s *Section) RemoveOption(key string) *Section {
	s.Options = s.Options.withoutOption(key)
	return s
}

// Subsections is a list of Subsection.
type Subsections []*Subsection

// GoString implements fmt.GoStringer.
func (ss Subsections) GoString() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.GoString()
	}
	return strings.Join(parts, ", ")
}

// Subsection is the `[section "name"]` form; the name is case-sensitive.
type Subsection struct {
	Name    string
	Options Options
}

// GoString implements fmt.GoStringer.
func (s *Subsection) GoString() string {
	return fmt.Sprintf("&config.Subsection{Name:%q, Options:%s}", s.Name, s.Options.GoString())
}

func (s *Subsection) IsName(name string) bool {
	return s.Name == name
}

func (s *Subsection) AddOption(key string, value string) *Subsection {
	s.Options = s.Options.withAddedOption(key, value)
	return s
}

// SetOption overwrites, in place, each existing occurrence of key with the
// next of the given values; surplus existing occurrences are dropped and
// surplus values are appended at the end.
func (s *Subsection) SetOption(key string, values ...string) *Subsection {
	s.Options = s.Options.withOverwrittenOption(key, values...)
	return s
}

func (s *Subsection) Option(key string) string {
	return s.Options.Get(key)
}

func (s *Subsection) GetOption(key string) string {
	return s.Option(key)
}

func (s *Subsection) OptionAll(key string) []string {
	return s.Options.GetAll(key)
}

func (s *Subsection) GetAllOptions(key string) []string {
	return s.OptionAll(key)
}

func (s *Subsection) HasOption(key string) bool {
	return s.Options.Has(key)
}

func (s *Subsection) RemoveOption(key string) *Subsection {
	s.Options = s.Options.withoutOption(key)
	return s
}

// Option is a single `key = value` line. Option keys are case-insensitive,
// as in git.
type Option struct {
	Key   string
	Value string
}

// GoString implements fmt.GoStringer.
func (o *Option) GoString() string {
	return fmt.Sprintf("&config.Option{Key:%q, Value:%q}", o.Key, o.Value)
}

// IsKey reports whether this option's key matches name, case-insensitively.
func (o *Option) IsKey(name string) bool {
	return strings.EqualFold(o.Key, name)
}

// Options is an ordered list of Option, preserving duplicate keys.
type Options []*Option

// GoString implements fmt.GoStringer.
func (opts Options) GoString() string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = o.GoString()
	}
	return strings.Join(parts, ", ")
}

func (opts Options) Get(key string) string {
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i].IsKey(key) {
			return opts[i].Value
		}
	}
	return ""
}

func (opts Options) GetAll(key string) []string {
	values := []string{}
	for _, o := range opts {
		if o.IsKey(key) {
			values = append(values, o.Value)
		}
	}
	return values
}

func (opts Options) Has(key string) bool {
	for _, o := range opts {
		if o.IsKey(key) {
			return true
		}
	}
	return false
}

func (opts Options) withAddedOption(key, value string) Options {
	return append(opts, &Option{Key: key, Value: value})
}

// withReplacedOption drops every existing value of key, then appends the
// given values at the end, in order.
func (opts Options) withReplacedOption(key string, values ...string) Options {
	result := make(Options, 0, len(opts)+len(values))
	for _, o := range opts {
		if !o.IsKey(key) {
			result = append(result, o)
		}
	}
	for _, v := range values {
		result = append(result, &Option{Key: key, Value: v})
	}
	return result
}

// withOverwrittenOption walks the existing options in order, assigning each
// matching occurrence of key the next pending value; occurrences beyond the
// supplied values are dropped, and leftover values are appended at the end.
func (opts Options) withOverwrittenOption(key string, values ...string) Options {
	result := make(Options, 0, len(opts)+len(values))
	pending := values
	for _, o := range opts {
		if !o.IsKey(key) {
			result = append(result, o)
			continue
		}
		if len(pending) == 0 {
			continue
		}
		result = append(result, &Option{Key: key, Value: pending[0]})
		pending = pending[1:]
	}
	for _, v := range pending {
		result = append(result, &Option{Key: key, Value: v})
	}
	return result
}

func (opts Options) withoutOption(key string) Options {
	result := make(Options, 0, len(opts))
	for _, o := range opts {
		if !o.IsKey(key) {
			result = append(result, o)
		}
	}
	return result
}
