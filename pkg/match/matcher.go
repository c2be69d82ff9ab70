// Package match scopes searches over object keys with doublestar glob
// patterns, deriving static prefixes so scoped listings stay cheap.
package match

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher evaluates include/exclude glob patterns against object keys.
//
// Include patterns are optional: with none configured, every key is in scope.
// Exclude patterns always apply. A Matcher is safe for concurrent use after
// creation.
type Matcher struct {
	includes      []string
	excludes      []string
	prefixes      []string
	includeHidden bool
}

// Config configures a Matcher.
type Config struct {
	// Includes are glob patterns a key must match at least one of.
	// Empty means every key is in scope.
	Includes []string

	// Excludes are glob patterns a key must not match any of.
	Excludes []string

	// IncludeHidden controls whether keys with dot-prefixed path segments
	// are in scope. Default false.
	IncludeHidden bool
}

// ErrInvalidPattern is returned when a pattern cannot be compiled.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// PatternError wraps pattern-related errors with context.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "pattern " + e.Pattern + ": " + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// New creates a Matcher, validating every pattern up front.
func New(cfg Config) (*Matcher, error) {
	for _, raw := range append(append([]string{}, cfg.Includes...), cfg.Excludes...) {
		if !doublestar.ValidatePattern(raw) {
			return nil, &PatternError{Pattern: raw, Err: ErrInvalidPattern}
		}
	}

	return &Matcher{
		includes:      cfg.Includes,
		excludes:      cfg.Excludes,
		prefixes:      DerivePrefixes(cfg.Includes),
		includeHidden: cfg.IncludeHidden,
	}, nil
}

// Match reports whether the key is in scope.
//
// Keys are matched as-is: object keys are opaque strings and any character
// in them is valid.
func (m *Matcher) Match(key string) bool {
	if !m.includeHidden && IsHidden(key) {
		return false
	}

	if len(m.includes) > 0 {
		matched := false
		for _, inc := range m.includes {
			if matchPattern(inc, key) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, exc := range m.excludes {
		if matchPattern(exc, key) {
			return false
		}
	}

	return true
}

// Prefixes returns the deduplicated static prefixes derived from the include
// patterns. An empty string in the result means at least one pattern needs a
// full enumeration; no includes yields [""].
func (m *Matcher) Prefixes() []string {
	if len(m.prefixes) == 0 {
		return []string{""}
	}
	return m.prefixes
}

// matchPattern matches a key against a doublestar pattern.
// Patterns were validated at construction, so errors should not occur.
func matchPattern(pattern, key string) bool {
	matched, err := doublestar.Match(pattern, key)
	if err != nil {
		return false
	}
	return matched
}

// IsHidden reports whether any path segment of the key starts with a dot,
// following the Unix hidden-file convention.
func IsHidden(key string) bool {
	for _, seg := range strings.Split(key, "/") {
		if seg != "" && strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
