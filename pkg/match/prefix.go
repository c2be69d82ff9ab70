package match

import (
	"sort"
	"strings"
)

// DerivePrefix extracts the longest static prefix from a glob pattern,
// truncated to a whole path segment. The prefix is what gets sent to the
// storage backend as a listing filter.
//
// Escaped metacharacters (\*, \?, \[, \{) are literals: they stay in the
// prefix, with the escape backslash stripped, because keys themselves carry
// no escape syntax.
//
// Examples:
//
//	"data/2024/**/*.parquet" → "data/2024/"
//	"*.json"                 → ""
//	"exact/path/file.txt"    → "exact/path/file.txt"
//	"data/file\*.txt"        → "data/file*.txt"
func DerivePrefix(pattern string) string {
	if pattern == "" {
		return ""
	}

	metaIdx := firstUnescapedMeta(pattern)
	if metaIdx == -1 {
		return unescape(pattern)
	}
	if metaIdx == 0 {
		return ""
	}

	// Truncate to the last complete segment so "data/2024-*" filters on
	// "data/" rather than the partial "data/2024-"
	prefix := pattern[:metaIdx]
	lastSlash := strings.LastIndex(prefix, "/")
	if lastSlash < 0 {
		return ""
	}
	return unescape(prefix[:lastSlash+1])
}

// DerivePrefixes derives a prefix per pattern, drops prefixes subsumed by a
// shorter one, and sorts the survivors. An empty derived prefix subsumes
// everything and collapses the result to [""].
func DerivePrefixes(patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}

	prefixes := make([]string, 0, len(patterns))
	for _, p := range patterns {
		prefix := DerivePrefix(p)
		if prefix == "" {
			return []string{""}
		}
		prefixes = append(prefixes, prefix)
	}

	sort.Slice(prefixes, func(i, j int) bool {
		return len(prefixes[i]) < len(prefixes[j])
	})

	result := make([]string, 0, len(prefixes))
	for _, candidate := range prefixes {
		subsumed := false
		for _, kept := range result {
			if strings.HasPrefix(candidate, kept) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			result = append(result, candidate)
		}
	}

	sort.Strings(result)
	return result
}

// IsGlobPattern reports whether the pattern contains unescaped glob
// metacharacters. Escaped ones (\*, \?, \[, \{) are literals.
func IsGlobPattern(pattern string) bool {
	return firstUnescapedMeta(pattern) != -1
}

// firstUnescapedMeta returns the index of the first unescaped glob
// metacharacter (* ? [ {), or -1. A backslash escapes the metacharacter or
// backslash that follows it.
func firstUnescapedMeta(pattern string) int {
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]

		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			if next == '*' || next == '?' || next == '[' || next == '{' || next == '\\' {
				i++
			}
			continue
		}

		if c == '*' || c == '?' || c == '[' || c == '{' {
			return i
		}
	}
	return -1
}

// unescape strips escape backslashes so the pattern prefix becomes the
// literal key prefix the backend expects.
func unescape(prefix string) string {
	if !strings.ContainsRune(prefix, '\\') {
		return prefix
	}

	var result strings.Builder
	result.Grow(len(prefix))

	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c == '\\' && i+1 < len(prefix) {
			next := prefix[i+1]
			if next == '*' || next == '?' || next == '[' || next == ']' ||
				next == '{' || next == '}' || next == '\\' {
				result.WriteByte(next)
				i++
				continue
			}
		}
		result.WriteByte(c)
	}

	return result.String()
}
