// Package fstree projects a flat, delimiter-separated object-key namespace
// onto a navigable folder hierarchy.
//
// Object stores have no real directories: folders are a UI fiction derived
// from key prefixes. This package owns that derivation. The tree is always
// computed fresh from a key stream and never persisted - the bucket is the
// single source of truth and may be mutated by other clients at any time.
package fstree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Delimiter separates path segments in object keys.
const Delimiter = "/"

// Errors returned by tree and view operations.
var (
	// ErrMalformedKey indicates an object key violates path-segment
	// assumptions (empty key, leading delimiter, or empty interior segment).
	ErrMalformedKey = errors.New("malformed object key")

	// ErrInvalidPath indicates a directory path that is neither empty nor
	// terminated by the delimiter.
	ErrInvalidPath = errors.New("invalid directory path")
)

// MalformedKeyError wraps ErrMalformedKey with the offending key.
//
// Malformed keys fail the whole computation rather than being dropped:
// silently omitting an object would make the rendered tree disagree with the
// bucket's real contents.
type MalformedKeyError struct {
	// Key is the offending object key.
	Key string

	// Reason describes which assumption the key violates.
	Reason string
}

func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed object key %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrMalformedKey for errors.Is support.
func (e *MalformedKeyError) Unwrap() error {
	return ErrMalformedKey
}

// FolderNode is one synthetic directory level derived from key prefixes.
//
// Parent/child relations are recoverable purely from string prefix
// comparison; nodes hold no references to each other.
type FolderNode struct {
	// Path is the full prefix including its own trailing delimiter,
	// e.g. "a/b/".
	Path string `json:"path"`

	// Name is the last segment of Path, e.g. "b".
	Name string `json:"name"`

	// Level is the number of segments in Path. Root's direct children are
	// level 1.
	Level int `json:"level"`
}

// Parent returns the parent folder path of p, or "" if p is a root-level
// folder. p must be a folder path ending in the delimiter.
func Parent(p string) string {
	trimmed := strings.TrimSuffix(p, Delimiter)
	idx := strings.LastIndex(trimmed, Delimiter)
	if idx < 0 {
		return ""
	}
	return trimmed[:idx+1]
}

// Builder accumulates object keys and derives the distinct folder prefixes
// they imply.
//
// Keys may arrive in any order and may be fed incrementally from paginated
// listings; memory use scales with the number of distinct folders, not the
// number of objects. Builder is not safe for concurrent use; each request
// owns its own instance.
type Builder struct {
	folders map[string]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{folders: make(map[string]struct{})}
}

// Add records one object key.
//
// A key ending in the delimiter is a folder marker: the marker's own path and
// every ancestor become folders. Any other key is a file: every ancestor
// directory becomes a folder, the leaf name does not.
//
// Returns a *MalformedKeyError if the key is empty, starts with the
// delimiter, or contains an empty interior segment ("a//b").
func (b *Builder) Add(key string) error {
	segments, _, err := splitKey(key)
	if err != nil {
		return err
	}

	// For markers every prefix of the segment list is a folder; for files
	// the leaf is excluded. splitKey already dropped the marker's trailing
	// empty segment, so markers contribute len(segments) prefixes and files
	// len(segments)-1.
	limit := len(segments)
	if !strings.HasSuffix(key, Delimiter) {
		limit--
	}

	var path strings.Builder
	for i := 0; i < limit; i++ {
		path.WriteString(segments[i])
		path.WriteString(Delimiter)
		b.folders[path.String()] = struct{}{}
	}

	return nil
}

// Nodes returns every distinct folder derived so far, ordered ascending by
// full path.
//
// Lexicographic path order is a valid topological order: a folder path is a
// strict prefix of all of its descendants' paths, so a parent always sorts
// before its children. The result is gap-free - every non-root node's parent
// path is also present - and identical input always yields identical output.
func (b *Builder) Nodes() []FolderNode {
	paths := make([]string, 0, len(b.folders))
	for p := range b.folders {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	nodes := make([]FolderNode, 0, len(paths))
	for _, p := range paths {
		nodes = append(nodes, nodeForPath(p))
	}
	return nodes
}

// Len returns the number of distinct folders derived so far.
func (b *Builder) Len() int {
	return len(b.folders)
}

// BuildTree derives the ordered folder set from a complete key enumeration.
//
// It is all-or-nothing: a malformed key fails the whole build with no
// partial result.
func BuildTree(keys []string) ([]FolderNode, error) {
	b := NewBuilder()
	for _, key := range keys {
		if err := b.Add(key); err != nil {
			return nil, err
		}
	}
	return b.Nodes(), nil
}

// nodeForPath builds the FolderNode for a validated folder path.
func nodeForPath(path string) FolderNode {
	segments := strings.Split(strings.TrimSuffix(path, Delimiter), Delimiter)
	return FolderNode{
		Path:  path,
		Name:  segments[len(segments)-1],
		Level: len(segments),
	}
}

// splitKey validates key and splits it into segments, dropping the trailing
// empty segment produced by a folder marker. The returned bool reports
// whether the key is a folder marker.
func splitKey(key string) ([]string, bool, error) {
	if key == "" {
		return nil, false, &MalformedKeyError{Key: key, Reason: "empty key"}
	}
	if strings.HasPrefix(key, Delimiter) {
		return nil, false, &MalformedKeyError{Key: key, Reason: "leading delimiter"}
	}

	marker := strings.HasSuffix(key, Delimiter)
	trimmed := key
	if marker {
		trimmed = strings.TrimSuffix(key, Delimiter)
	}

	segments := strings.Split(trimmed, Delimiter)
	for _, seg := range segments {
		if seg == "" {
			return nil, false, &MalformedKeyError{Key: key, Reason: "empty path segment"}
		}
	}

	return segments, marker, nil
}

// validateDirPath enforces the directory path contract: "" for the root, or
// a folder path ending in the delimiter with no empty segments.
func validateDirPath(currentPath string) error {
	if currentPath == "" {
		return nil
	}
	if !strings.HasSuffix(currentPath, Delimiter) {
		return fmt.Errorf("%w: %q does not end in %q", ErrInvalidPath, currentPath, Delimiter)
	}
	if _, _, err := splitKey(currentPath); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPath, currentPath)
	}
	return nil
}
