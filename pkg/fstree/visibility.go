package fstree

// ExpandedSet tracks which folders the presentation layer currently has
// expanded. It is plain request-scoped state; the tree itself never stores
// expansion.
type ExpandedSet map[string]struct{}

// NewExpandedSet returns an empty ExpandedSet.
func NewExpandedSet() ExpandedSet {
	return make(ExpandedSet)
}

// Expand marks a folder path as expanded.
func (s ExpandedSet) Expand(path string) {
	s[path] = struct{}{}
}

// Collapse removes a folder path from the expanded set.
func (s ExpandedSet) Collapse(path string) {
	delete(s, path)
}

// Contains reports whether path is expanded.
func (s ExpandedSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

// ExpandTo marks every ancestor of path as expanded, so that a node at path
// becomes visible after navigating directly to a deep folder.
func (s ExpandedSet) ExpandTo(path string) {
	for p := Parent(path); p != ""; p = Parent(p) {
		s[p] = struct{}{}
	}
}

// Visible reports whether a node should be rendered given the current
// expanded set: level-1 folders are always visible, deeper folders only when
// their immediate parent is expanded.
func Visible(node FolderNode, expanded ExpandedSet) bool {
	if node.Level <= 1 {
		return true
	}
	return expanded.Contains(Parent(node.Path))
}
