package fstree

import (
	"sort"
	"strings"
	"time"
)

// FileEntry is a single object shown in a directory listing.
type FileEntry struct {
	// Key is the full object key.
	Key string `json:"key"`

	// Size is the object size in bytes.
	Size int64 `json:"size"`

	// LastModified is when the object was last modified.
	LastModified time.Time `json:"lastModified"`
}

// Listing is a single directory level: the immediate child folders and files
// of one path. Folders sort before files; each group is ordered by display
// name using ordinal string comparison.
type Listing struct {
	Folders []FolderNode `json:"folders"`
	Files   []FileEntry  `json:"files"`
}

// Object is the minimal object metadata the formatter consumes.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListDirectory computes the immediate children of currentPath from a
// complete set of objects.
//
// currentPath must be "" (root) or end in the delimiter; anything else fails
// with ErrInvalidPath. Folder-marker objects never appear as files, and the
// marker for currentPath itself is excluded entirely.
func ListDirectory(objects []Object, currentPath string) (*Listing, error) {
	if err := validateDirPath(currentPath); err != nil {
		return nil, err
	}

	folderSet := make(map[string]struct{})
	var files []FileEntry

	for _, obj := range objects {
		if _, _, err := splitKey(obj.Key); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(obj.Key, currentPath) {
			continue
		}
		if obj.Key == currentPath {
			// The listed directory's own marker object.
			continue
		}

		rest := obj.Key[len(currentPath):]
		if slash := strings.Index(rest, Delimiter); slash >= 0 {
			// Nested deeper (or an immediate child folder marker): only the
			// first-level child folder is visible at this level.
			folderSet[currentPath+rest[:slash+1]] = struct{}{}
			continue
		}

		files = append(files, FileEntry{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return buildListing(folderSet, files), nil
}

// FormatDelimiterListing builds a Listing from a delimiter-listing call
// result: the backend's common prefixes become folders and its keys become
// files, minus any marker objects (including currentPath's own marker, which
// some backends return as a key).
func FormatDelimiterListing(currentPath string, commonPrefixes []string, objects []Object) (*Listing, error) {
	if err := validateDirPath(currentPath); err != nil {
		return nil, err
	}

	folderSet := make(map[string]struct{}, len(commonPrefixes))
	for _, cp := range commonPrefixes {
		if _, _, err := splitKey(cp); err != nil {
			return nil, err
		}
		folderSet[cp] = struct{}{}
	}

	files := make([]FileEntry, 0, len(objects))
	for _, obj := range objects {
		if _, _, err := splitKey(obj.Key); err != nil {
			return nil, err
		}
		if strings.HasSuffix(obj.Key, Delimiter) {
			// Folder markers are never file entries.
			continue
		}
		files = append(files, FileEntry{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return buildListing(folderSet, files), nil
}

// buildListing assembles and orders the final listing.
func buildListing(folderSet map[string]struct{}, files []FileEntry) *Listing {
	folders := make([]FolderNode, 0, len(folderSet))
	for p := range folderSet {
		folders = append(folders, nodeForPath(p))
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})
	sort.Slice(files, func(i, j int) bool {
		return displayName(files[i].Key) < displayName(files[j].Key)
	})

	if files == nil {
		files = []FileEntry{}
	}
	return &Listing{Folders: folders, Files: files}
}

// displayName returns the last segment of an object key.
func displayName(key string) string {
	idx := strings.LastIndex(key, Delimiter)
	if idx < 0 {
		return key
	}
	return key[idx+1:]
}
