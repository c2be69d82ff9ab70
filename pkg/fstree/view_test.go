package fstree

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listFixtureTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func objs(keys ...string) []Object {
	out := make([]Object, 0, len(keys))
	for _, k := range keys {
		out = append(out, Object{Key: k, Size: 42, LastModified: listFixtureTime})
	}
	return out
}

func TestListDirectory_Root(t *testing.T) {
	objects := objs("a/b/file.txt", "a/c/file2.txt", "README.md")

	listing, err := ListDirectory(objects, "")
	require.NoError(t, err)

	require.Len(t, listing.Folders, 1)
	assert.Equal(t, FolderNode{Path: "a/", Name: "a", Level: 1}, listing.Folders[0])

	require.Len(t, listing.Files, 1)
	assert.Equal(t, "README.md", listing.Files[0].Key)
	assert.Equal(t, int64(42), listing.Files[0].Size)
	assert.Equal(t, listFixtureTime, listing.Files[0].LastModified)
}

func TestListDirectory_SubPath(t *testing.T) {
	objects := objs("a/b/file.txt", "a/c/file2.txt", "README.md")

	listing, err := ListDirectory(objects, "a/")
	require.NoError(t, err)

	require.Len(t, listing.Folders, 2)
	assert.Equal(t, "a/b/", listing.Folders[0].Path)
	assert.Equal(t, "a/c/", listing.Folders[1].Path)
	assert.Equal(t, 2, listing.Folders[0].Level)

	// README.md lives at the root, not under a/.
	assert.Empty(t, listing.Files)
}

func TestListDirectory_EmptyFolderMarker(t *testing.T) {
	objects := objs("docs/")

	root, err := ListDirectory(objects, "")
	require.NoError(t, err)
	require.Len(t, root.Folders, 1)
	assert.Equal(t, FolderNode{Path: "docs/", Name: "docs", Level: 1}, root.Folders[0])
	assert.Empty(t, root.Files)

	// Inside the empty folder both lists are empty: the folder's own marker
	// object is filtered out.
	inside, err := ListDirectory(objects, "docs/")
	require.NoError(t, err)
	assert.Empty(t, inside.Folders)
	assert.Empty(t, inside.Files)
}

func TestListDirectory_FoldersBeforeFilesOrdinalOrder(t *testing.T) {
	objects := objs(
		"dir/zeta.txt",
		"dir/Alpha.txt",
		"dir/beta/x",
		"dir/Zeta/y",
	)

	listing, err := ListDirectory(objects, "dir/")
	require.NoError(t, err)

	// Ordinal comparison: uppercase sorts before lowercase.
	require.Len(t, listing.Folders, 2)
	assert.Equal(t, "Zeta", listing.Folders[0].Name)
	assert.Equal(t, "beta", listing.Folders[1].Name)

	require.Len(t, listing.Files, 2)
	assert.Equal(t, "dir/Alpha.txt", listing.Files[0].Key)
	assert.Equal(t, "dir/zeta.txt", listing.Files[1].Key)
}

func TestListDirectory_InvalidPath(t *testing.T) {
	tests := []struct {
		name        string
		currentPath string
	}{
		{"missing trailing delimiter", "a/b"},
		{"leading delimiter", "/a/"},
		{"empty segment", "a//b/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, err := ListDirectory(objs("a/b/x"), tt.currentPath)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPath))
			assert.Nil(t, listing)
		})
	}
}

func TestListDirectory_MalformedKeySurfaces(t *testing.T) {
	listing, err := ListDirectory(objs("a//b.txt"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedKey))
	assert.Nil(t, listing)
}

func TestFormatDelimiterListing(t *testing.T) {
	listing, err := FormatDelimiterListing(
		"photos/",
		[]string{"photos/2024/", "photos/2023/"},
		[]Object{
			{Key: "photos/", Size: 0, LastModified: listFixtureTime},
			{Key: "photos/cover.jpg", Size: 1024, LastModified: listFixtureTime},
		},
	)
	require.NoError(t, err)

	require.Len(t, listing.Folders, 2)
	assert.Equal(t, "photos/2023/", listing.Folders[0].Path)
	assert.Equal(t, "photos/2024/", listing.Folders[1].Path)
	assert.Equal(t, 2, listing.Folders[0].Level)

	// The prefix's own marker came back as a key; it must not be a file.
	require.Len(t, listing.Files, 1)
	assert.Equal(t, "photos/cover.jpg", listing.Files[0].Key)
}

func TestFormatDelimiterListing_RootContract(t *testing.T) {
	listing, err := FormatDelimiterListing("", []string{"a/"}, objs("top.txt"))
	require.NoError(t, err)
	require.Len(t, listing.Folders, 1)
	assert.Equal(t, 1, listing.Folders[0].Level)
	require.Len(t, listing.Files, 1)

	_, err = FormatDelimiterListing("bad", nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidPath))
}
