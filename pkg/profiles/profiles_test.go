package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFile(t *testing.T) {
	f, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, f.Profiles)
	assert.Empty(t, f.Default)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")

	f := &File{Default: "minio"}
	f.Set("minio", Profile{
		Endpoint:       "http://localhost:9000",
		ForcePathStyle: true,
		DefaultBucket:  "media",
	})
	f.Set("prod", Profile{Region: "eu-west-1", AWSProfile: "prod-readonly"})
	require.NoError(t, f.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "minio", loaded.Default)
	assert.Equal(t, []string{"minio", "prod"}, loaded.Names())

	p, err := loaded.Get("minio")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", p.Endpoint)
	assert.True(t, p.ForcePathStyle)
}

func TestGet_DefaultResolution(t *testing.T) {
	f := &File{Default: "minio"}
	f.Set("minio", Profile{Endpoint: "http://localhost:9000"})

	p, err := f.Get("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", p.Endpoint)

	// No default, no name: empty profile, no error
	empty := &File{}
	p, err = empty.Get("")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)

	_, err = f.Get("missing")
	assert.ErrorContains(t, err, `profile "missing" not found`)
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default: [broken"), 0600))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "failed to parse profiles file")
}
