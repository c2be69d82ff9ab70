package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		wantErr     error
		errContains string
		want        *ObjectURI
	}{
		{
			name: "simple bucket",
			uri:  "s3://my-bucket",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket"},
		},
		{
			name: "bucket with trailing slash",
			uri:  "s3://my-bucket/",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket"},
		},
		{
			name: "bucket with key",
			uri:  "s3://my-bucket/path/to/object.txt",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket", Key: "path/to/object.txt"},
		},
		{
			name: "bucket with prefix",
			uri:  "s3://my-bucket/path/to/prefix/",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket", Key: "path/to/prefix/"},
		},
		{
			name: "bucket with glob pattern",
			uri:  "s3://my-bucket/data/2024/**/*.csv",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket", Key: "data/2024/", Pattern: "data/2024/**/*.csv"},
		},
		{
			name: "star pattern at root",
			uri:  "s3://my-bucket/*.txt",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket", Key: "", Pattern: "*.txt"},
		},
		{
			name: "question mark pattern",
			uri:  "s3://my-bucket/data/file?.csv",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket", Key: "data/", Pattern: "data/file?.csv"},
		},
		{
			name: "escaped star is a literal",
			uri:  `s3://my-bucket/data/file\*.txt`,
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket", Key: "data/file*.txt"},
		},
		{
			name: "uppercase scheme",
			uri:  "S3://my-bucket/path",
			want: &ObjectURI{Provider: "s3", Bucket: "my-bucket", Key: "path"},
		},
		{
			name:        "empty URI",
			uri:         "",
			wantErr:     ErrInvalidURI,
			errContains: "empty",
		},
		{
			name:        "missing scheme",
			uri:         "my-bucket/path",
			wantErr:     ErrInvalidURI,
			errContains: "missing scheme",
		},
		{
			name:        "unsupported scheme",
			uri:         "gcs://my-bucket/path",
			wantErr:     ErrUnsupportedProvider,
			errContains: "gcs",
		},
		{
			name:    "missing bucket",
			uri:     "s3:///path",
			wantErr: ErrMissingBucket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURI(tt.uri)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Provider, got.Provider)
			assert.Equal(t, tt.want.Bucket, got.Bucket)
			assert.Equal(t, tt.want.Key, got.Key)
			assert.Equal(t, tt.want.Pattern, got.Pattern)
		})
	}
}

func TestObjectURI_String(t *testing.T) {
	tests := []struct {
		name string
		uri  *ObjectURI
		want string
	}{
		{
			name: "bucket only",
			uri:  &ObjectURI{Provider: "s3", Bucket: "bucket"},
			want: "s3://bucket/",
		},
		{
			name: "bucket with key",
			uri:  &ObjectURI{Provider: "s3", Bucket: "bucket", Key: "path/to/file.txt"},
			want: "s3://bucket/path/to/file.txt",
		},
		{
			name: "bucket with pattern",
			uri:  &ObjectURI{Provider: "s3", Bucket: "bucket", Key: "data/", Pattern: "data/**/*.csv"},
			want: "s3://bucket/data/**/*.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.uri.String())
		})
	}
}

func TestObjectURI_IsPrefix(t *testing.T) {
	assert.True(t, (&ObjectURI{Key: ""}).IsPrefix())
	assert.True(t, (&ObjectURI{Key: "path/"}).IsPrefix())
	assert.False(t, (&ObjectURI{Key: "path/file.txt"}).IsPrefix())
}

func TestObjectURI_IsPattern(t *testing.T) {
	assert.False(t, (&ObjectURI{Key: "path/"}).IsPattern())
	assert.True(t, (&ObjectURI{Key: "data/", Pattern: "data/**/*.csv"}).IsPattern())
}
