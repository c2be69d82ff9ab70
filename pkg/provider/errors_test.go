package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ProviderError
		want string
	}{
		{
			name: "with key",
			err:  &ProviderError{Op: "GetObject", Provider: ProviderS3, Bucket: "media", Key: "a/b.txt", Err: ErrNotFound},
			want: "s3 GetObject: media/a/b.txt: object not found",
		},
		{
			name: "bucket only",
			err:  &ProviderError{Op: "List", Provider: ProviderS3, Bucket: "media", Err: ErrAccessDenied},
			want: "s3 List: media: access denied",
		},
		{
			name: "no bucket",
			err:  &ProviderError{Op: "ListBuckets", Provider: ProviderS3, Err: ErrInvalidCredentials},
			want: "s3 ListBuckets: invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSentinelHelpers(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &ProviderError{Op: "Head", Provider: ProviderS3, Err: ErrNotFound})

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsAccessDenied(wrapped))
	assert.False(t, IsNotFound(errors.New("plain")))

	assert.True(t, IsBucketExists(&ProviderError{Op: "CreateBucket", Provider: ProviderS3, Err: ErrBucketExists}))
	assert.True(t, IsThrottled(fmt.Errorf("w: %w", ErrThrottled)))
	assert.True(t, IsProviderUnavailable(fmt.Errorf("w: %w", ErrProviderUnavailable)))
	assert.True(t, IsBucketNotFound(fmt.Errorf("w: %w", ErrBucketNotFound)))
	assert.True(t, IsInvalidCredentials(fmt.Errorf("w: %w", ErrInvalidCredentials)))
}
