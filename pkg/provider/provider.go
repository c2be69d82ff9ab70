// Package provider defines the object-storage abstractions the file manager
// is built on.
//
// The browsing core consumes listing capabilities only; upload, download,
// folder-marker, and delete operations are separate optional interfaces so
// fakes in tests implement exactly what they need. Implementations use SDK
// default credential chains and must be safe for concurrent use.
package provider

import (
	"context"
	"io"
	"time"
)

// Lister is the minimal capability the tree builder depends on: paged
// enumeration of object keys under a prefix.
type Lister interface {
	// List returns a page of objects with the given prefix.
	// Use ContinuationToken from ListResult for subsequent pages.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
}

// Provider is the full bucket-scoped storage surface.
type Provider interface {
	Lister

	// Head returns metadata for a single object.
	// Returns ErrNotFound if the object does not exist.
	Head(ctx context.Context, key string) (*ObjectMeta, error)

	// Close releases any resources held by the provider.
	Close() error
}

// ListOptions configures a List operation.
type ListOptions struct {
	// Prefix filters results to keys starting with this value.
	// Empty string lists all objects.
	Prefix string

	// ContinuationToken resumes listing from a previous ListResult.
	// Empty string starts from the beginning.
	ContinuationToken string

	// MaxKeys limits the number of objects returned per page.
	// Zero uses provider default (typically 1000).
	MaxKeys int
}

// ListResult contains a page of objects from a List operation.
type ListResult struct {
	// Objects contains the object summaries for this page.
	Objects []ObjectSummary

	// ContinuationToken is used to retrieve the next page.
	// Empty string indicates no more pages.
	ContinuationToken string

	// IsTruncated indicates whether more results are available.
	IsTruncated bool
}

// ObjectSummary contains basic metadata returned from List operations.
type ObjectSummary struct {
	// Key is the full object key (path) in the bucket.
	Key string

	// Size is the object size in bytes.
	Size int64

	// ETag is the entity tag, typically an MD5 hash of the object.
	ETag string

	// LastModified is when the object was last modified.
	LastModified time.Time
}

// ObjectMeta contains full metadata for a single object.
// Returned by Head and GetObject operations.
type ObjectMeta struct {
	ObjectSummary

	// ContentType is the MIME type of the object.
	ContentType string

	// Metadata contains user-defined metadata key-value pairs.
	Metadata map[string]string
}

// ObjectGetter retrieves object content for download streaming.
type ObjectGetter interface {
	// GetObject returns the object's content and metadata.
	// The caller owns the returned reader and must close it.
	// Returns ErrNotFound if the object does not exist.
	GetObject(ctx context.Context, key string) (io.ReadCloser, *ObjectMeta, error)
}

// ObjectPutter uploads object content. A folder marker is an upload of a
// zero-byte body under a key ending in the delimiter.
type ObjectPutter interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

// ObjectDeleter removes objects, singly or in batches. Batch size ceilings
// are the implementation's concern (S3 caps DeleteObjects at 1000 keys).
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
	DeleteObjects(ctx context.Context, keys []string) error
}

// ProviderType identifies a storage provider.
type ProviderType string

const (
	// ProviderS3 represents AWS S3 or S3-compatible storage.
	ProviderS3 ProviderType = "s3"
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	return string(p)
}
