package provider

import (
	"context"
	"time"
)

// BucketInfo describes one bucket as reported by the storage backend.
// The creation date is passed through verbatim; nothing is synthesized.
type BucketInfo struct {
	// Name is the bucket name.
	Name string

	// CreationDate is when the bucket was created, if the backend reports it.
	CreationDate time.Time
}

// BucketLister enumerates the buckets visible to the configured credentials.
type BucketLister interface {
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
}

// BucketCreator creates buckets. Region is optional; implementations decide
// whether it needs a location constraint.
type BucketCreator interface {
	CreateBucket(ctx context.Context, name, region string) error
}
