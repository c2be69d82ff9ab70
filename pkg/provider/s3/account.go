package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/SPJDevOps/PocketS3/pkg/provider"
)

// Account is an account-scoped S3 client for bucket-level operations.
// It shares the Config credential and endpoint handling with Provider but
// is not tied to any single bucket.
type Account struct {
	client *s3.Client
	region string
}

var (
	_ provider.BucketLister  = (*Account)(nil)
	_ provider.BucketCreator = (*Account)(nil)
)

// NewAccount creates an account-scoped S3 client. cfg.Bucket is ignored.
func NewAccount(ctx context.Context, cfg Config) (*Account, error) {
	if err := cfg.ValidateAccount(); err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, &provider.ProviderError{
			Op:       "NewAccount",
			Provider: provider.ProviderS3,
			Err:      err,
		}
	}

	s3Opts := []func(*s3.Options){
		func(o *s3.Options) {
			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}
		},
	}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Account{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		region: awsCfg.Region,
	}, nil
}

// ListBuckets returns the buckets visible to the configured credentials.
func (a *Account) ListBuckets(ctx context.Context) ([]provider.BucketInfo, error) {
	output, err := a.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, wrapS3Error("ListBuckets", "", "", err)
	}

	buckets := make([]provider.BucketInfo, 0, len(output.Buckets))
	for _, b := range output.Buckets {
		buckets = append(buckets, provider.BucketInfo{
			Name:         aws.ToString(b.Name),
			CreationDate: aws.ToTime(b.CreationDate),
		})
	}
	return buckets, nil
}

// CreateBucket creates a bucket. An empty region uses the client's region.
// S3 rejects a LocationConstraint of us-east-1, so the constraint is attached
// only when the target region differs from it.
func (a *Account) CreateBucket(ctx context.Context, name, region string) error {
	if region == "" {
		region = a.region
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(name),
	}
	if needsLocationConstraint(region) {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := a.client.CreateBucket(ctx, input); err != nil {
		return wrapS3Error("CreateBucket", name, "", err)
	}
	return nil
}

// needsLocationConstraint reports whether CreateBucket must carry an explicit
// LocationConstraint for the region.
func needsLocationConstraint(region string) bool {
	return region != "" && region != DefaultAWSRegion
}
