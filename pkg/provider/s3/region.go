package s3

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// imdsTimeout bounds the instance-metadata probe so region resolution never
// hangs a startup outside EC2.
const imdsTimeout = 2 * time.Second

// resolveRegion determines the final region to use after SDK config loading.
//
// The sdkRegion parameter is the region after SDK loading, which already
// incorporates explicit config (via config.WithRegion) and env/profile
// resolution. This function only handles the empty case:
//   - S3-compatible stores (endpoint set) get no default; they may not need one.
//   - For AWS S3, EC2 instance metadata is probed, then us-east-1 applies.
func resolveRegion(ctx context.Context, endpoint, sdkRegion string) string {
	if sdkRegion != "" {
		return sdkRegion
	}

	if endpoint != "" {
		return ""
	}

	if r := imdsRegion(ctx); r != "" {
		return r
	}
	return DefaultAWSRegion
}

// imdsRegion asks the EC2 instance metadata service for the local region.
// Returns "" on any failure, including running outside EC2.
func imdsRegion(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, imdsTimeout)
	defer cancel()

	out, err := imds.New(imds.Options{}).GetRegion(ctx, &imds.GetRegionInput{})
	if err != nil {
		return ""
	}
	return out.Region
}
