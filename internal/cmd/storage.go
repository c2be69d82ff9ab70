package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SPJDevOps/PocketS3/internal/config"
	"github.com/SPJDevOps/PocketS3/internal/observability"
	"github.com/SPJDevOps/PocketS3/pkg/bucketview"
	"github.com/SPJDevOps/PocketS3/pkg/profiles"
	"github.com/SPJDevOps/PocketS3/pkg/provider/s3"
)

// storageSettings is the resolved connection configuration shared by every
// command that talks to a bucket. Precedence: flags, then the named profile,
// then the config file.
type storageSettings struct {
	Endpoint       string
	Region         string
	AWSProfile     string
	ForcePathStyle bool

	// DefaultBucket comes from the profile only; commands that take a URI
	// ignore it.
	DefaultBucket string
}

// resolveStorage merges the config file, the selected profile, and the
// connection flags into one set of settings.
func resolveStorage() (storageSettings, error) {
	cfg := config.GetConfig()

	settings := storageSettings{
		Endpoint:       cfg.Storage.Endpoint,
		Region:         cfg.Storage.Region,
		AWSProfile:     cfg.Storage.AWSProfile,
		ForcePathStyle: cfg.Storage.ForcePathStyle,
	}

	profileName := cfg.Storage.Profile
	if flagProfile != "" {
		profileName = flagProfile
	}

	file, err := profiles.Load()
	if err != nil {
		return storageSettings{}, fmt.Errorf("load profiles: %w", err)
	}
	prof, err := file.Get(profileName)
	if err != nil {
		return storageSettings{}, fmt.Errorf("profile %q: %w", profileName, err)
	}
	if prof.Endpoint != "" {
		settings.Endpoint = prof.Endpoint
	}
	if prof.Region != "" {
		settings.Region = prof.Region
	}
	if prof.AWSProfile != "" {
		settings.AWSProfile = prof.AWSProfile
	}
	if prof.ForcePathStyle {
		settings.ForcePathStyle = true
	}
	settings.DefaultBucket = prof.DefaultBucket

	if flagEndpoint != "" {
		settings.Endpoint = flagEndpoint
	}
	if flagRegion != "" {
		settings.Region = flagRegion
	}
	if flagAWSProfile != "" {
		settings.AWSProfile = flagAWSProfile
	}
	if flagPathStyle {
		settings.ForcePathStyle = true
	}

	return settings, nil
}

// bucketConfig builds the provider configuration for one bucket.
func (s storageSettings) bucketConfig(bucket string) s3.Config {
	return s3.Config{
		Bucket:         bucket,
		Region:         s.Region,
		Endpoint:       s.Endpoint,
		Profile:        s.AWSProfile,
		ForcePathStyle: s.ForcePathStyle,
	}
}

// accountConfig builds the provider configuration for account-level calls
// (bucket listing and creation).
func (s storageSettings) accountConfig() s3.Config {
	return s3.Config{
		Region:         s.Region,
		Endpoint:       s.Endpoint,
		Profile:        s.AWSProfile,
		ForcePathStyle: s.ForcePathStyle,
	}
}

// listingConfig carries the traversal limits from the config file into the
// browsing service.
func listingConfig() bucketview.Config {
	listing := config.GetConfig().Listing
	return bucketview.Config{
		PageSize:          listing.PageSize,
		MaxObjects:        listing.MaxObjects,
		RequestsPerSecond: listing.RequestsPerSecond,
		Burst:             listing.Burst,
	}
}

// openBucketService connects to one bucket and wraps it in the browsing
// service. The caller owns the provider and must Close it.
func openBucketService(ctx context.Context, bucket string) (*bucketview.Service, *s3.Provider, error) {
	settings, err := resolveStorage()
	if err != nil {
		return nil, nil, err
	}

	prov, err := s3.New(ctx, settings.bucketConfig(bucket))
	if err != nil {
		return nil, nil, err
	}

	svc := bucketview.NewService(prov, listingConfig(), observability.CLILogger.With(zap.String("bucket", bucket)))
	return svc, prov, nil
}
