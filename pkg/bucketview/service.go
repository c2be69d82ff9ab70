// Package bucketview exposes bucket browsing operations: the folder tree,
// single-level directory listings, search, uploads, downloads, folder
// markers, and deletes. It sits between the HTTP/CLI surfaces and the
// storage provider and owns pagination, rate limiting, and enumeration caps.
package bucketview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/SPJDevOps/PocketS3/pkg/fstree"
	"github.com/SPJDevOps/PocketS3/pkg/match"
	"github.com/SPJDevOps/PocketS3/pkg/provider"
)

// Storage is the provider surface the service needs. The concrete S3
// provider satisfies it; tests use in-memory fakes.
type Storage interface {
	provider.Lister
	provider.DelimiterLister
	provider.ObjectGetter
	provider.ObjectPutter
	provider.ObjectDeleter
}

// Config tunes enumeration behavior.
type Config struct {
	// PageSize is the listing page size. Zero uses the provider default.
	PageSize int

	// MaxObjects caps how many objects a full enumeration (tree build,
	// search, recursive delete) may visit. Exceeding the cap is an error,
	// never a silently truncated result. Zero means DefaultMaxObjects.
	MaxObjects int

	// RequestsPerSecond throttles listing calls against the provider.
	// Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size. Zero means 1 when throttling
	// is enabled.
	Burst int
}

// DefaultMaxObjects bounds full enumerations unless configured otherwise.
const DefaultMaxObjects = 1_000_000

// ErrTooManyObjects indicates a full enumeration hit the configured object
// cap before completing.
var ErrTooManyObjects = errors.New("bucket enumeration exceeds configured object limit")

// ErrInvalidArgument indicates a caller-supplied key, path, or filename the
// operation cannot accept.
var ErrInvalidArgument = errors.New("invalid argument")

// Service provides browsing operations over one bucket.
type Service struct {
	storage    Storage
	limiter    *rate.Limiter
	logger     *zap.Logger
	pageSize   int
	maxObjects int
}

// NewService creates a Service. A nil logger disables logging.
func NewService(storage Storage, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	maxObjects := cfg.MaxObjects
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}

	return &Service{
		storage:    storage,
		limiter:    limiter,
		logger:     logger,
		pageSize:   cfg.PageSize,
		maxObjects: maxObjects,
	}
}

// BuildTree derives the complete folder hierarchy from a full key
// enumeration. The result is computed fresh on every call; nothing is
// cached or persisted, so it always reflects current bucket contents.
func (s *Service) BuildTree(ctx context.Context) ([]fstree.FolderNode, error) {
	builder := fstree.NewBuilder()
	start := time.Now()

	count, err := s.walkObjects(ctx, "", func(obj provider.ObjectSummary) error {
		return builder.Add(obj.Key)
	})
	if err != nil {
		return nil, err
	}

	nodes := builder.Nodes()
	s.logger.Debug("tree built",
		zap.Int("objects", count),
		zap.Int("folders", len(nodes)),
		zap.Duration("elapsed", time.Since(start)))
	return nodes, nil
}

// ListDirectory returns the folders and files directly under currentPath
// using delimiter listing, so it costs one provider round trip per page
// regardless of how deep the bucket nests.
func (s *Service) ListDirectory(ctx context.Context, currentPath string) (*fstree.Listing, error) {
	var (
		objects  []fstree.Object
		prefixes []string
		token    string
	)

	for {
		if err := s.waitListing(ctx); err != nil {
			return nil, err
		}

		page, err := s.storage.ListWithDelimiter(ctx, provider.ListWithDelimiterOptions{
			Prefix:            currentPath,
			Delimiter:         fstree.Delimiter,
			ContinuationToken: token,
			MaxKeys:           s.pageSize,
		})
		if err != nil {
			return nil, err
		}

		for _, obj := range page.Objects {
			objects = append(objects, fstree.Object{
				Key:          obj.Key,
				Size:         obj.Size,
				LastModified: obj.LastModified,
			})
		}
		prefixes = append(prefixes, page.CommonPrefixes...)

		if !page.IsTruncated || page.ContinuationToken == "" {
			break
		}
		token = page.ContinuationToken
	}

	return fstree.FormatDelimiterListing(currentPath, prefixes, objects)
}

// SearchResult is one search hit.
type SearchResult struct {
	// Key is the full object key, including the trailing delimiter for
	// folder markers.
	Key string `json:"key"`

	// IsFolder indicates the hit is a folder marker.
	IsFolder bool `json:"isFolder"`

	// Size is the object size in bytes. Zero for folders.
	Size int64 `json:"size"`

	// LastModified is the object's modification time.
	LastModified time.Time `json:"lastModified"`
}

// SearchOptions scopes a search.
type SearchOptions struct {
	// Scope restricts the keys considered. Nil means every key.
	Scope *match.Matcher

	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// errLimitReached stops a walk early once enough hits are collected.
var errLimitReached = errors.New("limit reached")

// Search returns keys whose name contains the query, case-insensitively.
// Folder markers match too and are flagged as folders.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	needle := strings.ToLower(query)
	results := []SearchResult{}

	listPrefixes := []string{""}
	if opts.Scope != nil {
		listPrefixes = opts.Scope.Prefixes()
	}

	for _, listPrefix := range listPrefixes {
		_, err := s.walkObjects(ctx, listPrefix, func(obj provider.ObjectSummary) error {
			if !strings.Contains(strings.ToLower(obj.Key), needle) {
				return nil
			}
			if opts.Scope != nil && !opts.Scope.Match(obj.Key) {
				return nil
			}

			isFolder := strings.HasSuffix(obj.Key, fstree.Delimiter)
			result := SearchResult{
				Key:          obj.Key,
				IsFolder:     isFolder,
				LastModified: obj.LastModified,
			}
			if !isFolder {
				result.Size = obj.Size
			}
			results = append(results, result)

			if opts.Limit > 0 && len(results) >= opts.Limit {
				return errLimitReached
			}
			return nil
		})
		if err != nil && !errors.Is(err, errLimitReached) {
			return nil, err
		}
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}

	return results, nil
}

// Upload stores a file under prefix. The prefix is normalized to end with
// the delimiter; empty prefix uploads to the bucket root. Returns the full
// key of the stored object.
func (s *Service) Upload(ctx context.Context, prefix, filename string, body io.Reader, size int64) (string, error) {
	if filename == "" || strings.Contains(filename, fstree.Delimiter) {
		return "", fmt.Errorf("%w: filename %q", ErrInvalidArgument, filename)
	}

	key := NormalizePrefix(prefix) + filename
	if err := s.storage.PutObject(ctx, key, body, size); err != nil {
		return "", err
	}

	s.logger.Info("object uploaded", zap.String("key", key), zap.Int64("size", size))
	return key, nil
}

// Download streams an object's content. The caller must close the reader.
func (s *Service) Download(ctx context.Context, key string) (io.ReadCloser, *provider.ObjectMeta, error) {
	if key == "" || strings.HasSuffix(key, fstree.Delimiter) {
		return nil, nil, fmt.Errorf("%w: object key %q", ErrInvalidArgument, key)
	}
	return s.storage.GetObject(ctx, key)
}

// CreateFolder writes a zero-byte folder marker. The path is normalized to
// end with the delimiter. Returns the marker key.
func (s *Service) CreateFolder(ctx context.Context, path string) (string, error) {
	trimmed := strings.TrimSuffix(path, fstree.Delimiter)
	if trimmed == "" {
		return "", fmt.Errorf("%w: folder path is required", ErrInvalidArgument)
	}

	key := trimmed + fstree.Delimiter
	if err := s.storage.PutObject(ctx, key, strings.NewReader(""), 0); err != nil {
		return "", err
	}

	s.logger.Info("folder created", zap.String("key", key))
	return key, nil
}

// Delete removes an object. A key ending with the delimiter is treated as a
// folder: every key under the prefix, the marker included, is enumerated and
// deleted in batches. Returns the number of objects removed.
func (s *Service) Delete(ctx context.Context, key string) (int, error) {
	if key == "" {
		return 0, fmt.Errorf("%w: object key is required", ErrInvalidArgument)
	}

	if !strings.HasSuffix(key, fstree.Delimiter) {
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			return 0, err
		}
		s.logger.Info("object deleted", zap.String("key", key))
		return 1, nil
	}

	var keys []string
	_, err := s.walkObjects(ctx, key, func(obj provider.ObjectSummary) error {
		keys = append(keys, obj.Key)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(keys) == 0 {
		return 0, nil
	}

	if err := s.storage.DeleteObjects(ctx, keys); err != nil {
		return 0, err
	}

	s.logger.Info("folder deleted", zap.String("prefix", key), zap.Int("objects", len(keys)))
	return len(keys), nil
}

// walkObjects enumerates every object under prefix, calling visit for each.
// It enforces the object cap and the listing rate limit, and returns the
// number of objects visited.
func (s *Service) walkObjects(ctx context.Context, prefix string, visit func(provider.ObjectSummary) error) (int, error) {
	var (
		token string
		count int
	)

	for {
		if err := s.waitListing(ctx); err != nil {
			return count, err
		}

		page, err := s.storage.List(ctx, provider.ListOptions{
			Prefix:            prefix,
			ContinuationToken: token,
			MaxKeys:           s.pageSize,
		})
		if err != nil {
			return count, err
		}

		for _, obj := range page.Objects {
			count++
			if count > s.maxObjects {
				return count, fmt.Errorf("%w (limit %d)", ErrTooManyObjects, s.maxObjects)
			}
			if err := visit(obj); err != nil {
				return count, err
			}
		}

		if !page.IsTruncated || page.ContinuationToken == "" {
			return count, nil
		}
		token = page.ContinuationToken
	}
}

// waitListing blocks until the rate limiter admits another listing call.
func (s *Service) waitListing(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// NormalizePrefix ensures a non-empty prefix ends with the delimiter.
// Empty stays empty (bucket root).
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, fstree.Delimiter) {
		return prefix + fstree.Delimiter
	}
	return prefix
}
