package bucketview

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SPJDevOps/PocketS3/pkg/provider"
)

// fakeStorage is an in-memory Storage with S3 listing semantics: flat keys,
// lexicographic pages, delimiter grouping.
type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string]fakeObject
	listErr  error
	getErr   error
	putErr   error
	delErr   error
	listCall int
}

type fakeObject struct {
	data     []byte
	modified time.Time
}

var fixtureTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func nopBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newFakeStorage(keys ...string) *fakeStorage {
	f := &fakeStorage{objects: map[string]fakeObject{}}
	for _, key := range keys {
		var data []byte
		if !strings.HasSuffix(key, "/") {
			data = []byte("content of " + key)
		}
		f.objects[key] = fakeObject{data: data, modified: fixtureTime}
	}
	return f
}

func (f *fakeStorage) sortedKeys(prefix string) []string {
	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (f *fakeStorage) summary(key string) provider.ObjectSummary {
	obj := f.objects[key]
	return provider.ObjectSummary{
		Key:          key,
		Size:         int64(len(obj.data)),
		LastModified: obj.modified,
	}
}

func (f *fakeStorage) List(_ context.Context, opts provider.ListOptions) (*provider.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCall++
	if f.listErr != nil {
		return nil, f.listErr
	}

	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = 1000
	}

	result := &provider.ListResult{}
	for _, key := range f.sortedKeys(opts.Prefix) {
		if opts.ContinuationToken != "" && key <= opts.ContinuationToken {
			continue
		}
		if len(result.Objects) == maxKeys {
			result.IsTruncated = true
			result.ContinuationToken = result.Objects[len(result.Objects)-1].Key
			break
		}
		result.Objects = append(result.Objects, f.summary(key))
	}
	return result, nil
}

func (f *fakeStorage) ListWithDelimiter(_ context.Context, opts provider.ListWithDelimiterOptions) (*provider.ListWithDelimiterResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCall++
	if f.listErr != nil {
		return nil, f.listErr
	}

	result := &provider.ListWithDelimiterResult{}
	seen := map[string]bool{}
	for _, key := range f.sortedKeys(opts.Prefix) {
		rest := key[len(opts.Prefix):]
		if idx := strings.Index(rest, opts.Delimiter); opts.Delimiter != "" && idx >= 0 {
			cp := opts.Prefix + rest[:idx+1]
			if !seen[cp] {
				seen[cp] = true
				result.CommonPrefixes = append(result.CommonPrefixes, cp)
			}
			continue
		}
		result.Objects = append(result.Objects, f.summary(key))
	}
	return result, nil
}

func (f *fakeStorage) GetObject(_ context.Context, key string) (io.ReadCloser, *provider.ObjectMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, nil, f.getErr
	}

	obj, ok := f.objects[key]
	if !ok {
		return nil, nil, &provider.ProviderError{
			Op: "GetObject", Provider: provider.ProviderS3, Bucket: "fake", Key: key,
			Err: provider.ErrNotFound,
		}
	}

	meta := &provider.ObjectMeta{
		ObjectSummary: f.summary(key),
		ContentType:   "application/octet-stream",
	}
	return io.NopCloser(bytes.NewReader(obj.data)), meta, nil
}

func (f *fakeStorage) PutObject(_ context.Context, key string, body io.Reader, _ int64) error {
	if f.putErr != nil {
		return f.putErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{data: data, modified: fixtureTime}
	return nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) DeleteObjects(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.delErr != nil {
		return f.delErr
	}
	for _, key := range keys {
		delete(f.objects, key)
	}
	return nil
}
