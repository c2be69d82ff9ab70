package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/SPJDevOps/PocketS3/internal/errors"
	"github.com/SPJDevOps/PocketS3/pkg/bucketview"
	"github.com/SPJDevOps/PocketS3/pkg/provider"
)

// AccountClient is the account-scoped provider surface the API needs.
type AccountClient interface {
	provider.BucketLister
	provider.BucketCreator
}

// BucketOpener yields a browsing service for one bucket.
type BucketOpener func(ctx context.Context, bucket string) (*bucketview.Service, error)

// API serves the bucket browsing endpoints under /api.
type API struct {
	account AccountClient
	open    BucketOpener
	logger  *zap.Logger
}

// NewAPI wires the API handlers. A nil logger disables logging.
func NewAPI(account AccountClient, open BucketOpener, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{account: account, open: open, logger: logger}
}

// Routes builds the API router.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/buckets", a.handleListBuckets)
	r.Post("/buckets", a.handleCreateBucket)

	r.Route("/buckets/{bucket}", func(r chi.Router) {
		r.Get("/objects", a.handleListObjects)
		r.Delete("/objects/*", a.handleDeleteObject)
		r.Get("/tree", a.handleTree)
		r.Post("/upload", a.handleUpload)
		r.Post("/folder", a.handleCreateFolder)
		r.Get("/download/*", a.handleDownload)
		r.Get("/search", a.handleSearch)
	})

	return r
}

// bucketSummary is one entry in the bucket list response.
type bucketSummary struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creationDate"`
}

func (a *API) handleListBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := a.account.ListBuckets(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	out := make([]bucketSummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketSummary{Name: b.Name, CreationDate: b.CreationDate})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateBucket(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("bucket_name"))
	if name == "" {
		respondWithError(w, r, apperrors.InvalidArgument("bucket_name is required"))
		return
	}
	region := strings.TrimSpace(r.FormValue("region"))

	if err := a.account.CreateBucket(r.Context(), name, region); err != nil {
		respondWithError(w, r, err)
		return
	}

	a.logger.Info("bucket created", zap.String("bucket", name), zap.String("region", region))
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Bucket created successfully",
		"bucket":  name,
	})
}

// service resolves the browsing service for the bucket in the route.
func (a *API) service(r *http.Request) (*bucketview.Service, string, error) {
	bucket := chi.URLParam(r, "bucket")
	if bucket == "" {
		return nil, "", apperrors.InvalidArgument("bucket name is required")
	}

	svc, err := a.open(r.Context(), bucket)
	if err != nil {
		return nil, "", err
	}
	return svc, bucket, nil
}
