package handlers

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/SPJDevOps/PocketS3/internal/errors"
	"github.com/SPJDevOps/PocketS3/pkg/bucketview"
	"github.com/SPJDevOps/PocketS3/pkg/fstree"
	"github.com/SPJDevOps/PocketS3/pkg/match"
)

// maxUploadMemory is how much of a multipart upload is buffered in memory
// before spilling to disk.
const maxUploadMemory = 32 << 20

// fileEntry is one file in a listing or search response.
type fileEntry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	Type         string    `json:"type"`
}

// folderEntry is one folder in a listing or search response.
type folderEntry struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// directoryResponse is the body for listings and searches.
type directoryResponse struct {
	Files   []fileEntry   `json:"files"`
	Folders []folderEntry `json:"folders"`
}

func (a *API) handleListObjects(w http.ResponseWriter, r *http.Request) {
	svc, _, err := a.service(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	prefix := r.URL.Query().Get("prefix")
	listing, err := svc.ListDirectory(r.Context(), prefix)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	resp := directoryResponse{
		Files:   make([]fileEntry, 0, len(listing.Files)),
		Folders: make([]folderEntry, 0, len(listing.Folders)),
	}
	for _, f := range listing.Files {
		resp.Files = append(resp.Files, fileEntry{
			Key:          f.Key,
			Size:         f.Size,
			LastModified: f.LastModified,
			Type:         "file",
		})
	}
	for _, folder := range listing.Folders {
		resp.Folders = append(resp.Folders, folderEntry{Key: folder.Path, Type: "folder"})
	}

	writeJSON(w, http.StatusOK, resp)
}

// treeResponse is the body of the tree endpoint.
type treeResponse struct {
	Folders []fstree.FolderNode `json:"folders"`
}

func (a *API) handleTree(w http.ResponseWriter, r *http.Request) {
	svc, bucket, err := a.service(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	nodes, err := svc.BuildTree(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	a.logger.Debug("tree served", zap.String("bucket", bucket), zap.Int("folders", len(nodes)))
	writeJSON(w, http.StatusOK, treeResponse{Folders: nodes})
}

func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	svc, _, err := a.service(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondWithError(w, r, apperrors.InvalidArgument("multipart form expected: "+err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, r, apperrors.InvalidArgument("file field is required"))
		return
	}
	defer file.Close()

	prefix := r.FormValue("prefix")
	key, err := svc.Upload(r.Context(), prefix, header.Filename, file, header.Size)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "File uploaded successfully",
		"key":     key,
	})
}

func (a *API) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	svc, _, err := a.service(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	key, err := svc.CreateFolder(r.Context(), r.FormValue("prefix"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Folder created successfully",
		"key":     key,
	})
}

func (a *API) handleDownload(w http.ResponseWriter, r *http.Request) {
	svc, _, err := a.service(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	key, err := wildcardKey(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	body, meta, err := svc.Download(r.Context(), key)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	defer body.Close()

	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": path.Base(key),
	}))

	if _, err := io.Copy(w, body); err != nil {
		// Headers are gone; all we can do is log the broken transfer.
		a.logger.Warn("download aborted", zap.String("key", key), zap.Error(err))
	}
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	svc, _, err := a.service(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	resp := directoryResponse{Files: []fileEntry{}, Folders: []folderEntry{}}
	if query == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	opts := bucketview.SearchOptions{}
	includes := splitPatterns(r.URL.Query().Get("include"))
	excludes := splitPatterns(r.URL.Query().Get("exclude"))
	if len(includes) > 0 || len(excludes) > 0 {
		scope, err := match.New(match.Config{Includes: includes, Excludes: excludes})
		if err != nil {
			respondWithError(w, r, apperrors.InvalidArgument(err.Error()))
			return
		}
		opts.Scope = scope
	}

	results, err := svc.Search(r.Context(), query, opts)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	for _, res := range results {
		if res.IsFolder {
			resp.Folders = append(resp.Folders, folderEntry{Key: res.Key, Type: "folder"})
			continue
		}
		resp.Files = append(resp.Files, fileEntry{
			Key:          res.Key,
			Size:         res.Size,
			LastModified: res.LastModified,
			Type:         "file",
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	svc, bucket, err := a.service(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	key, err := wildcardKey(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	deleted, err := svc.Delete(r.Context(), key)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	a.logger.Info("delete served",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("deleted", deleted))

	if strings.HasSuffix(key, fstree.Delimiter) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Folder deleted successfully",
			"deleted": deleted,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}

// splitPatterns splits a comma-separated pattern list, dropping empties.
func splitPatterns(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// wildcardKey extracts and unescapes the trailing path parameter.
func wildcardKey(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "*")
	if raw == "" {
		return "", apperrors.InvalidArgument("object key is required")
	}

	key, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperrors.InvalidArgument("object key is not valid URL encoding")
	}
	return key, nil
}
