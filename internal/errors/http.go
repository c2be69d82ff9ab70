// Package errors maps domain errors onto the HTTP error envelope every
// endpoint returns.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SPJDevOps/PocketS3/pkg/bucketview"
	"github.com/SPJDevOps/PocketS3/pkg/fstree"
	"github.com/SPJDevOps/PocketS3/pkg/provider"
)

// HTTPErrorResponse is the JSON error envelope.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail carries the error payload.
type HTTPErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// RequestError is a handler-level error with an explicit status and code.
type RequestError struct {
	Status  int
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// InvalidArgument builds a 400 INVALID_ARGUMENT error.
func InvalidArgument(message string) error {
	return &RequestError{Status: http.StatusBadRequest, Code: "INVALID_ARGUMENT", Message: message}
}

// NotFound builds a 404 NOT_FOUND error.
func NotFound(message string) error {
	return &RequestError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

// Classify maps an error to its HTTP status and stable error code.
func Classify(err error) (status int, code string) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status, reqErr.Code
	}

	switch {
	case provider.IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case provider.IsBucketNotFound(err):
		return http.StatusNotFound, "BUCKET_NOT_FOUND"
	case provider.IsBucketExists(err):
		return http.StatusConflict, "BUCKET_EXISTS"
	case provider.IsAccessDenied(err):
		return http.StatusForbidden, "ACCESS_DENIED"
	case provider.IsInvalidCredentials(err):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case provider.IsThrottled(err):
		return http.StatusTooManyRequests, "THROTTLED"
	case provider.IsProviderUnavailable(err):
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, fstree.ErrInvalidPath):
		return http.StatusBadRequest, "INVALID_PATH"
	case errors.Is(err, fstree.ErrMalformedKey):
		// The bucket holds keys the hierarchy cannot represent; the
		// request itself was fine.
		return http.StatusBadGateway, "MALFORMED_KEY"
	case errors.Is(err, bucketview.ErrTooManyObjects):
		return http.StatusUnprocessableEntity, "TOO_MANY_OBJECTS"
	case errors.Is(err, bucketview.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// RespondWithError writes the error envelope for err. Internal errors get a
// generic message so backend details never leak to clients.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Classify(err)

	message := err.Error()
	if code == "INTERNAL_ERROR" {
		message = "internal server error"
	}

	WriteError(w, status, HTTPErrorDetail{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// WriteError writes an error envelope with the given status.
func WriteError(w http.ResponseWriter, status int, detail HTTPErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{Error: detail})
}

type requestIDKey struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID, or "" if none was set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
