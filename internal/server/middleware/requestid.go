// Package middleware provides the HTTP middleware chain: request IDs,
// panic recovery, request logging, and CORS.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/SPJDevOps/PocketS3/internal/errors"
)

// RequestIDHeader is the header carrying the request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a correlation ID to every request. An incoming
// X-Request-ID is honored; otherwise a new UUID is generated. The ID is
// stored in the context and echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := apperrors.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	return apperrors.RequestIDFromContext(ctx)
}
