package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/SPJDevOps/PocketS3/internal/errors"
	"github.com/SPJDevOps/PocketS3/internal/observability"
)

// ErrorResponse is the JSON envelope written for middleware-level failures.
type ErrorResponse = apperrors.HTTPErrorResponse

// Recovery converts panics into 500 responses with the standard error
// envelope instead of tearing down the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				observability.CLILogger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Stack("stack"))

				writeErrorResponse(w, http.StatusInternalServerError, apperrors.HTTPErrorDetail{
					Code:      "INTERNAL_ERROR",
					Message:   fmt.Sprintf("panic: %v", rec),
					RequestID: GetRequestID(r.Context()),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// ErrorHandler is an alias for Recovery, kept for callers that read better
// with this name.
func ErrorHandler(next http.Handler) http.Handler {
	return Recovery(next)
}

func writeErrorResponse(w http.ResponseWriter, status int, detail apperrors.HTTPErrorDetail) {
	apperrors.WriteError(w, status, detail)
}
