package web

// errors.go turns service errors into HTTP responses.
//
// Every error is logged server-side with the request ID, then mapped via
// core.MapError to a user-facing message, action and support code. Import
// failures that still produced an ImportResult keep its counts in the body.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

var (
	errRateLimited   = errors.New("rate limit exceeded")
	errNoFile        = errors.New("no file provided")
	errFileTooLarge  = errors.New("file too large")
	errInvalidForm   = errors.New("invalid multipart form")
	errInvalidSearch = errors.New("invalid search id")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// importErrorResponse is returned when an import fails after producing a
// result, so clients still see the counts and the explanatory message.
type importErrorResponse struct {
	core.ImportResult
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, core.ErrNoDataRows),
		errors.Is(err, core.ErrUnreadableFile),
		errors.Is(err, core.ErrInvalidMapping):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrSearchNotFound), errors.Is(err, core.ErrImportNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrImportInterrupted), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile), errors.Is(err, errInvalidForm), errors.Is(err, errInvalidSearch):
		return http.StatusBadRequest
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes an ErrorResponse.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := logError(w, r, err, status)
	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondImportError is respondError for failures that carry a result.
func respondImportError(w http.ResponseWriter, r *http.Request, result core.ImportResult, err error) {
	status := statusFor(err)
	msg := logError(w, r, err, status)
	writeJSON(w, status, importErrorResponse{
		ImportResult: result,
		Error:        msg.Message,
		Action:       msg.Action,
		Code:         msg.Code,
	})
}

func logError(w http.ResponseWriter, r *http.Request, err error, status int) core.UserMessage {
	msg := core.MapError(err)

	// Clients back off and retry when every import slot is taken.
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)
	return msg
}
