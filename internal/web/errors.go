package web

// errors.go turns service errors into JSON responses.
//
// The technical error is logged with the request id; the client only sees
// the coded message from core.MapError. The HTTP status is derived from the
// code family so handlers rarely pick one themselves.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/tcgstock/internal/core"
	"github.com/JonMunkholm/tcgstock/internal/logging"
)

var (
	errInvalidOwner = errors.New("invalid owner id")
	errInvalidBody  = errors.New("invalid request body")
	errNoFile       = errors.New("no file provided")
	errFileTooLarge = errors.New("file too large")
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user-facing form. A zero status
// derives one from the error code.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)
	if status == 0 {
		status = statusForCode(msg.Code)
	}

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	// Mapped client errors are ordinary user mistakes.
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request error", attrs...)
	case core.IsUserFacing(err):
		log.Info("request rejected", attrs...)
	default:
		log.Warn("request rejected", attrs...)
	}

	writeJSON(w, r, status, ErrorResponse{
		Error:   err.Error(),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondBadRequest is for request-shape errors that have no mapped code.
func respondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err, http.StatusBadRequest)
}

// statusForCode maps a UserMessage code family to an HTTP status.
func statusForCode(code string) int {
	switch {
	case code == "FILE001", code == "IMP004":
		return http.StatusRequestEntityTooLarge
	case strings.HasPrefix(code, "IMP"), strings.HasPrefix(code, "FILE"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "RATE"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "CAT"):
		return http.StatusBadGateway
	case code == "DB005":
		return http.StatusGatewayTimeout
	case code == "REQ001":
		return http.StatusRequestTimeout
	case code == "DB001", code == "DB002":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
