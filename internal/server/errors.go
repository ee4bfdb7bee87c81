package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KaramelBytes/storelens/internal/charts"
	"github.com/KaramelBytes/storelens/internal/export"
	"github.com/KaramelBytes/storelens/internal/logging"
	"github.com/KaramelBytes/storelens/internal/mapper"
	"github.com/KaramelBytes/storelens/internal/report"
	"github.com/KaramelBytes/storelens/internal/session"
	"github.com/KaramelBytes/storelens/internal/table"
)

var errSessionNotFound = errors.New("session not found")

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error      string                   `json:"error"`
	Message    string                   `json:"message"`
	Code       string                   `json:"code"`
	Validation *mapper.ValidationResult `json:"validation,omitempty"`
}

// classify maps an error to a status code and a stable machine code.
func classify(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, table.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"
	case errors.Is(err, table.ErrFileTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, table.ErrEmptyTable), errors.Is(err, table.ErrNoHeader):
		return http.StatusUnprocessableEntity, "EMPTY_TABLE"
	case errors.Is(err, session.ErrInvalidMapping):
		return http.StatusUnprocessableEntity, "INVALID_MAPPING"
	case errors.Is(err, session.ErrNotAnalyzed):
		return http.StatusConflict, "NOT_ANALYZED"
	case errors.Is(err, session.ErrNoTable):
		return http.StatusConflict, "NO_TABLE"
	case errors.Is(err, charts.ErrUnknownKind):
		return http.StatusBadRequest, "UNKNOWN_CHART"
	case errors.Is(err, export.ErrUnsupportedFormat), errors.Is(err, report.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// respondError logs err and writes it as JSON. Internal errors hide their
// detail from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	respondErrorStatus(w, r, err, status, code)
}

func respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int, code string) {
	log := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request error", "path", r.URL.Path, "status", status, "error", err.Error(), "code", code)
	} else {
		log.Warn("request rejected", "path", r.URL.Path, "status", status, "error", err.Error(), "code", code)
	}

	body := ErrorResponse{Error: http.StatusText(status), Message: err.Error(), Code: code}
	if status >= http.StatusInternalServerError {
		body.Message = "internal error"
	}
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		v := verr.Result
		body.Validation = &v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
