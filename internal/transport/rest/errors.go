package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

type errorResponse struct {
	Error  string       `json:"error"`
	Stage  string       `json:"stage,omitempty"`
	Fields []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps domain errors onto HTTP statuses. Ingestion failures also
// report the stage that failed.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{}

	var se *domain.StageError
	if errors.As(err, &se) {
		resp.Stage = se.Stage.String()
	}

	var status int
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		resp.Error = "validation error"
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				resp.Fields = append(resp.Fields, fieldError{Field: fe.Field, Message: fe.Message})
			}
		}
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		resp.Error = "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		resp.Error = "not found"
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
		resp.Error = "already exists"
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		resp.Error = "conflict"
	default:
		status = http.StatusInternalServerError
		resp.Error = "internal server error"
		log.ErrorContext(r.Context(), "internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return domain.NewValidationError("body", "invalid JSON")
}
