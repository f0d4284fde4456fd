package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/tofix-backend/internal/domain"
	"github.com/heartmarshall/tofix-backend/internal/service/ingest"
)

// multipartMemory is how much of a multipart body is kept in memory before
// file parts spill to temporary files.
const multipartMemory = 8 << 20

type ingestService interface {
	Ingest(ctx context.Context, input ingest.Input) (ingest.Result, error)
}

// UploadHandler serves dataset uploads.
type UploadHandler struct {
	svc      ingestService
	maxBytes int64
	log      *slog.Logger
}

// NewUploadHandler creates an UploadHandler that rejects bodies over maxBytes.
func NewUploadHandler(svc ingestService, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes, log: logger.With("handler", "upload")}
}

type uploadResponse struct {
	Task string `json:"task"`
	Rows int64  `json:"rows"`
}

// Upload handles POST /csv.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		handleError(h.log, w, r, domain.NewValidationError("body", "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	input := ingest.Input{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Password: r.FormValue("password"),
		Metadata: domain.TaskMetadata{
			Title:       r.FormValue("title"),
			Source:      r.FormValue("source"),
			Owner:       r.FormValue("owner"),
			Description: r.FormValue("description"),
		},
	}

	if v := r.FormValue("preserve_order"); v != "" {
		preserve, err := strconv.ParseBool(v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("preserve_order", "must be a boolean"))
			return
		}
		input.PreserveOrder = preserve
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		input.File = file
		input.Filename = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// Validate reports the missing file together with any other field errors.
	default:
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.svc.Ingest(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Task: res.TaskID, Rows: res.Rows})
}
