package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/tofix-backend/internal/domain"
	"github.com/heartmarshall/tofix-backend/internal/service/tracking"
)

type leaseService interface {
	Next(ctx context.Context, taskType string) (domain.Assignment, error)
}

type trackingService interface {
	Record(ctx context.Context, input tracking.RecordInput) error
	MarkResolved(ctx context.Context, input tracking.MarkResolvedInput) error
}

// TaskHandler serves the worker-facing endpoints: leasing items, recording
// actions and resolving items.
type TaskHandler struct {
	lease    leaseService
	tracking trackingService
	log      *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(lease leaseService, tracking trackingService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		lease:    lease,
		tracking: tracking,
		log:      logger.With("handler", "task"),
	}
}

type assignmentResponse struct {
	Key        string `json:"key,omitempty"`
	Value      string `json:"value,omitempty"`
	LeaseUntil int64  `json:"lease_until,omitempty"`
	Complete   bool   `json:"complete,omitempty"`
}

type trackRequest struct {
	Time       *int64                     `json:"time"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

type resolveRequest struct {
	Key string `json:"key"`
}

// Assign handles POST /task/{task}.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	a, err := h.lease.Next(r.Context(), r.PathValue("task"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if a.Complete {
		writeJSON(w, http.StatusOK, assignmentResponse{Complete: true})
		return
	}
	writeJSON(w, http.StatusOK, assignmentResponse{
		Key:        a.Item.Key,
		Value:      a.Item.Value,
		LeaseUntil: a.ExpiresAt,
	})
}

// Track handles POST /track/{task}.
func (h *TaskHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	err := h.tracking.Record(r.Context(), tracking.RecordInput{
		TaskType:   r.PathValue("task"),
		Time:       req.Time,
		Attributes: flattenAttributes(req.Attributes),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Fixed handles POST /fixed/{task}.
func (h *TaskHandler) Fixed(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, domain.ResolutionFixed)
}

// NotError handles POST /noterror/{task}.
func (h *TaskHandler) NotError(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, domain.ResolutionNotError)
}

func (h *TaskHandler) resolve(w http.ResponseWriter, r *http.Request, kind domain.ResolutionKind) {
	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	err := h.tracking.MarkResolved(r.Context(), tracking.MarkResolvedInput{
		TaskType: r.PathValue("task"),
		Key:      req.Key,
		Kind:     kind,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// flattenAttributes keeps string values as-is and stores any other JSON value
// as its literal text. A missing object stays nil.
func flattenAttributes(raw map[string]json.RawMessage) map[string]string {
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		out[k] = string(v)
	}
	return out
}
