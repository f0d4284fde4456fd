package rest

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

type registryService interface {
	Get(ctx context.Context, taskType string) (domain.TaskEntry, error)
	ListAll(ctx context.Context) ([]domain.TaskEntry, error)
	Counts(ctx context.Context, taskType string) (domain.ItemCounts, error)
	ActionStats(ctx context.Context, taskType string, from, to int64) ([]domain.ActionCount, error)
	CountHistory(ctx context.Context, taskType, grouping string) ([]domain.HistoryBucket, error)
	FindEvents(ctx context.Context, taskType, key, value string, to int64) ([]domain.Event, error)
}

// RegistryHandler serves read-only task type listings and reports.
type RegistryHandler struct {
	svc registryService
	log *slog.Logger
}

// NewRegistryHandler creates a RegistryHandler.
func NewRegistryHandler(svc registryService, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{svc: svc, log: logger.With("handler", "registry")}
}

type taskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
	Created     int64  `json:"created"`
	Status      string `json:"status"`
}

type trackStatsResponse struct {
	From    int64                `json:"from"`
	To      int64                `json:"to"`
	Actions []domain.ActionCount `json:"actions"`
}

// List handles GET /tasks.
func (h *RegistryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListAll(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]taskResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toTaskResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": resp})
}

// Detail handles GET /detail/{task}.
func (h *RegistryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), r.PathValue("task"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(e))
}

// Count handles GET /count/{task}.
func (h *RegistryHandler) Count(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Counts(r.Context(), r.PathValue("task"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// TrackStats handles GET /track_stats/{task}/{from}/{to}.
func (h *RegistryHandler) TrackStats(w http.ResponseWriter, r *http.Request) {
	var fields []domain.FieldError
	from, err := strconv.ParseInt(r.PathValue("from"), 10, 64)
	if err != nil {
		fields = append(fields, domain.FieldError{Field: "from", Message: "must be epoch seconds"})
	}
	to, err := strconv.ParseInt(r.PathValue("to"), 10, 64)
	if err != nil {
		fields = append(fields, domain.FieldError{Field: "to", Message: "must be epoch seconds"})
	}
	if len(fields) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(fields))
		return
	}

	stats, err := h.svc.ActionStats(r.Context(), r.PathValue("task"), from, to)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trackStatsResponse{From: from, To: to, Actions: stats})
}

type historyResponse struct {
	Grouping string                 `json:"grouping"`
	History  []domain.HistoryBucket `json:"history"`
}

type eventResponse struct {
	Time       int64             `json:"time"`
	Attributes map[string]string `json:"attributes"`
}

// CountHistory handles GET /count_history/{task}/{grouping}.
func (h *RegistryHandler) CountHistory(w http.ResponseWriter, r *http.Request) {
	grouping := r.PathValue("grouping")
	history, err := h.svc.CountHistory(r.Context(), r.PathValue("task"), grouping)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Grouping: grouping, History: history})
}

// FindEvents handles GET /track/{task}/{match} and GET /track/{task}/{match}/{to},
// where match is "key:value". Without to every event up to now is searched.
func (h *RegistryHandler) FindEvents(w http.ResponseWriter, r *http.Request) {
	key, value, ok := strings.Cut(r.PathValue("match"), ":")
	if !ok {
		handleError(h.log, w, r, domain.NewValidationError("match", "must be key:value"))
		return
	}

	to := int64(math.MaxInt64)
	if raw := r.PathValue("to"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("to", "must be epoch seconds"))
			return
		}
		to = v
	}

	events, err := h.svc.FindEvents(r.Context(), r.PathValue("task"), key, value, to)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, eventResponse{Time: ev.Time, Attributes: ev.Attributes})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": resp})
}

func toTaskResponse(e domain.TaskEntry) taskResponse {
	return taskResponse{
		ID:          e.ID,
		Title:       e.Title,
		Source:      e.Source,
		Owner:       e.Owner,
		Description: e.Description,
		Created:     e.Created,
		Status:      e.Status.String(),
	}
}
