package handler

import (
	"net/http"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// SummaryHandler serves the aggregator read models
type SummaryHandler struct {
	base
	summaries service.Aggregator
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaries service.Aggregator, log *logger.Logger) *SummaryHandler {
	return &SummaryHandler{base: newBase(log), summaries: summaries}
}

// Summary handles GET /api/v1/summary
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	summary, err := h.summaries.Summary(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=10")
	h.respondJSON(w, http.StatusOK, summary)
}

// Counts handles GET /api/v1/counts?actor=
func (h *SummaryHandler) Counts(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	filter := r.URL.Query().Get("actor")
	statuses, err := h.summaries.StatusCounts(r.Context(), actor, filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	categories, err := h.summaries.CategoryCounts(r.Context(), actor, filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.Summary{
		Statuses:   statuses,
		Categories: categories,
		Total:      statuses.Total(),
	})
}

// MyMembers handles GET /api/v1/my-members?status=&category=&actor=&limit=&offset=
func (h *SummaryHandler) MyMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	rows, err := h.summaries.MyAssignedMembers(r.Context(), actor, domain.MyMembersFilter{
		Status:     q.Get("status"),
		CategoryID: q.Get("category"),
		Actor:      q.Get("actor"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rows)
}
