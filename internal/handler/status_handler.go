package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// StatusHandler serves the status ledger
type StatusHandler struct {
	base
	statuses service.StatusLedger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(statuses service.StatusLedger, log *logger.Logger) *StatusHandler {
	return &StatusHandler{base: newBase(log), statuses: statuses}
}

// List handles GET /api/v1/members/{memberId}/statuses?actor=&include_archived=
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	includeArchived, err := queryBool(r, "include_archived")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	records, err := h.statuses.ListForMember(r.Context(), actor, chi.URLParam(r, "memberId"), r.URL.Query().Get("actor"), includeArchived)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, records)
}

// Latest handles GET /api/v1/members/{memberId}/status?actor=
// Data is null when nothing in scope has been recorded.
func (h *StatusHandler) Latest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	latest, err := h.statuses.LatestForMember(r.Context(), actor, chi.URLParam(r, "memberId"), r.URL.Query().Get("actor"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, latest)
}

// Write handles PUT /api/v1/members/{memberId}/status
func (h *StatusHandler) Write(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req domain.WriteStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	record, err := h.statuses.Write(r.Context(), actor, chi.URLParam(r, "memberId"), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, record)
}

// Update handles PATCH /api/v1/statuses/{statusId}
func (h *StatusHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req domain.UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	record, err := h.statuses.Update(r.Context(), actor, chi.URLParam(r, "statusId"), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /api/v1/statuses/{statusId}
func (h *StatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.statuses.Delete(r.Context(), actor, chi.URLParam(r, "statusId")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
