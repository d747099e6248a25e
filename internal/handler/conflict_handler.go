package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// ConflictHandler serves conflict checks and the admin resolution workflow
type ConflictHandler struct {
	base
	conflicts service.ConflictManager
}

// NewConflictHandler creates a new conflict handler
func NewConflictHandler(conflicts service.ConflictManager, log *logger.Logger) *ConflictHandler {
	return &ConflictHandler{base: newBase(log), conflicts: conflicts}
}

// Check handles GET /api/v1/members/{memberId}/conflict?actor=
func (h *ConflictHandler) Check(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	check, err := h.conflicts.CheckMember(r.Context(), actor, chi.URLParam(r, "memberId"), r.URL.Query().Get("actor"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, check)
}

// List handles GET /api/v1/conflicts?resolved=true|false|all
func (h *ConflictHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	conflicts, err := h.conflicts.List(r.Context(), actor, r.URL.Query().Get("resolved"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, conflicts)
}

// Get handles GET /api/v1/conflicts/{conflictId}
func (h *ConflictHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	detail, err := h.conflicts.Get(r.Context(), actor, chi.URLParam(r, "conflictId"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, detail)
}

// Resolve handles POST /api/v1/conflicts/{conflictId}/resolve
func (h *ConflictHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req domain.ResolveConflictRequest
	if !h.decode(w, r, &req) {
		return
	}
	detail, err := h.conflicts.Resolve(r.Context(), actor, chi.URLParam(r, "conflictId"), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, detail)
}
