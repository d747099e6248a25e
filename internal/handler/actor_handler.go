package handler

import (
	"net/http"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// ActorHandler serves the identity and hierarchy directory
type ActorHandler struct {
	base
	directory service.DirectoryService
}

// NewActorHandler creates a new actor handler
func NewActorHandler(directory service.DirectoryService, log *logger.Logger) *ActorHandler {
	return &ActorHandler{base: newBase(log), directory: directory}
}

// Me handles GET /api/v1/me
func (h *ActorHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, actor)
}

// List handles GET /api/v1/actors
func (h *ActorHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	actors, err := h.directory.ListVisible(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, actors)
}

// Create handles POST /api/v1/actors
func (h *ActorHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req domain.CreateActorRequest
	if !h.decode(w, r, &req) {
		return
	}
	created, err := h.directory.CreateActor(r.Context(), actor, &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, created)
}
