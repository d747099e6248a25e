package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// CategoryHandler serves categories and member assignments
type CategoryHandler struct {
	base
	categories service.CategoryLedger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories service.CategoryLedger, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{base: newBase(log), categories: categories}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	categories, err := h.categories.ListCategories(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req domain.CreateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	category, err := h.categories.CreateCategory(r.Context(), actor, &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, category)
}

// Update handles PATCH /api/v1/categories/{categoryId}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req domain.UpdateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	category, err := h.categories.UpdateCategory(r.Context(), actor, chi.URLParam(r, "categoryId"), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/v1/categories/{categoryId}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.categories.DeleteCategory(r.Context(), actor, chi.URLParam(r, "categoryId")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ForMember handles GET /api/v1/members/{memberId}/category?actor=
func (h *CategoryHandler) ForMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	view, err := h.categories.ForMember(r.Context(), actor, chi.URLParam(r, "memberId"), r.URL.Query().Get("actor"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// Assign handles PUT /api/v1/members/{memberId}/category
func (h *CategoryHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req domain.AssignCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.categories.Assign(r.Context(), actor, chi.URLParam(r, "memberId"), req.CategoryID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// Remove handles DELETE /api/v1/members/{memberId}/category
func (h *CategoryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.categories.Remove(r.Context(), actor, chi.URLParam(r, "memberId")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
