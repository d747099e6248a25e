package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// Handlers groups the authenticated API handlers
type Handlers struct {
	Actor    *ActorHandler
	Status   *StatusHandler
	Category *CategoryHandler
	Summary  *SummaryHandler
	Conflict *ConflictHandler
}

// New builds every API handler over services
func New(services *service.Services, log *logger.Logger) *Handlers {
	return &Handlers{
		Actor:    NewActorHandler(services.Directory, log),
		Status:   NewStatusHandler(services.Status, log),
		Category: NewCategoryHandler(services.Category, log),
		Summary:  NewSummaryHandler(services.Summary, log),
		Conflict: NewConflictHandler(services.Conflict, log),
	}
}

// Routes registers the API on r. The caller is responsible for putting the
// actor on the request context.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/me", h.Actor.Me)
	r.Get("/actors", h.Actor.List)
	r.Post("/actors", h.Actor.Create)

	r.Route("/members/{memberId}", func(r chi.Router) {
		r.Get("/statuses", h.Status.List)
		r.Get("/status", h.Status.Latest)
		r.Put("/status", h.Status.Write)

		r.Get("/category", h.Category.ForMember)
		r.Put("/category", h.Category.Assign)
		r.Delete("/category", h.Category.Remove)

		r.Get("/conflict", h.Conflict.Check)
	})

	r.Patch("/statuses/{statusId}", h.Status.Update)
	r.Delete("/statuses/{statusId}", h.Status.Delete)

	r.Get("/categories", h.Category.List)
	r.Post("/categories", h.Category.Create)
	r.Patch("/categories/{categoryId}", h.Category.Update)
	r.Delete("/categories/{categoryId}", h.Category.Delete)

	r.Get("/my-members", h.Summary.MyMembers)
	r.Get("/summary", h.Summary.Summary)
	r.Get("/counts", h.Summary.Counts)

	r.Route("/conflicts", func(r chi.Router) {
		r.Get("/", h.Conflict.List)
		r.Get("/{conflictId}", h.Conflict.Get)
		r.Post("/{conflictId}/resolve", h.Conflict.Resolve)
	})
}
