package doubt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/model"
)

func StudentRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RoleMiddleware(model.RoleStudent))

	r.Get("/", h.ListMine)
	r.Post("/", h.CreateDoubt)
	return r
}

func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RoleMiddleware(model.RoleAdmin))

	r.Get("/", h.ListAll)
	r.Put("/{id}/assign", h.AssignDoubt)
	return r
}

func InstructorRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RoleMiddleware(model.RoleInstructor))

	r.Get("/", h.ListAssigned)
	r.Put("/{id}/answer", h.AnswerDoubt)
	return r
}
