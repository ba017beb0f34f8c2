package mocktest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/model"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListMockTests)
	r.Get("/{id}", h.GetMockTest)

	r.Group(func(r chi.Router) {
		r.Use(auth.RoleMiddleware(model.RoleAdmin))
		r.Put("/{id}/publish", h.SetPublished)
		r.Delete("/{id}", h.DeleteMockTest)
	})
	return r
}
