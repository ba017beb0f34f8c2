package attempt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/model"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/start", h.StartAttempt)

	r.Group(func(r chi.Router) {
		r.Use(auth.RoleMiddleware(model.RoleStudent))
		r.Get("/", h.ListAttempts)
		r.Get("/{id}", h.GetAttempt)
	})
	return r
}
