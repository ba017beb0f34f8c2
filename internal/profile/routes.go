package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/model"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RoleMiddleware(model.RoleStudent))

	r.Get("/", h.GetProfile)
	r.Put("/", h.UpdateProfile)
	return r
}
