package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/model"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RoleMiddleware(model.RoleStudent))

	r.Get("/", h.GetCart)
	r.Put("/{id}", h.AddItem)
	r.Delete("/{id}", h.RemoveItem)
	return r
}
