package leaderboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{id}", h.GetLeaderboard)
	return r
}
