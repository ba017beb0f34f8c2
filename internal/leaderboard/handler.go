package leaderboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/views"
)

type Handler struct {
	service Service
	slots   *request.Registry
}

func NewHandler(s Service, slots *request.Registry) *Handler {
	return &Handler{service: s, slots: slots}
}

// GetLeaderboard serves the cached board, fetching it on first view.
// ?top=N trims it after tiers are assigned.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, ok := h.service.Cached(id)
	if !ok || r.URL.Query().Get("refresh") == "true" {
		var err error
		entries, err = h.service.Fetch(r.Context(), id)
		if err != nil {
			entries = []model.LeaderboardEntry{}
		}
	}

	ranked := views.RankTiers(entries)
	if top, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && top > 0 {
		ranked = views.TopN(ranked, top)
	}

	config.JSON(w, http.StatusOK, map[string]any{
		"leaderboard": ranked,
		"request":     h.slots.State(SlotName(id)),
	})
}
