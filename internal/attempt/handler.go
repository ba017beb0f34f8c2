package attempt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/views"
)

type Handler struct {
	service Service
	store   *store.Store
	slots   *request.Registry
}

func NewHandler(s Service, st *store.Store, slots *request.Registry) *Handler {
	return &Handler{service: s, store: st, slots: slots}
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var payload startRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.WithError(err).Warn("Invalid start payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.service.Start(r.Context(), payload.MockTestID)
	if errors.Is(err, auth.ErrUnauthenticated) {
		config.JSON(w, http.StatusUnauthorized, map[string]string{
			"error":    err.Error(),
			"redirect": auth.LoginRoute,
		})
		return
	}
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, startResponse{AttemptID: id})
}

// ListAttempts shows completed attempts newest first; ?refresh=true
// refetches them.
func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		if _, err := h.service.Mine(r.Context()); errors.Is(err, auth.ErrUnauthenticated) {
			config.Error(w, err)
			return
		}
	}

	config.JSON(w, http.StatusOK, map[string]any{
		"attempts": views.CompletedAttempts(h.store.Attempts()),
		"request":  h.slots.State(SlotMine),
	})
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if review, ok := h.store.Review(id); ok && r.URL.Query().Get("refresh") != "true" {
		config.JSON(w, http.StatusOK, newReviewView(review))
		return
	}

	review, err := h.service.Get(r.Context(), id)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, newReviewView(review))
}
