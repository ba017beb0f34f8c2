package doubt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	util "github.com/saulo-duarte/mockprep/internal/utils"
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

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, scope store.Scope, slot string) {
	q := r.URL.Query()
	doubts := views.FilterDoubts(h.store.Doubts(scope), model.DoubtStatus(q.Get("status")), q.Get("subject"))

	config.JSON(w, http.StatusOK, map[string]any{
		"doubts":  doubts,
		"request": h.slots.State(slot),
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		_, _ = h.service.ListMine(r.Context())
	}
	h.respondList(w, r, store.ScopeStudent, SlotMine)
}

func (h *Handler) CreateDoubt(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var in DoubtInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.WithError(err).Warn("Invalid doubt payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d, err := h.service.Create(r.Context(), in)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, map[string]any{"doubt": d})
}

// ListAll backs the admin queue; status and subject go to the backend on
// refresh and filter the cached copy otherwise.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("refresh") == "true" {
		_, err := h.service.List(r.Context(), model.DoubtStatus(q.Get("status")), q.Get("subject"))
		if errors.Is(err, util.ErrInvalidInput) {
			config.Error(w, err)
			return
		}
	}
	h.respondList(w, r, store.ScopeAdmin, SlotAdminList)
}

func (h *Handler) AssignDoubt(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var in AssignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.WithError(err).Warn("Invalid assign payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d, err := h.service.Assign(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]any{"doubt": d})
}

func (h *Handler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		_, _ = h.service.ListAssigned(r.Context())
	}
	h.respondList(w, r, store.ScopeInstructor, SlotInstructorList)
}

func (h *Handler) AnswerDoubt(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var in AnswerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.WithError(err).Warn("Invalid answer payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d, err := h.service.Answer(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]any{"doubt": d})
}
