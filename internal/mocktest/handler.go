package mocktest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/views"
)

type Handler struct {
	service Service
	store   *store.Store
	slots   *request.Registry
	now     func() time.Time
}

func NewHandler(s Service, st *store.Store, slots *request.Registry) *Handler {
	return &Handler{service: s, store: st, slots: slots, now: time.Now}
}

// ListMockTests filters the cached catalogue. Query params: filter,
// category, q, sort=newest, published=true and refresh=true.
func (h *Handler) ListMockTests(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())
	q := r.URL.Query()

	kind := views.TestKind(q.Get("filter"))
	if kind == "" {
		kind = views.KindAll
	}
	if !kind.IsValid() {
		log.WithField("filter", kind).Warn("Unknown test filter")
		http.Error(w, "invalid filter", http.StatusBadRequest)
		return
	}

	if q.Get("refresh") == "true" {
		_, _ = h.service.ListPublic(r.Context(), ListQuery{Query: q.Get("q"), Category: q.Get("category")})
	}

	tests := views.FilterTests(h.store.MockTests(), views.TestFilter{
		Kind:          kind,
		CategoryID:    q.Get("category"),
		Query:         q.Get("q"),
		NewestFirst:   q.Get("sort") == "newest",
		PublishedOnly: q.Get("published") == "true",
	}, h.now())

	config.JSON(w, http.StatusOK, map[string]any{
		"mocktests": views.Catalog(tests),
		"request":   h.slots.State(SlotList),
	})
}

func (h *Handler) GetMockTest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if t, ok := h.store.MockTest(id); ok && r.URL.Query().Get("refresh") != "true" {
		config.JSON(w, http.StatusOK, views.Entry(t))
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, views.Entry(t))
}

func (h *Handler) SetPublished(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var payload publishRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.WithError(err).Warn("Invalid publish payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.service.SetPublished(r.Context(), chi.URLParam(r, "id"), payload.IsPublished)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]any{"mocktest": t})
}

func (h *Handler) DeleteMockTest(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "mock test deleted successfully"})
}
