package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type Handler struct {
	service Service
	store   *store.Store
	slots   *request.Registry
}

func NewHandler(s Service, st *store.Store, slots *request.Registry) *Handler {
	return &Handler{service: s, store: st, slots: slots}
}

// ListCategories serves the cached list; ?refresh=true refetches first.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		_, _ = h.service.List(r.Context())
	}

	config.JSON(w, http.StatusOK, map[string]any{
		"categories": h.store.Categories(),
		"request":    h.slots.State(SlotList),
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, map[string]any{"category": c})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]any{"category": c})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (CategoryInput, bool) {
	log := config.WithContext(r.Context())

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		log.WithError(err).Warn("Invalid category form")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return CategoryInput{}, false
	}

	img, err := transport.FileFromRequest(r, "image")
	if err != nil {
		log.WithError(err).Warn("Invalid category image")
		http.Error(w, "invalid image", http.StatusBadRequest)
		return CategoryInput{}, false
	}
	return CategoryInput{Name: r.FormValue("name"), Image: img}, true
}
