package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, Summary{Items: h.service.Items(), Total: h.service.Total()})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Add(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, summary)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.service.Remove(r.Context(), chi.URLParam(r, "id")))
}
