package profile

import (
	"net/http"

	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type Handler struct {
	service Service
	store   *store.Store
}

func NewHandler(s Service, st *store.Store) *Handler {
	return &Handler{service: s, store: st}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if p := h.store.Profile(); p != nil && r.URL.Query().Get("refresh") != "true" {
		config.JSON(w, http.StatusOK, p)
		return
	}

	p, err := h.service.Get(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		log.WithError(err).Warn("Invalid profile form")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	avatar, err := transport.FileFromRequest(r, "avatar")
	if err != nil {
		log.WithError(err).Warn("Invalid avatar upload")
		http.Error(w, "invalid avatar", http.StatusBadRequest)
		return
	}

	p, err := h.service.Update(r.Context(), ProfileInput{
		Name:   r.FormValue("name"),
		Phone:  r.FormValue("phone"),
		Avatar: avatar,
	})
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, p)
}
