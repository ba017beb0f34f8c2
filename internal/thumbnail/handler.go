package thumbnail

import (
	"net/http"
	"strconv"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// GetThumbnail serves ?ref=<image reference> as a fitted JPEG.
// refresh=true drops the cached copy first.
func (h *Handler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if r.URL.Query().Get("refresh") == "true" {
		h.service.Forget(ref)
	}
	img := h.service.Get(r.Context(), ref)

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("X-Thumbnail-Placeholder", strconv.FormatBool(img.Placeholder))
	if !img.Placeholder {
		w.Header().Set("Cache-Control", "private, max-age=3600")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}
