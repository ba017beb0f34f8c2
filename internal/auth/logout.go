package auth

import (
	"context"
	"net/http"

	"github.com/saulo-duarte/mockprep/internal/config"
)

type Handler struct {
	holder   *Holder
	teardown func(context.Context)
}

// NewHandler takes the teardown that closes the realtime bridge and drops
// cached state once the session is cleared.
func NewHandler(holder *Holder, teardown func(context.Context)) *Handler {
	return &Handler{holder: holder, teardown: teardown}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	h.holder.Clear()
	if h.teardown != nil {
		h.teardown(r.Context())
	}
	log.Info("Session closed")

	config.JSON(w, http.StatusOK, map[string]string{
		"message":  "logout successful",
		"redirect": LoginRoute,
	})
}
