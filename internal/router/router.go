package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/mockprep/internal/attempt"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/cart"
	"github.com/saulo-duarte/mockprep/internal/category"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/container"
	"github.com/saulo-duarte/mockprep/internal/doubt"
	"github.com/saulo-duarte/mockprep/internal/leaderboard"
	"github.com/saulo-duarte/mockprep/internal/mocktest"
	"github.com/saulo-duarte/mockprep/internal/profile"
	"github.com/saulo-duarte/mockprep/internal/thumbnail"
	"github.com/saulo-duarte/mockprep/internal/views"
)

// New exposes one session's store and operations to the local UI.
func New(c *container.Container) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if c.Config.IsDebugMode() {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(auth.SessionMiddleware(c.Session))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", loginHandler(c))
		r.Post("/logout", c.AuthHandler.Logout)
	})

	r.Get("/session", sessionHandler(c))
	r.Get("/requests", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, c.Requests.Snapshot())
	})
	r.Get("/events", changesHandler(c.Store))
	r.Get("/notifications", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, c.Store.Notifications())
	})
	r.Delete("/notifications", func(w http.ResponseWriter, r *http.Request) {
		c.Store.ClearNotifications()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Mount("/categories", category.Routes(c.CategoryContainer.Handler))
	r.Mount("/mocktests", mocktest.Routes(c.MockTestContainer.Handler))
	r.Mount("/leaderboard", leaderboard.Routes(c.LeaderboardContainer.Handler))
	r.Mount("/thumbnails", thumbnail.Routes(c.ThumbnailContainer.Handler))
	r.Mount("/attempts", attempt.Routes(c.AttemptContainer.Handler))
	r.Mount("/profile", profile.Routes(c.ProfileContainer.Handler))
	r.Mount("/cart", cart.Routes(c.CartContainer.Handler))
	r.Mount("/doubts", doubt.StudentRoutes(c.DoubtContainer.Handler))
	r.Mount("/admin/doubts", doubt.AdminRoutes(c.DoubtContainer.Handler))
	r.Mount("/instructor/doubts", doubt.InstructorRoutes(c.DoubtContainer.Handler))
	return r
}

func sessionHandler(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := auth.SessionFromContext(r.Context())
		if err != nil {
			config.JSON(w, http.StatusOK, map[string]any{
				"authenticated": false,
				"home":          auth.LoginRoute,
			})
			return
		}

		config.JSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"userId":        s.UserID,
			"name":          s.Name,
			"role":          s.Role,
			"home":          views.HomeRoute(s.Role),
			"realtime":      c.Bridge.IsOpen(),
		})
	}
}

func loginHandler(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		var payload struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			log.WithError(err).Warn("Invalid login payload")
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		s, err := c.Login(r.Context(), payload.Token)
		if err != nil {
			log.WithError(err).Warn("Login rejected")
			config.Error(w, err)
			return
		}

		config.JSON(w, http.StatusOK, map[string]any{
			"userId":   s.UserID,
			"role":     s.Role,
			"redirect": views.HomeRoute(s.Role),
		})
	}
}
