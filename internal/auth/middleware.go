package auth

import (
	"context"
	"net/http"

	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
)

type contextKey string

const sessionKey contextKey = "session"

func WithSession(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return ctx
	}
	ctx = config.WithUserID(ctx, s.UserID)
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(sessionKey).(*Session)
	if !ok || s == nil {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

// SessionMiddleware attaches the holder's current session, if any.
func SessionMiddleware(h *Holder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s := h.Current(); s != nil {
				r = r.WithContext(WithSession(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleMiddleware rejects requests whose session role is not listed.
func RoleMiddleware(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := config.WithContext(r.Context())

			s, err := SessionFromContext(r.Context())
			if err != nil {
				log.Warn("Request without session on a protected route")
				config.JSON(w, http.StatusUnauthorized, map[string]string{
					"error":    err.Error(),
					"redirect": LoginRoute,
				})
				return
			}

			for _, role := range roles {
				if s.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.WithField("role", s.Role).Warn("Insufficient role for route")
			config.Error(w, ErrForbidden)
		})
	}
}

const LoginRoute = "/login"
