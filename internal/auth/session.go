package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saulo-duarte/mockprep/internal/model"
	util "github.com/saulo-duarte/mockprep/internal/utils"
	"golang.org/x/oauth2"
)

var (
	ErrUnauthenticated = fmt.Errorf("%w: sign in required", util.ErrUnauthorized)
	ErrForbidden       = fmt.Errorf("%w: role not allowed", util.ErrForbidden)
	ErrInvalidToken    = fmt.Errorf("%w: invalid session token", util.ErrUnauthorized)
)

// Claims is what the backend puts in its session token.
type Claims struct {
	UserID string     `json:"id"`
	Role   model.Role `json:"role"`
	Name   string     `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Session struct {
	Token  string
	UserID string
	Role   model.Role
	Name   string
}

// Parser turns a session token into a Session. Without a secret it only
// decodes the claims: the signing key belongs to the backend.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims := &Claims{}
	if len(p.secret) > 0 {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return p.secret, nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenExpired)
		}
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	role := claims.Role
	if !role.IsValid() {
		role = model.RoleStudent
	}

	return &Session{
		Token:  token,
		UserID: userID,
		Role:   role,
		Name:   claims.Name,
	}, nil
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

// Holder keeps the current session; nil means signed out.
type Holder struct {
	mu      sync.RWMutex
	session *Session
}

func NewHolder(s *Session) *Holder {
	return &Holder{session: s}
}

func (h *Holder) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

// Require short-circuits operations that need a signed-in user.
func (h *Holder) Require() (*Session, error) {
	s := h.Current()
	if s == nil {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

func (h *Holder) Set(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
}

func (h *Holder) Clear() {
	h.Set(nil)
}

// Token makes the holder an oauth2.TokenSource for the transport client.
func (h *Holder) Token() (*oauth2.Token, error) {
	s := h.Current()
	if s == nil || s.Token == "" {
		return nil, ErrUnauthenticated
	}
	return &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}, nil
}
