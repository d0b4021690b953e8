// Package session assigns conversation ids to callers. Ids are opaque; a
// signed cookie lets browsers keep theirs without echoing it in every body.
package session

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/phuslu/log"
)

// CookieName is the cookie carrying the signed session id.
const CookieName = "travel_session"

const cookieMaxAge = 30 * 24 * time.Hour

// Router resolves and issues session ids.
type Router struct {
	key []byte
}

// NewRouter creates a Router signing cookies with secret. An empty secret
// is replaced by a random per-process key, so cookies do not survive restarts.
func NewRouter(secret string) *Router {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("session: generate secret: %v", err))
		}
		log.Warn().Msg("SECRET_KEY not set, using a random per-process session key")
	}
	return &Router{key: key}
}

// NewID returns a fresh session id.
func (r *Router) NewID() string {
	return uuid.NewString()
}

// Resolve picks the session id for a request: the supplied id if any, else
// the id in a valid session cookie, else a new one. The result is written
// back to w as the session cookie.
func (r *Router) Resolve(w http.ResponseWriter, req *http.Request, supplied string) string {
	id := supplied
	if id == "" {
		id = r.fromCookie(req)
	}
	if id == "" {
		id = r.NewID()
	}

	if err := r.issue(w, id); err != nil {
		log.Error().Err(err).Str("session", id).Msg("issue session cookie")
	}
	return id
}

func (r *Router) fromCookie(req *http.Request) string {
	cookie, err := req.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	id, err := r.verify(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring invalid session cookie")
		return ""
	}
	return id
}

func (r *Router) sign(id string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   id,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(cookieMaxAge).Unix(),
	})
	return token.SignedString(r.key)
}

func (r *Router) verify(raw string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return r.key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}

func (r *Router) issue(w http.ResponseWriter, id string) error {
	value, err := r.sign(id)
	if err != nil {
		return fmt.Errorf("sign session id: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
