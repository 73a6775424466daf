// Package session implements the signed session cookie shared by the page
// and API surfaces. The cookie carries a stateless HS256 token holding the
// authenticated user's id and display name; there is no server-side session
// store, so logout clears the cookie and expiry bounds a stolen token's life.
package session

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eventms/appserver/types"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	defaultTTL = 24 * time.Hour
)

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("no session")

// Session identifies the authenticated user for the duration of a request.
type Session struct {
	UserID   int
	FullName string
}

type claims struct {
	FullName string `json:"name"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), ttl: defaultTTL}
}

// Issue sets a session cookie identifying the user.
func (m *Manager) Issue(w http.ResponseWriter, user types.User) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie. Safe to call when not logged in.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Lookup extracts and verifies the session from the request cookie.
// ErrNoSession covers a missing, expired, or tampered cookie alike.
func (m *Manager) Lookup(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Session{}, ErrNoSession
	}

	parsed := claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, &parsed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrNoSession
	}

	userID, err := strconv.Atoi(strings.TrimSpace(parsed.Subject))
	if err != nil || userID < 1 {
		return Session{}, ErrNoSession
	}

	return Session{UserID: userID, FullName: parsed.FullName}, nil
}
