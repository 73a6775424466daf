package handlers

import (
	"net/http"
	"net/url"
	"strings"
)

// Flash messages ride in a short-lived cookie: set on the redirecting
// response, read and cleared by the next page render.

const flashCookieName = "flash"

const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

type flash struct {
	Message  string
	Category string
}

// storageFlash is the message shown when storage fails mid-render. Handlers
// that render in place assign it to the page directly; a cookie set on the
// same response would only surface on the next navigation.
func storageFlash() *flash {
	return &flash{Message: "Something went wrong. Please try again.", Category: flashError}
}

func setFlash(w http.ResponseWriter, message, category string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) *flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(value, "|")
	if !ok {
		return &flash{Message: value, Category: flashInfo}
	}
	return &flash{Message: message, Category: category}
}
