package auth

import (
	"net/http"
	"strings"
	"time"

	"clothing-store/internal/config"
)

// CookieOptions controls the session cookie attributes.
type CookieOptions struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// CookieOptionsFromConfig derives cookie attributes for the deployment.
// Production cookies are Secure with SameSite=Lax; development cookies are
// SameSite=Strict. An explicit same-site mode overrides the default, and
// SameSite=None always forces Secure.
func CookieOptionsFromConfig(cfg *config.Config) CookieOptions {
	opts := CookieOptions{
		Name:     cfg.Auth.CookieName,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   cfg.Auth.TokenTTL,
	}
	if cfg.IsProduction() {
		opts.SameSite = http.SameSiteLaxMode
	}

	switch strings.ToLower(cfg.Auth.CookieSameSite) {
	case "strict":
		opts.SameSite = http.SameSiteStrictMode
	case "lax":
		opts.SameSite = http.SameSiteLaxMode
	case "none":
		opts.SameSite = http.SameSiteNoneMode
		opts.Secure = true
	}

	return opts
}

// SessionCookie builds the cookie carrying token.
func (o CookieOptions) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(o.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
}

// ClearedCookie builds a cookie that removes the session from the browser.
func (o CookieOptions) ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
}
