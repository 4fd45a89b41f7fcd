package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clothing-store/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", 7*24*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_Errors(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", 0)
	assert.Error(t, err)
}

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	m := newTestTokenManager(t)

	token, expiresAt, err := m.Generate("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenManager_Validate_Rejects(t *testing.T) {
	m := newTestTokenManager(t)

	other, err := NewTokenManager("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Generate("user-1")
	require.NoError(t, err)

	expiredManager := newTestTokenManager(t)
	expiredManager.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expired, _, err := expiredManager.Generate("user-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, _, err := m.Generate("user-1")
	require.NoError(t, err)

	tests := map[string]string{
		"malformed":       "not-a-token",
		"wrong secret":    foreign,
		"expired":         expired,
		"none algorithm":  none,
		"tampered":        valid + "x",
		"empty":           "",
		"missing user id": mustSign(t, m, &Claims{}),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := m.Validate(token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func mustSign(t *testing.T, m *TokenManager, claims *Claims) string {
	t.Helper()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	require.NoError(t, err)
	return s
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		expected string
	}{
		{
			name:     "cookie",
			setup:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"}) },
			expected: "from-cookie",
		},
		{
			name:     "bearer header",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer from-header") },
			expected: "from-header",
		},
		{
			name:     "lower-case scheme",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "bearer from-header") },
			expected: "from-header",
		},
		{
			name: "cookie wins over header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
				r.Header.Set("Authorization", "Bearer from-header")
			},
			expected: "from-cookie",
		},
		{
			name:     "basic auth ignored",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			expected: "",
		},
		{
			name:     "nothing",
			setup:    func(r *http.Request) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
			tt.setup(r)
			assert.Equal(t, tt.expected, TokenFromRequest(r, "token"))
		})
	}
}

func TestCookieOptionsFromConfig(t *testing.T) {
	tests := []struct {
		name         string
		environment  string
		sameSite     string
		wantSecure   bool
		wantSameSite http.SameSite
	}{
		{"development default", config.EnvironmentDevelopment, "", false, http.SameSiteStrictMode},
		{"production default", config.EnvironmentProduction, "", true, http.SameSiteLaxMode},
		{"explicit lax in development", config.EnvironmentDevelopment, "lax", false, http.SameSiteLaxMode},
		{"none forces secure", config.EnvironmentDevelopment, "none", true, http.SameSiteNoneMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Environment: tt.environment,
				Auth: config.AuthConfig{
					CookieName:     "token",
					CookieSameSite: tt.sameSite,
					TokenTTL:       7 * 24 * time.Hour,
				},
			}

			opts := CookieOptionsFromConfig(cfg)
			assert.Equal(t, tt.wantSecure, opts.Secure)
			assert.Equal(t, tt.wantSameSite, opts.SameSite)

			cookie := opts.SessionCookie("abc")
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, 7*24*60*60, cookie.MaxAge)
			assert.Equal(t, "abc", cookie.Value)

			cleared := opts.ClearedCookie()
			assert.Equal(t, -1, cleared.MaxAge)
			assert.Empty(t, cleared.Value)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
	assert.False(t, CheckPassword("not-a-hash", "admin123"))
}
