package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whoami(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r)
	if user == nil {
		http.Error(w, "no user", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(user.Username))
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestMockAuthFlow(t *testing.T) {
	m := NewMockAuth("admins")

	rec := httptest.NewRecorder()
	m.LoginHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionFrom(t, rec)

	protected := m.Middleware(RequireGroup("admins", whoami))

	req := httptest.NewRequest(http.MethodPost, "/api/draft/reset", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	protected(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "devuser", rec.Body.String())

	rec = httptest.NewRecorder()
	m.LogoutHandler(rec, req)
	assert.Equal(t, 0, m.store.count())

	rec = httptest.NewRecorder()
	protected(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRedirectsPages(t *testing.T) {
	m := NewMockAuth("admins")
	rec := httptest.NewRecorder()
	m.Middleware(whoami)(rec, httptest.NewRequest(http.MethodGet, "/draft", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestRequireGroupForbidden(t *testing.T) {
	m := NewMockAuth("owners")
	rec := httptest.NewRecorder()
	m.LoginHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	cookie := sessionFrom(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/api/draft/reset", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	m.Middleware(RequireGroup("admins", whoami))(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInGroup(t *testing.T) {
	assert.False(t, InGroup(nil, "admins"))
	assert.True(t, InGroup(&User{Groups: []string{"users", "admins"}}, "admins"))
	assert.False(t, InGroup(&User{Groups: []string{"users"}}, "admins"))
}

func authentikServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/application/o/token/", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/application/o/userinfo/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sub":                "u-1",
			"email":              "gm@example.com",
			"name":               "General Manager",
			"preferred_username": "gm",
			"groups":             []string{"commissioners"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAuthentikLoginAndCallback(t *testing.T) {
	server := authentikServer(t)
	a := NewAuthentikAuth(&AuthentikConfig{
		BaseURL:      server.URL + "/",
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://draftkit.local/auth/callback",
	})

	rec := httptest.NewRecorder()
	a.LoginHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/application/o/authorize/", location.Path)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=the-code&state="+url.QueryEscape(state), nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: state})
	rec = httptest.NewRecorder()
	a.CallbackHandler(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	cookie := sessionFrom(t, rec)

	req = httptest.NewRequest(http.MethodGet, "/api/draft/state", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	a.Middleware(RequireGroup("commissioners", whoami))(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gm", rec.Body.String())
}

func TestAuthentikCallbackRejectsBadState(t *testing.T) {
	a := NewAuthentikAuth(&AuthentikConfig{BaseURL: "http://authentik.invalid"})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=x&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "real"})
	rec := httptest.NewRecorder()
	a.CallbackHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	a.CallbackHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthentikLogoutRedirect(t *testing.T) {
	a := NewAuthentikAuth(&AuthentikConfig{BaseURL: "https://sso.example.com", AppSlug: "draft"})
	rec := httptest.NewRecorder()
	a.LogoutHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))
	assert.Equal(t, "https://sso.example.com/application/o/draft/end-session/", rec.Header().Get("Location"))
}
