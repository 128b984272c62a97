package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	sessionCookie = "session_id"
	stateCookie   = "oauth_state"
)

type contextKey struct{}

// User represents an authenticated user
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
}

// Session represents a user session
type Session struct {
	ID        string
	User      *User
	Token     *oauth2.Token
	CreatedAt time.Time
	ExpiresAt time.Time
}

// sessionStore keeps sessions in memory, keyed by cookie value
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*Session)}
}

func (s *sessionStore) create(user *User, token *oauth2.Token, expires time.Time) *Session {
	session := &Session{
		ID:        generateSessionID(),
		User:      user,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked(session.CreatedAt)
	s.sessions[session.ID] = session
	return session
}

func (s *sessionStore) lookup(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}

	s.mu.RLock()
	session, exists := s.sessions[cookie.Value]
	s.mu.RUnlock()

	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return session, true
}

func (s *sessionStore) remove(r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
}

func (s *sessionStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// purgeLocked drops expired sessions; callers hold the write lock
func (s *sessionStore) purgeLocked(now time.Time) {
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}

// middleware attaches the session user to the request context. API requests
// without a session get 401, page requests are sent to the login page.
func (s *sessionStore) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.lookup(r)
		if !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), session.User)))
	}
}

func setSessionCookie(w http.ResponseWriter, session *Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// WithUser returns a context carrying user
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// GetUser retrieves the authenticated user from the request context
func GetUser(r *http.Request) *User {
	user, ok := r.Context().Value(contextKey{}).(*User)
	if !ok {
		return nil
	}
	return user
}

// InGroup checks if the user belongs to group
func InGroup(user *User, group string) bool {
	if user == nil {
		return false
	}
	for _, g := range user.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// RequireGroup wraps an authenticated handler and rejects users outside group
func RequireGroup(group string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !InGroup(GetUser(r), group) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func randomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// generateState generates a random state string for CSRF protection
func generateState() string {
	return randomToken()
}

// generateSessionID generates a random session ID
func generateSessionID() string {
	return randomToken()
}
