package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"kitbox/internal/adapters/storage/credential"
	"kitbox/internal/metrics"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "kitbox_session"

// SecureCookies controls the Secure flag on the session cookie. Set in production.
var SecureCookies = false

// Session is the per-request view of one browser session and its stored credential.
// The token is loaded at most once per request.
type Session struct {
	ID    string
	store credential.Store
	w     http.ResponseWriter

	mu     sync.Mutex
	loaded bool
	token  string
}

// NewSession binds a browser session id to the credential store.
func NewSession(id string, store credential.Store) *Session {
	return &Session{ID: id, store: store}
}

// Token returns the stored bearer token, if any.
// A store failure is logged and treated as "no credential", which sends the user to the entry page.
func (s *Session) Token(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		token, err := s.store.Get(ctx, s.ID)
		switch {
		case err == nil:
			s.token = token
		case errors.Is(err, credential.ErrNotFound):
		default:
			slog.ErrorContext(ctx, "credential_load_failed", "error", err)
		}
		s.loaded = true
	}
	return s.token, s.token != ""
}

// HasCredential reports whether a token is stored for this session.
func (s *Session) HasCredential(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// Save stores a new token under a freshly minted session id and reissues the cookie.
// The id presented before sign-in never carries a credential.
// PRE: token is non-empty
// POST: ID is new; the previous id holds no credential
// POST: Subsequent Token calls in this and later requests return token
func (s *Session) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, id := s.ID, uuid.NewString()
	if err := s.store.Save(ctx, id, token); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, prev); err != nil {
		slog.WarnContext(ctx, "credential_rotate_cleanup_failed", "error", err)
	}
	s.ID = id
	if s.w != nil {
		SetSessionCookie(s.w, id)
	}
	s.token, s.loaded = token, true
	metrics.CredentialEvents.WithLabelValues("stored").Inc()
	return nil
}

// Clear removes the stored token for this session.
// POST: HasCredential is false for this and later requests
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.loaded = "", true
	if err := s.store.Delete(ctx, s.ID); err != nil {
		return err
	}
	metrics.CredentialEvents.WithLabelValues("cleared").Inc()
	return nil
}

// Sessions returns middleware that attaches a Session to every request.
// Browsers without a valid session cookie get a fresh random id.
func Sessions(store credential.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					id = cookie.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				SetSessionCookie(w, id)
			}
			sess := NewSession(id, store)
			sess.w = w
			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCredential blocks pages that need a stored credential and sends the user to the entry page.
func RequireCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok || !sess.HasCredential(r.Context()) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated sends users who already hold a credential from the entry page to the master list.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := GetSessionFromContext(r.Context()); ok && sess.HasCredential(r.Context()) {
			http.Redirect(w, r, "/master_list", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   86400, // 24 hours
	})
}

// ClearSessionCookie removes the session cookie so the next request starts a new session.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
