package server

import (
	"context"
	"net/http"

	"github.com/safhub/portald/internal/auth"
)

type ctxKey string

const ctxSession ctxKey = "session"

func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := a.readSession(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), ctxSession, sess))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) readSession(r *http.Request) (auth.Session, bool) {
	c, err := r.Cookie(a.cookieName)
	if err != nil || c.Value == "" {
		return auth.Session{}, false
	}
	cl, err := auth.ParseHS256(a.secret, c.Value)
	if err != nil {
		return auth.Session{}, false
	}
	return auth.Session{Username: cl.Username, Role: cl.Role}, true
}

func sessionFrom(r *http.Request) (auth.Session, bool) {
	if v := r.Context().Value(ctxSession); v != nil {
		if s, ok := v.(auth.Session); ok {
			return s, true
		}
	}
	return auth.Session{}, false
}

// requireSession gates a handler on any authenticated session; anonymous
// requests are sent back to the landing page.
func (a *App) requireSession(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sessionFrom(r); !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h(w, r)
	}
}

// requireRole gates a handler on an exact role match. Roles are plain labels
// compared by equality; no role implies another.
func (a *App) requireRole(role string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFrom(r)
		if !ok || sess.Role != role {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h(w, r)
	}
}
