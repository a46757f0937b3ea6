package quadauth

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const userContextKey contextKey = "quadauth.user"

// Middleware guards routes that need a session-bound user.
type Middleware struct {
	Sessions *SessionBinder

	// Where anonymous requests to guarded routes are sent. Defaults
	// to "/".
	RedirectURL string
}

func (m *Middleware) redirectURL() string {
	if m.RedirectURL != "" {
		return m.RedirectURL
	}
	return "/"
}

// ExtractUser resolves the session user, if any, and makes it
// available to downstream handlers via UserFromContext. It never
// redirects; an anonymous request just flows through with no user set.
func (m *Middleware) ExtractUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.Sessions.Current(r.Context())
		if err != nil {
			slog.Warn("resolving session user", "err", err)
		}
		if user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser is ExtractUser plus a guard: anonymous requests are
// redirected away instead of reaching the handler.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return m.ExtractUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, m.redirectURL(), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// UserFromContext returns the user ExtractUser placed on the request
// context, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}
