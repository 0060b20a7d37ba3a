// Package middleware holds the routing-layer interceptors. The session
// guard lives here rather than wrapping individual page renderers, so
// the check runs before a page handler is ever invoked.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-directory/internal/session"
)

// RequireSession gates a page handler on session presence. A request
// without the session cookie is redirected to the login entry point
// instead of reaching the wrapped handler.
//
// This is best-effort UI gating, not a security boundary: the data
// endpoints under /api/students are deliberately not behind it.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.IsAuthenticated(r) {
			slog.Debug("unauthenticated request, redirecting to login",
				slog.String("path", r.URL.Path))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
