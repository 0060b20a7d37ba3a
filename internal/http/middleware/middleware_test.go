package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/student-directory/internal/session"
)

func TestRequireSession(t *testing.T) {
	t.Run("redirects to login when cookie is missing", func(t *testing.T) {
		reached := false
		handler := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("passes through when cookie is present", func(t *testing.T) {
		reached := false
		handler := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "opaque"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie content is not inspected", func(t *testing.T) {
		reached := false
		handler := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "expired-or-garbage"})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, reached)
	})
}
