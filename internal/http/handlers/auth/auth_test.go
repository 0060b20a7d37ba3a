package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-directory/internal/session"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := http.NewServeMux()
	Register(router, session.New("test-secret"))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials set the session cookie", func(t *testing.T) {
		srv := newServer(t)

		resp, err := http.Post(srv.URL+"/api/auth/login", "application/json",
			strings.NewReader(`{"email":"ann@example.com","password":"pw"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		c := sessionCookie(resp)
		require.NotNil(t, c)
		assert.NotEmpty(t, c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 30*24*60*60, c.MaxAge)
	})

	t.Run("invalid email is 401 without a cookie", func(t *testing.T) {
		srv := newServer(t)

		resp, err := http.Post(srv.URL+"/api/auth/login", "application/json",
			strings.NewReader(`{"email":"not-an-email","password":"pw"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, sessionCookie(resp))
	})

	t.Run("blank password is 401", func(t *testing.T) {
		srv := newServer(t)

		resp, err := http.Post(srv.URL+"/api/auth/login", "application/json",
			strings.NewReader(`{"email":"ann@example.com","password":"  "}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Post(srv.URL+"/api/auth/logout", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	c := sessionCookie(resp)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}
