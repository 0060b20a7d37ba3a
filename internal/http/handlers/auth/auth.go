// Package auth contains the HTTP handlers for the authentication gate:
// logging in (issuing the session cookie) and logging out (clearing
// it). Built with the same factory pattern as the student handlers.
package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-directory/internal/session"
	"github.com/aanand-mishra/student-directory/internal/utils/response"
)

// Register wires the auth routes onto a router.
func Register(router *http.ServeMux, sessions *session.Service) {
	router.HandleFunc("POST /api/auth/login", Login(sessions))
	router.HandleFunc("POST /api/auth/logout", Logout())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. On success it sets the session
// cookie and responds 204; invalid credentials are a 401 with the
// standard {message} envelope and no state change.
func Login(sessions *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}

		token, ok := sessions.Login(req.Email, req.Password)
		if !ok {
			slog.Info("login rejected", slog.String("email", req.Email))
			response.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		slog.Info("login successful", slog.String("email", req.Email))
		http.SetCookie(w, session.Cookie(token))
		w.WriteHeader(http.StatusNoContent)
	}
}

// Logout handles POST /api/auth/logout. Clearing the cookie is
// unconditional, so logging out while already Anonymous is a no-op.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("logout")
		http.SetCookie(w, session.ClearCookie())
		w.WriteHeader(http.StatusNoContent)
	}
}
