// Package session implements the authentication gate: issuing a session
// handle at login, storing it in a cookie, and checking its presence.
//
// The gate has exactly two states, Anonymous and Authenticated, and the
// whole state is one cookie. The cookie value is an opaque session
// handle (a signed JWT) issued here; every consumer of the gate checks
// only that the cookie exists — never its content or expiry. The gate
// is a best-effort convenience for the UI, not a security boundary.
package session

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the session cookie written at login and checked by the
// guard middleware.
const CookieName = "token"

// TTL is the cookie lifetime. The gate never inspects token expiry;
// the browser dropping the cookie is what ends a session.
const TTL = 30 * 24 * time.Hour

// emailRe is a syntactic check only: something, an @, something, a dot,
// something. Deliverability is not this layer's problem.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service issues session handles. Tokens are HS256 JWTs signed with the
// configured secret, carrying the login email and a unique session id.
type Service struct {
	secret []byte
}

// New constructs a Service signing with the given secret.
func New(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Login validates the submitted credentials and, on success, returns a
// freshly issued session token. It fails closed: a syntactically
// invalid email or a blank password yields ("", false) and no state
// change anywhere.
//
// There is no user database — any well-formed email plus a non-blank
// password is accepted, matching the mock service this fronts.
func (s *Service) Login(email, password string) (string, bool) {
	if !emailRe.MatchString(email) || strings.TrimSpace(password) == "" {
		return "", false
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", false
	}
	return token, true
}

// Subject returns the email a token was issued for, or "" if the token
// does not verify. Used only for display; the gate itself never calls
// this.
func (s *Service) Subject(token string) string {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return ""
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// Cookie builds the session cookie for an issued token: site-wide path,
// 30-day Max-Age. Not HttpOnly — the presence check must work from
// client-side script too.
func Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:   CookieName,
		Value:  token,
		Path:   "/",
		MaxAge: int(TTL.Seconds()),
	}
}

// ClearCookie builds the expired cookie that logs a session out.
// Clearing an absent cookie is a no-op, so logout is idempotent.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:   CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
}

// IsAuthenticated reports whether the request carries a session cookie.
// Presence is the entire check: content and expiry are never examined.
// A nil request (no cookie access at all) is Anonymous.
func IsAuthenticated(r *http.Request) bool {
	if r == nil {
		return false
	}
	c, err := r.Cookie(CookieName)
	return err == nil && c.Value != ""
}
