// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, they are centralised here.
//
// Error responses always carry the same shape the remote collection
// service uses:
//
//	{ "message": "Student not found" }
//
// so a client cannot tell the two backend surfaces apart.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is the standard envelope for every non-2xx response.
type Error struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status.
//
// Order matters: Content-Type must be set before WriteHeader, and
// WriteHeader before any body bytes. json.NewEncoder streams straight
// into w, avoiding an intermediate buffer.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes the standard {message} envelope.
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, Error{Message: message})
}

// GeneralError wraps any Go error into the standard envelope.
func GeneralError(err error) Error {
	return Error{Message: err.Error()}
}

// ValidationError converts a slice of validator.FieldError values into
// a single envelope. One FieldError is produced per failing struct
// field; each becomes a plain English fragment and the fragments are
// joined so the client sees one descriptive message.
func ValidationError(errs validator.ValidationErrors) Error {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Error{Message: strings.Join(errMessages, ", ")}
}
