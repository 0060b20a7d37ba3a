// Package storage defines the Storage interface — a contract that any
// persistence backend must satisfy to work with this application.
//
// Handlers (HTTP layer) should not know or care which backend they are
// talking to. By depending only on this interface, switching from the
// in-memory fallback store to SQLite is one line in main.go, and tests
// can construct an isolated in-memory instance per test.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/student-directory/internal/types"
)

// Sentinel errors. Backends wrap these with context; callers test for
// them with errors.Is and map them to 404 / 400 responses.
var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("student not found")

	// ErrBadRequest is returned when a create/update payload fails the
	// backend's field-presence re-validation.
	ErrBadRequest = errors.New("missing or invalid fields")
)

// Storage is the collection-resource contract.
// Any concrete type implementing all of these methods satisfies the
// interface implicitly.
type Storage interface {
	// CreateStudent validates field presence, assigns a fresh id and
	// appends the record. The returned Student carries the assigned id.
	CreateStudent(in types.StudentInput) (types.Student, error)

	// GetStudentByID fetches a single record by id.
	// Returns an error wrapping ErrNotFound if absent.
	GetStudentByID(id string) (types.Student, error)

	// GetStudents returns every record in insertion order.
	// Returns an empty slice (not nil) when the collection is empty.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID replaces all non-id fields of an existing
	// record, preserving its id, and returns the updated record.
	UpdateStudentByID(id string, in types.StudentInput) (types.Student, error)

	// DeleteStudentByID removes a record permanently.
	DeleteStudentByID(id string) error
}

// ValidatePresence is the server-side re-validation every backend runs
// before persisting: all non-id fields must be present. GPA being
// non-nil is all that is required — JSON decoding already rejected
// non-numeric values, and range checking belongs to the form layer.
func ValidatePresence(in types.StudentInput) error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.RegistrationNumber) == "" ||
		in.Major == "" || in.DOB == "" || in.GPA == nil {
		return fmt.Errorf("missing or invalid fields in request body: %w", ErrBadRequest)
	}
	return nil
}
