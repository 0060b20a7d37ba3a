// Package student contains the HTTP handlers for the student collection
// resource.
//
// Handlers are built with the closure / factory pattern: each factory
// accepts its dependencies (the storage backend) and returns a function
// with the exact signature the router needs. The factory runs once at
// route registration; the returned handler runs on every request.
//
// The same handlers serve whichever storage.Storage is wired in, so the
// in-memory fallback surface and the SQLite-backed surface are
// indistinguishable to a client.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/aanand-mishra/student-directory/internal/utils/response"
)

// Messages shared with the remote mock service, byte for byte, so a
// caller cannot tell the surfaces apart.
const (
	MsgNotFound  = "Student not found"
	MsgBadFields = "Missing or invalid fields in request body."
)

// Register wires the collection-resource routes onto a router. Method
// patterns (Go 1.22 ServeMux) handle dispatch; the method-less patterns
// below them catch every other verb and answer 405 with an Allow
// header, as the contract requires.
func Register(router *http.ServeMux, store storage.Storage) {
	router.HandleFunc("GET /api/students", GetList(store))
	router.HandleFunc("POST /api/students", New(store))
	router.HandleFunc("/api/students", MethodNotAllowed("GET", "POST"))

	router.HandleFunc("GET /api/students/{id}", GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", Update(store))
	router.HandleFunc("DELETE /api/students/{id}", Delete(store))
	router.HandleFunc("/api/students/{id}", MethodNotAllowed("GET", "PUT", "DELETE"))
}

// decodeInput reads a create/update payload. It distinguishes an empty
// body, a wrong-typed field (e.g. "gpa": "abc", which must read as the
// same bad-fields failure the mock service reports) and otherwise
// malformed JSON.
func decodeInput(r *http.Request) (types.StudentInput, error) {
	var in types.StudentInput

	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		return in, errors.New("request body is empty")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return in, errors.New(MsgBadFields)
	}
	if err != nil {
		return in, err
	}
	return in, nil
}

// writeStorageError maps the storage sentinel errors onto the contract:
// ErrNotFound → 404, ErrBadRequest → 400, anything else → 500.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, storage.ErrBadRequest):
		response.WriteError(w, http.StatusBadRequest, MsgBadFields)
	default:
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}

// New handles POST /api/students: create a record from the JSON body.
// Responds 201 with the created record (id assigned), or 400 with a
// {message} if any field is missing or gpa is not numeric.
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		in, err := decodeInput(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Struct-tag validation catches absent fields before the
		// storage layer re-checks presence (and trims whitespace).
		if err := validator.New().Struct(in); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		created, err := store.CreateStudent(in)
		if err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("student created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/students. Responds 200 with every record in
// backend order; an empty collection encodes as [] rather than null.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// GetByID handles GET /api/students/{id}. Responds 200 with the record
// or 404 with {message}.
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := store.GetStudentByID(id)
		if err != nil {
			writeStorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Update handles PUT /api/students/{id}: a full replace of every non-id
// field. Responds 200 with the updated record, 400 on a bad payload, or
// 404 when the id is absent.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		in, err := decodeInput(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(in); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		updated, err := store.UpdateStudentByID(id, in)
		if err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}. A successful delete is 204
// with an empty body; an unknown id is 404.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := store.DeleteStudentByID(id); err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// MethodNotAllowed answers any verb the endpoint does not support with
// 405, an Allow header enumerating the verbs it does, and the same
// {message} body shape as every other error.
func MethodNotAllowed(allow ...string) http.HandlerFunc {
	allowHeader := strings.Join(allow, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allowHeader)
		response.WriteError(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s Not Allowed", r.Method))
	}
}
