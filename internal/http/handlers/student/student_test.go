package student

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-directory/internal/storage/memory"
	"github.com/aanand-mishra/student-directory/internal/types"
)

func newServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	router := http.NewServeMux()
	Register(router, store)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func do(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeStudent(t *testing.T, resp *http.Response) types.Student {
	t.Helper()
	defer resp.Body.Close()
	var s types.Student
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	return s
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var m struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m.Message
}

const validBody = `{"name":"Ann","registrationNumber":"R1","dob":"2000-01-01","major":"Physics","gpa":3.5}`

func TestCreate(t *testing.T) {
	t.Run("201 with the created record", func(t *testing.T) {
		srv, _ := newServer(t)

		resp := postJSON(t, srv.URL+"/api/students", validBody)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		created := decodeStudent(t, resp)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Ann", created.Name)
		assert.Equal(t, 3.5, created.GPA)
	})

	t.Run("400 when gpa is not numeric, collection untouched", func(t *testing.T) {
		srv, store := newServer(t)

		resp := postJSON(t, srv.URL+"/api/students",
			`{"name":"Ann","registrationNumber":"R1","dob":"2000-01-01","major":"Physics","gpa":"high"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, MsgBadFields, decodeMessage(t, resp))

		all, err := store.GetStudents()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("400 when a field is missing", func(t *testing.T) {
		srv, _ := newServer(t)

		resp := postJSON(t, srv.URL+"/api/students",
			`{"registrationNumber":"R1","dob":"2000-01-01","major":"Physics","gpa":3.5}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decodeMessage(t, resp), "Name")
	})

	t.Run("400 on empty body", func(t *testing.T) {
		srv, _ := newServer(t)

		resp := postJSON(t, srv.URL+"/api/students", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "request body is empty", decodeMessage(t, resp))
	})
}

func TestList(t *testing.T) {
	t.Run("empty collection encodes as []", func(t *testing.T) {
		srv, _ := newServer(t)

		resp, err := http.Get(srv.URL + "/api/students")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		_, err = buf.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", buf.String())
	})

	t.Run("returns records in insertion order", func(t *testing.T) {
		srv, _ := newServer(t)

		first := decodeStudent(t, postJSON(t, srv.URL+"/api/students", validBody))
		second := decodeStudent(t, postJSON(t, srv.URL+"/api/students",
			`{"name":"Ben","registrationNumber":"R2","dob":"2001-02-02","major":"Biology","gpa":2.1}`))

		resp, err := http.Get(srv.URL + "/api/students")
		require.NoError(t, err)
		defer resp.Body.Close()

		var all []types.Student
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
		require.Len(t, all, 2)
		assert.Equal(t, first.ID, all[0].ID)
		assert.Equal(t, second.ID, all[1].ID)
	})
}

func TestGetByID(t *testing.T) {
	srv, _ := newServer(t)
	created := decodeStudent(t, postJSON(t, srv.URL+"/api/students", validBody))

	t.Run("200 for an existing id", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/students/" + created.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, created, decodeStudent(t, resp))
	})

	t.Run("404 with message for an unknown id", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/students/0")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, MsgNotFound, decodeMessage(t, resp))
	})
}

func TestUpdate(t *testing.T) {
	t.Run("200 with the updated record, id preserved", func(t *testing.T) {
		srv, _ := newServer(t)
		created := decodeStudent(t, postJSON(t, srv.URL+"/api/students", validBody))

		resp := do(t, http.MethodPut, srv.URL+"/api/students/"+created.ID,
			`{"name":"Ann B","registrationNumber":"R9","dob":"1999-09-09","major":"History","gpa":1.0}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		updated := decodeStudent(t, resp)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Ann B", updated.Name)
		assert.Equal(t, "R9", updated.RegistrationNumber)
		assert.Equal(t, "History", updated.Major)
		assert.Equal(t, 1.0, updated.GPA)
	})

	t.Run("404 for an unknown id", func(t *testing.T) {
		srv, _ := newServer(t)

		resp := do(t, http.MethodPut, srv.URL+"/api/students/0", validBody)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, MsgNotFound, decodeMessage(t, resp))
	})

	t.Run("400 for a bad payload, record untouched", func(t *testing.T) {
		srv, store := newServer(t)
		created := decodeStudent(t, postJSON(t, srv.URL+"/api/students", validBody))

		resp := do(t, http.MethodPut, srv.URL+"/api/students/"+created.ID,
			`{"name":"","registrationNumber":"R1","dob":"2000-01-01","major":"Physics","gpa":3.5}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()

		got, err := store.GetStudentByID(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})
}

func TestDelete(t *testing.T) {
	t.Run("204 with an empty body, then 404 on get", func(t *testing.T) {
		srv, _ := newServer(t)
		created := decodeStudent(t, postJSON(t, srv.URL+"/api/students", validBody))

		resp := do(t, http.MethodDelete, srv.URL+"/api/students/"+created.ID, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		buf := new(bytes.Buffer)
		_, err := buf.ReadFrom(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Empty(t, buf.String())

		get, err := http.Get(srv.URL + "/api/students/" + created.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, get.StatusCode)
		get.Body.Close()
	})

	t.Run("404 for an unknown id", func(t *testing.T) {
		srv, _ := newServer(t)

		resp := do(t, http.MethodDelete, srv.URL+"/api/students/0", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t)

	t.Run("collection endpoint", func(t *testing.T) {
		resp := do(t, http.MethodPatch, srv.URL+"/api/students", "{}")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "GET, POST", resp.Header.Get("Allow"))
		assert.Equal(t, fmt.Sprintf("Method %s Not Allowed", http.MethodPatch),
			decodeMessage(t, resp))
	})

	t.Run("item endpoint", func(t *testing.T) {
		resp := do(t, http.MethodPost, srv.URL+"/api/students/123", "{}")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "GET, PUT, DELETE", resp.Header.Get("Allow"))
		resp.Body.Close()
	})
}
