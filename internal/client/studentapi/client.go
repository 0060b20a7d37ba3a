// Package studentapi is the data-access client for a remote student
// collection resource. It translates the five logical operations into
// HTTP calls and normalizes the results into typed failures.
//
// Everything except Update is fail-fast: the caller has no finer-
// grained recovery to offer, so a transport error or non-2xx status
// surfaces as an error wrapping one of the sentinel values below.
// Update instead returns a result value carrying the raw ok/status so
// the edit form can render a status-specific failure without
// exception-style control flow; only a network-level failure is
// returned as an error there.
package studentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-directory/internal/types"
)

// Sentinel failures, one per fail-fast operation.
var (
	ErrFetchFailed  = fmt.Errorf("failed to fetch students")
	ErrCreateFailed = fmt.Errorf("failed to create student")
	ErrDeleteFailed = fmt.Errorf("failed to delete student")
)

// NotFoundError is returned by GetByID whenever a usable record could
// not be produced: non-2xx status, a payload carrying a backend
// message, a payload with no id, or a network failure. The backend's
// own message is surfaced when it sent one.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "failed to fetch student"
}

// UpdateResult is the value Update returns for every completed HTTP
// exchange, successful or not. Data is nil for no-content (204)
// responses and for failures.
type UpdateResult struct {
	OK     bool
	Status int
	Data   *types.Student
}

// Client calls a remote collection resource rooted at baseURL
// (e.g. "https://host/api"). The zero timeout of http.DefaultClient is
// kept unless the caller injects a configured client; no retries are
// ever performed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful in tests and for
// callers that want a transport timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New constructs a Client for the collection resource rooted at baseURL.
func New(baseURL string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches every record. Order is whatever the backend returned.
func (c *Client) List(ctx context.Context) ([]types.Student, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/students", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var students []types.Student
	if err := json.NewDecoder(resp.Body).Decode(&students); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFetchFailed, err)
	}
	return students, nil
}

// GetByID fetches a single record. Any outcome that is not a 2xx
// response carrying a record with an id comes back as *NotFoundError,
// with whatever message the backend offered.
func (c *Client) GetByID(ctx context.Context, id string) (types.Student, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/students/"+id, nil)
	if err != nil {
		return types.Student{}, &NotFoundError{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Student{}, &NotFoundError{}
	}
	defer resp.Body.Close()

	// Decode into a shape that can carry either a record or a backend
	// error message; which one arrived decides the outcome.
	var payload struct {
		types.Student
		Message string `json:"message"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if !ok || decodeErr != nil || payload.Message != "" || payload.ID == "" {
		return types.Student{}, &NotFoundError{Message: payload.Message}
	}

	return payload.Student, nil
}

// Create posts a record-without-id and returns the created record with
// its assigned id.
func (c *Client) Create(ctx context.Context, in types.StudentInput) (types.Student, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return types.Student{}, fmt.Errorf("%w: marshal: %w", ErrCreateFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/students", bytes.NewReader(body))
	if err != nil {
		return types.Student{}, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Student{}, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.Student{}, fmt.Errorf("%w: status %d", ErrCreateFailed, resp.StatusCode)
	}

	var created types.Student
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return types.Student{}, fmt.Errorf("%w: decode: %w", ErrCreateFailed, err)
	}
	return created, nil
}

// Update PUTs a full replacement of the record. Every completed HTTP
// exchange yields a result value, never an error: a 404 or 400 arrives
// as {OK:false, Status:...} for the caller to render. Only a network-
// level failure is returned as an error, logged before it is handed
// back.
func (c *Client) Update(ctx context.Context, id string, in types.StudentInput) (UpdateResult, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update student: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/students/"+id, bytes.NewReader(body))
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update student: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("update student request failed",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return UpdateResult{}, fmt.Errorf("update student: %w", err)
	}
	defer resp.Body.Close()

	result := UpdateResult{
		OK:     resp.StatusCode >= 200 && resp.StatusCode <= 299,
		Status: resp.StatusCode,
	}

	// A 204 carries no body at all; otherwise decode whatever came
	// back on success so the caller sees the stored record.
	if result.OK && resp.StatusCode != http.StatusNoContent {
		var updated types.Student
		if err := json.NewDecoder(resp.Body).Decode(&updated); err == nil {
			result.Data = &updated
		}
	}

	return result, nil
}

// DeleteByID removes a record.
func (c *Client) DeleteByID(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/students/"+id, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrDeleteFailed, resp.StatusCode)
	}
	return nil
}
