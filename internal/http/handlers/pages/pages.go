// Package pages is the server-rendered presentation layer: the student
// listing with search, detail, create/edit forms, and the login page.
//
// Pages never talk to a backend directly — they go through the
// Directory interface, which the remote data-access client satisfies.
// Every backend failure is caught here, at the call site nearest the
// user action, and rendered as a banner, an inline form error, or a
// degraded (empty / not-found) page. A render never panics because a
// backend call failed.
package pages

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-directory/internal/client/studentapi"
	"github.com/aanand-mishra/student-directory/internal/session"
	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/aanand-mishra/student-directory/internal/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Directory is what the pages need from a student backend. The
// studentapi.Client implements it; tests may substitute anything else.
type Directory interface {
	List(ctx context.Context) ([]types.Student, error)
	GetByID(ctx context.Context, id string) (types.Student, error)
	Create(ctx context.Context, in types.StudentInput) (types.Student, error)
	Update(ctx context.Context, id string, in types.StudentInput) (studentapi.UpdateResult, error)
	DeleteByID(ctx context.Context, id string) error
}

// Handler renders all pages. Construct with New.
type Handler struct {
	directory Directory
	sessions  *session.Service
	tmpl      *template.Template
}

// New parses the embedded templates once and returns a ready Handler.
func New(directory Directory, sessions *session.Service) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("pages.New: parse templates: %w", err)
	}
	return &Handler{directory: directory, sessions: sessions, tmpl: tmpl}, nil
}

// Register wires the page routes onto a router. The guard middleware
// fronts every page except login; the routing layer checks session
// presence before a page handler ever runs.
func (h *Handler) Register(router *http.ServeMux, guard func(http.Handler) http.Handler) {
	protected := func(fn http.HandlerFunc) http.Handler { return guard(fn) }

	router.Handle("GET /{$}", protected(h.List))
	router.Handle("GET /students/new", protected(h.NewForm))
	router.Handle("POST /students/new", protected(h.CreateSubmit))
	router.Handle("GET /students/{id}", protected(h.Detail))
	router.Handle("GET /students/{id}/edit", protected(h.EditForm))
	router.Handle("POST /students/{id}/edit", protected(h.EditSubmit))
	router.Handle("POST /students/{id}/delete", protected(h.DeleteSubmit))

	router.HandleFunc("GET /login", h.LoginForm)
	router.HandleFunc("POST /login", h.LoginSubmit)
	router.HandleFunc("POST /logout", h.LogoutSubmit)

	router.Handle("GET /static/", http.FileServerFS(staticFS))
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
	}
}

// currentEmail is display-only: it reads the session cookie and asks
// the session service for the subject. An unverifiable token just
// renders no email; it does not log anyone out.
func (h *Handler) currentEmail(r *http.Request) string {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return h.sessions.Subject(c.Value)
}

// flashText maps the success query parameter a redirect carries into
// the banner the listing shows once.
func flashText(r *http.Request) string {
	switch r.URL.Query().Get("success") {
	case "added":
		return "Student added successfully!"
	case "updated":
		return "Student updated successfully!"
	case "deleted":
		return "Student deleted successfully!"
	}
	return ""
}

type listData struct {
	Email    string
	Query    string
	Flash    string
	LoadErr  string
	Students []types.Student
}

// matchesQuery is the listing search: case-insensitive substring match
// on name or major, plus a plain substring match on the GPA rendered
// as text.
func matchesQuery(s types.Student, q string) bool {
	if q == "" {
		return true
	}
	lq := strings.ToLower(q)
	return strings.Contains(strings.ToLower(s.Name), lq) ||
		strings.Contains(strings.ToLower(s.Major), lq) ||
		strings.Contains(strconv.FormatFloat(s.GPA, 'f', -1, 64), q)
}

// List renders the student directory, filtered by the q parameter.
// A fetch failure degrades to an empty listing with a banner.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	data := listData{
		Email: h.currentEmail(r),
		Query: r.URL.Query().Get("q"),
		Flash: flashText(r),
	}
	if r.URL.Query().Get("error") == "delete_failed" {
		data.LoadErr = "Failed to delete student."
	}

	students, err := h.directory.List(r.Context())
	if err != nil {
		slog.Error("listing students failed", slog.String("error", err.Error()))
		data.LoadErr = "Failed to load students."
		h.render(w, "list.html", data)
		return
	}

	for _, s := range students {
		if matchesQuery(s, data.Query) {
			data.Students = append(data.Students, s)
		}
	}
	h.render(w, "list.html", data)
}

type detailData struct {
	Email    string
	NotFound string
	Student  types.Student
}

// Detail renders one student, or an explicit not-found state: a missing
// record is a page, not an exception.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data := detailData{Email: h.currentEmail(r)}

	student, err := h.directory.GetByID(r.Context(), id)
	if err != nil {
		var nf *studentapi.NotFoundError
		if errors.As(err, &nf) {
			data.NotFound = nf.Error()
		} else {
			data.NotFound = "Failed to fetch student"
		}
		w.WriteHeader(http.StatusNotFound)
		h.render(w, "detail.html", data)
		return
	}

	data.Student = student
	h.render(w, "detail.html", data)
}

// formData carries everything the shared student form template needs.
// Values stay strings so a rejected submission re-renders exactly what
// the user typed, including an unparseable GPA.
type formData struct {
	Email   string
	Title   string
	Action  string
	Editing bool

	Name    string
	RegNo   string
	DOB     string
	Major   string
	GPA     string
	Majors  []string
	Errors  map[string]string
	Failure string
}

// parseForm reads the submitted fields and builds the candidate input.
// An unparseable GPA becomes NaN so the validation layer reports it as
// not-a-number rather than silently zeroing it.
func parseForm(r *http.Request) (types.StudentInput, formData) {
	r.ParseForm()

	data := formData{
		Name:   r.PostFormValue("name"),
		RegNo:  r.PostFormValue("registrationNumber"),
		DOB:    r.PostFormValue("dob"),
		Major:  r.PostFormValue("major"),
		GPA:    r.PostFormValue("gpa"),
		Majors: types.Majors,
	}

	gpa, err := strconv.ParseFloat(strings.TrimSpace(data.GPA), 64)
	if err != nil {
		gpa = math.NaN()
	}

	in := types.StudentInput{
		Name:               data.Name,
		RegistrationNumber: data.RegNo,
		DOB:                data.DOB,
		Major:              data.Major,
		GPA:                &gpa,
	}
	return in, data
}

// NewForm renders the empty create form.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "form.html", formData{
		Email:  h.currentEmail(r),
		Title:  "Add New Student",
		Action: "/students/new",
		Majors: types.Majors,
	})
}

// CreateSubmit validates the candidate and creates it through the
// directory. Validation failures never reach the network; they
// re-render the form with per-field messages.
func (h *Handler) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	in, data := parseForm(r)
	data.Email = h.currentEmail(r)
	data.Title = "Add New Student"
	data.Action = "/students/new"

	if errs := validation.Validate(in); len(errs) > 0 {
		data.Errors = errs
		h.render(w, "form.html", data)
		return
	}

	if _, err := h.directory.Create(r.Context(), in); err != nil {
		slog.Error("create student failed", slog.String("error", err.Error()))
		data.Failure = "Failed to create student."
		h.render(w, "form.html", data)
		return
	}

	http.Redirect(w, r, "/?success=added", http.StatusSeeOther)
}

// EditForm renders the form pre-filled with the stored record.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	student, err := h.directory.GetByID(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		h.render(w, "detail.html", detailData{
			Email:    h.currentEmail(r),
			NotFound: "Student not found",
		})
		return
	}

	h.render(w, "form.html", formData{
		Email:   h.currentEmail(r),
		Title:   "Edit Student",
		Action:  "/students/" + id + "/edit",
		Editing: true,
		Name:    student.Name,
		RegNo:   student.RegistrationNumber,
		DOB:     student.DOB,
		Major:   student.Major,
		GPA:     strconv.FormatFloat(student.GPA, 'f', -1, 64),
		Majors:  types.Majors,
	})
}

// EditSubmit validates and PUTs a full replacement. Update hands back a
// result value for every completed exchange, so a 404/400 renders a
// status-specific message here without any error unwinding; only a
// network failure arrives as an error.
func (h *Handler) EditSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	in, data := parseForm(r)
	data.Email = h.currentEmail(r)
	data.Title = "Edit Student"
	data.Action = "/students/" + id + "/edit"
	data.Editing = true

	if errs := validation.Validate(in); len(errs) > 0 {
		data.Errors = errs
		h.render(w, "form.html", data)
		return
	}

	res, err := h.directory.Update(r.Context(), id, in)
	if err != nil {
		data.Failure = "Failed to update student."
		h.render(w, "form.html", data)
		return
	}
	if !res.OK {
		data.Failure = fmt.Sprintf("Update failed (status %d).", res.Status)
		h.render(w, "form.html", data)
		return
	}

	http.Redirect(w, r, "/?success=updated", http.StatusSeeOther)
}

// DeleteSubmit removes a record and bounces back to the listing; a
// failure surfaces as a banner there.
func (h *Handler) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.directory.DeleteByID(r.Context(), id); err != nil {
		slog.Error("delete student failed",
			slog.String("id", id),
			slog.String("error", err.Error()))
		http.Redirect(w, r, "/?error=delete_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/?success=deleted", http.StatusSeeOther)
}

type loginData struct {
	Email   string
	Failure string
}

// LoginForm renders the login entry point.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", loginData{})
}

// LoginSubmit checks the submitted credentials. Success sets the
// session cookie and lands on the listing; failure re-renders the form
// with the typed email kept and the password dropped.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	token, ok := h.sessions.Login(email, password)
	if !ok {
		slog.Info("login rejected", slog.String("email", email))
		h.render(w, "login.html", loginData{
			Email:   email,
			Failure: "Login failed: Invalid credentials",
		})
		return
	}

	slog.Info("login successful", slog.String("email", email))
	http.SetCookie(w, session.Cookie(token))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutSubmit clears the session cookie and returns to login.
func (h *Handler) LogoutSubmit(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, session.ClearCookie())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
