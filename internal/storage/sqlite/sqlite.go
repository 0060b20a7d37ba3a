// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk — no network, no
// separate server process, nothing to install beyond the driver. The
// blank import below registers the sqlite3 driver with database/sql;
// the driver's init() does this when the package is loaded.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/aanand-mishra/student-directory/internal/config"
	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the persistent implementation of storage.Storage.
// A single *sql.DB is a connection pool, safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath, creates the
// students table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe on every startup.
	//
	// Schema notes:
	//   id         — TEXT primary key; the application assigns ids (the
	//                same timestamp scheme every backend uses), so the
	//                id contract is identical across backends.
	//   created_at — insertion counter for stable list ordering.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			reg_number TEXT NOT NULL,
			dob        TEXT NOT NULL,
			major      TEXT NOT NULL,
			gpa        REAL NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// nextID mirrors the fallback store's id scheme: the current Unix
// millisecond, bumped past any id already issued so two inserts in the
// same millisecond never collide.
func (s *SQLite) nextID() (string, error) {
	id := time.Now().UnixMilli()

	var maxID sql.NullInt64
	err := s.Db.QueryRow(
		"SELECT MAX(CAST(id AS INTEGER)) FROM students",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("next id: %w", err)
	}
	if maxID.Valid && id <= maxID.Int64 {
		id = maxID.Int64 + 1
	}

	return strconv.FormatInt(id, 10), nil
}

// CreateStudent validates field presence, assigns a fresh id and
// inserts the row. Prepared statements keep the values out of the SQL
// text, so user input is never interpreted as SQL syntax.
func (s *SQLite) CreateStudent(in types.StudentInput) (types.Student, error) {
	if err := storage.ValidatePresence(in); err != nil {
		return types.Student{}, err
	}

	id, err := s.nextID()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}
	student := in.Record(id)

	stmt, err := s.Db.Prepare(`
		INSERT INTO students (id, name, reg_number, dob, major, gpa, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		student.ID,
		student.Name,
		student.RegistrationNumber,
		student.DOB,
		student.Major,
		student.GPA,
		time.Now().UnixNano(),
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return student, nil
}

// GetStudentByID fetches exactly one row matched by primary key.
// Scan reads the columns into Go variables in SELECT order.
func (s *SQLite) GetStudentByID(id string) (types.Student, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, name, reg_number, dob, major, gpa
		FROM students WHERE id = ? LIMIT 1
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.RegistrationNumber,
		&student.DOB,
		&student.Major,
		&student.GPA,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Student{}, fmt.Errorf("no student with id %s: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all rows in insertion order.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, name, reg_number, dob, major, gpa
		FROM students ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice so an empty table encodes
	// to [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.RegistrationNumber,
			&student.DOB,
			&student.Major,
			&student.GPA,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces all non-id fields of an existing row.
// Returns the updated record so the caller can echo it back.
func (s *SQLite) UpdateStudentByID(id string, in types.StudentInput) (types.Student, error) {
	if err := storage.ValidatePresence(in); err != nil {
		return types.Student{}, err
	}

	stmt, err := s.Db.Prepare(`
		UPDATE students SET name = ?, reg_number = ?, dob = ?, major = ?, gpa = ?
		WHERE id = ?
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	student := in.Record(id)
	result, err := stmt.Exec(
		student.Name,
		student.RegistrationNumber,
		student.DOB,
		student.Major,
		student.GPA,
		id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, fmt.Errorf("no student with id %s: %w", id, storage.ErrNotFound)
	}

	return student, nil
}

// DeleteStudentByID removes a row by primary key.
func (s *SQLite) DeleteStudentByID(id string) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no student with id %s: %w", id, storage.ErrNotFound)
	}

	return nil
}
