// Package memory provides the in-process fallback implementation of the
// storage.Storage interface, used when no external backend or database
// is configured.
//
// The collection lives entirely in the Store instance — there is no
// package-level state. Construct one with New, pass it to the handlers,
// and it disappears with the process. Tests build isolated instances
// instead of sharing a process-wide collection.
package memory

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/types"
)

// Store keeps records in insertion order, guarded by a single mutex so
// every operation is atomic: an update is either fully visible or not
// at all. Starts empty.
type Store struct {
	mu       sync.RWMutex
	students []types.Student
	lastID   int64
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{students: make([]types.Student, 0)}
}

// nextID assigns ids from the current Unix-millisecond timestamp, the
// same scheme the remote mock service uses. Two creates inside the same
// millisecond bump past the previous id so ids stay unique.
// Caller must hold mu.
func (s *Store) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// indexOf returns the position of the record with the given id, or -1.
// Caller must hold mu (read or write).
func (s *Store) indexOf(id string) int {
	for i, st := range s.students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) CreateStudent(in types.StudentInput) (types.Student, error) {
	if err := storage.ValidatePresence(in); err != nil {
		return types.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	student := in.Record(s.nextID())
	s.students = append(s.students, student)
	return student, nil
}

func (s *Store) GetStudentByID(id string) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.students[i], nil
	}
	return types.Student{}, fmt.Errorf("no student with id %s: %w", id, storage.ErrNotFound)
}

func (s *Store) GetStudents() ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Copy so callers never alias the live collection.
	out := make([]types.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

func (s *Store) UpdateStudentByID(id string, in types.StudentInput) (types.Student, error) {
	if err := storage.ValidatePresence(in); err != nil {
		return types.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("no student with id %s: %w", id, storage.ErrNotFound)
	}

	// Full replace, id preserved.
	s.students[i] = in.Record(id)
	return s.students[i], nil
}

func (s *Store) DeleteStudentByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("no student with id %s: %w", id, storage.ErrNotFound)
	}

	s.students = append(s.students[:i], s.students[i+1:]...)
	return nil
}
