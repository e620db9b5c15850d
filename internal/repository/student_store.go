package repository

import (
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/validation"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

// StudentStore owns the student records, indexed by ID and registration number.
type StudentStore struct {
	mu        sync.RWMutex
	byID      map[string]*models.Student
	byRegNo   map[string]string
	validator *validator.Validate
}

// NewStudentStore constructs an empty store.
func NewStudentStore(validate *validator.Validate) *StudentStore {
	if validate == nil {
		validate = validation.New()
	}
	return &StudentStore{
		byID:      make(map[string]*models.Student),
		byRegNo:   make(map[string]string),
		validator: validate,
	}
}

// Add stores a copy of student after validating it and checking ID and
// registration number uniqueness.
func (s *StudentStore) Add(student *models.Student) error {
	if err := s.validate(student); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[student.ID]; exists {
		return appErrors.Clonef(appErrors.ErrDuplicate, "student with ID %s already exists", student.ID)
	}
	if _, exists := s.byRegNo[student.RegNo]; exists {
		return appErrors.Clonef(appErrors.ErrDuplicate, "registration number %s already exists", student.RegNo)
	}
	s.byID[student.ID] = student.Clone()
	s.byRegNo[student.RegNo] = student.ID
	return nil
}

// Update replaces the stored student with the same ID.
func (s *StudentStore) Update(student *models.Student) error {
	if student == nil {
		return appErrors.Clone(appErrors.ErrValidation, "student is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[student.ID]
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "student with ID %s not found", student.ID)
	}
	if err := s.validate(student); err != nil {
		return err
	}
	if owner, taken := s.byRegNo[student.RegNo]; taken && owner != student.ID {
		return appErrors.Clonef(appErrors.ErrDuplicate, "registration number %s is already used by another student", student.RegNo)
	}
	delete(s.byRegNo, current.RegNo)
	s.byRegNo[student.RegNo] = student.ID
	s.byID[student.ID] = student.Clone()
	return nil
}

// Mutate applies fn to a working copy of the stored student and commits the
// copy when fn succeeds. fn may not change the ID or registration number.
func (s *StudentStore) Mutate(id string, fn func(*models.Student) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "student with ID %s not found", id)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return err
	}
	if working.ID != current.ID || working.RegNo != current.RegNo {
		return appErrors.Clone(appErrors.ErrInvalidState, "student identity cannot change during mutation")
	}
	s.byID[id] = working
	return nil
}

// Delete removes the student from both indexes.
func (s *StudentStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "student with ID %s not found", id)
	}
	delete(s.byRegNo, current.RegNo)
	delete(s.byID, id)
	return nil
}

func (s *StudentStore) FindByID(id string) (*models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return student.Clone(), true
}

func (s *StudentStore) FindByRegNo(regNo string) (*models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byRegNo[regNo]
	if !ok {
		return nil, false
	}
	return s.byID[id].Clone(), true
}

// All returns every student sorted by name.
func (s *StudentStore) All() []*models.Student {
	return s.collect(func(*models.Student) bool { return true }, byName)
}

// SearchByName matches a case-insensitive substring of the full name. A
// blank query matches nothing.
func (s *StudentStore) SearchByName(query string) []*models.Student {
	if strings.TrimSpace(query) == "" {
		return []*models.Student{}
	}
	needle := strings.ToLower(query)
	return s.collect(func(st *models.Student) bool {
		return strings.Contains(strings.ToLower(st.FullName), needle)
	}, byName)
}

func (s *StudentStore) FilterByDepartment(department string) []*models.Student {
	return s.collect(func(st *models.Student) bool { return st.Department == department }, byName)
}

func (s *StudentStore) FilterByStatus(status models.StudentStatus) []*models.Student {
	return s.collect(func(st *models.Student) bool { return st.Status == status }, byName)
}

func (s *StudentStore) FilterBySemester(semester int) []*models.Student {
	return s.collect(func(st *models.Student) bool { return st.Semester == semester }, byName)
}

// TopPerformers returns students at or above threshold, best GPA first.
func (s *StudentStore) TopPerformers(threshold float64) []*models.Student {
	return s.collect(func(st *models.Student) bool { return st.GPA() >= threshold }, func(a, b *models.Student) bool {
		if a.GPA() != b.GPA() {
			return a.GPA() > b.GPA()
		}
		return byName(a, b)
	})
}

func (s *StudentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Statistics aggregates GPA, status and department figures. Students without
// a department are left out of the department breakdown.
func (s *StudentStore) Statistics() models.StudentStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.StudentStatistics{
		Total:        len(s.byID),
		ByStatus:     make(map[models.StudentStatus]int),
		ByDepartment: make(map[string]int),
	}
	if stats.Total == 0 {
		return stats
	}

	first := true
	var sum float64
	for _, st := range s.byID {
		gpa := st.GPA()
		sum += gpa
		if first || gpa < stats.MinGPA {
			stats.MinGPA = gpa
		}
		if first || gpa > stats.MaxGPA {
			stats.MaxGPA = gpa
		}
		first = false
		stats.ByStatus[st.Status]++
		if st.Department != "" {
			stats.ByDepartment[st.Department]++
		}
	}
	stats.AverageGPA = sum / float64(stats.Total)
	return stats
}

func (s *StudentStore) validate(student *models.Student) error {
	if student == nil {
		return appErrors.Clone(appErrors.ErrValidation, "student is required")
	}
	if !student.IsValid() {
		return appErrors.Clonef(appErrors.ErrValidation, "invalid student data for %s", student.ID)
	}
	if err := s.validator.Struct(student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid student data")
	}
	return nil
}

func (s *StudentStore) collect(keep func(*models.Student) bool, less func(a, b *models.Student) bool) []*models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Student, 0, len(s.byID))
	for _, st := range s.byID {
		if keep(st) {
			out = append(out, st.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byName(a, b *models.Student) bool {
	if a.FullName != b.FullName {
		return a.FullName < b.FullName
	}
	return a.ID < b.ID
}
