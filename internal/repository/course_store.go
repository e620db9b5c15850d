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

// CourseStore owns the course catalogue and a department → codes index.
type CourseStore struct {
	mu           sync.RWMutex
	byCode       map[string]*models.Course
	byDepartment map[string]map[string]struct{}
	validator    *validator.Validate
}

// NewCourseStore constructs an empty store.
func NewCourseStore(validate *validator.Validate) *CourseStore {
	if validate == nil {
		validate = validation.New()
	}
	return &CourseStore{
		byCode:       make(map[string]*models.Course),
		byDepartment: make(map[string]map[string]struct{}),
		validator:    validate,
	}
}

// Add stores a copy of course. The code must be unused.
func (s *CourseStore) Add(course *models.Course) error {
	if course == nil {
		return appErrors.Clone(appErrors.ErrValidation, "course is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[course.Code]; exists {
		return appErrors.Clonef(appErrors.ErrDuplicate, "course with code %s already exists", course.Code)
	}
	if err := s.validate(course); err != nil {
		return err
	}
	s.byCode[course.Code] = course.Clone()
	s.index(course.Department, course.Code)
	return nil
}

// Update replaces the catalogue fields of an existing course. The enrolled
// set of the stored course is kept; use AddStudent and RemoveStudent for it.
func (s *CourseStore) Update(course *models.Course) error {
	if course == nil {
		return appErrors.Clone(appErrors.ErrValidation, "course is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byCode[course.Code]
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "course with code %s not found", course.Code)
	}
	if err := s.validate(course); err != nil {
		return err
	}
	if course.MaxCapacity < current.EnrolledCount() {
		return appErrors.Clonef(appErrors.ErrInvalidState, "capacity %d is below current enrollment %d", course.MaxCapacity, current.EnrolledCount())
	}
	if current.Department != course.Department {
		s.unindex(current.Department, course.Code)
		s.index(course.Department, course.Code)
	}
	s.byCode[course.Code] = course.WithEnrollmentOf(current)
	return nil
}

// Delete removes a course that has no enrolled students.
func (s *CourseStore) Delete(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byCode[code]
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "course with code %s not found", code)
	}
	if n := current.EnrolledCount(); n > 0 {
		return appErrors.Clonef(appErrors.ErrInvalidState, "cannot delete a course with active enrollees (current enrollment: %d)", n)
	}
	s.unindex(current.Department, code)
	delete(s.byCode, code)
	return nil
}

// AddStudent records studentID against the course roster.
func (s *CourseStore) AddStudent(code, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byCode[code]
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "course with code %s not found", code)
	}
	if current.HasStudent(studentID) {
		return appErrors.Clonef(appErrors.ErrDuplicate, "student %s already on roster of %s", studentID, code)
	}
	if !current.AddStudent(studentID) {
		return appErrors.Clonef(appErrors.ErrInvalidState, "course %s is full (%d/%d)", code, current.EnrolledCount(), current.MaxCapacity)
	}
	return nil
}

// RemoveStudent drops studentID from the course roster.
func (s *CourseStore) RemoveStudent(code, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byCode[code]
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "course with code %s not found", code)
	}
	if !current.RemoveStudent(studentID) {
		return appErrors.Clonef(appErrors.ErrNotFound, "student %s is not on roster of %s", studentID, code)
	}
	return nil
}

func (s *CourseStore) FindByCode(code string) (*models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.byCode[code]
	if !ok {
		return nil, false
	}
	return course.Clone(), true
}

// All returns every course sorted by code.
func (s *CourseStore) All() []*models.Course {
	return s.collect(func(*models.Course) bool { return true }, byCode)
}

// SearchByTitle matches a case-insensitive substring of the title, sorted by
// title. A blank query matches nothing.
func (s *CourseStore) SearchByTitle(query string) []*models.Course {
	if strings.TrimSpace(query) == "" {
		return []*models.Course{}
	}
	needle := strings.ToLower(query)
	return s.collect(func(c *models.Course) bool {
		return strings.Contains(strings.ToLower(c.Title), needle)
	}, func(a, b *models.Course) bool {
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Code < b.Code
	})
}

// FilterByDepartment resolves courses through the department index.
func (s *CourseStore) FilterByDepartment(department string) []*models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := s.byDepartment[department]
	out := make([]*models.Course, 0, len(codes))
	for code := range codes {
		out = append(out, s.byCode[code].Clone())
	}
	sort.Slice(out, func(i, j int) bool { return byCode(out[i], out[j]) })
	return out
}

func (s *CourseStore) FilterBySemester(semester models.Semester) []*models.Course {
	return s.collect(func(c *models.Course) bool { return c.Semester == semester }, byCode)
}

func (s *CourseStore) FilterByInstructor(instructor string) []*models.Course {
	return s.collect(func(c *models.Course) bool { return c.Instructor == instructor }, byCode)
}

func (s *CourseStore) FilterByCredits(credits int) []*models.Course {
	return s.collect(func(c *models.Course) bool { return c.Credits == credits }, byCode)
}

// Available lists courses that still have free seats.
func (s *CourseStore) Available() []*models.Course {
	return s.collect(func(c *models.Course) bool { return !c.IsFull() }, byCode)
}

// Departments lists the departments that currently hold courses.
func (s *CourseStore) Departments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.byDepartment))
	for dept, codes := range s.byDepartment {
		if len(codes) > 0 {
			out = append(out, dept)
		}
	}
	sort.Strings(out)
	return out
}

func (s *CourseStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCode)
}

func (s *CourseStore) Statistics() models.CourseStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.CourseStatistics{
		Total:        len(s.byCode),
		ByDepartment: make(map[string]int),
		BySemester:   make(map[models.Semester]int),
		ByCredits:    make(map[int]int),
	}
	if stats.Total == 0 {
		return stats
	}
	var credits int
	for _, c := range s.byCode {
		credits += c.Credits
		stats.ByDepartment[c.Department]++
		stats.BySemester[c.Semester]++
		stats.ByCredits[c.Credits]++
	}
	stats.AverageCredits = float64(credits) / float64(stats.Total)
	return stats
}

func (s *CourseStore) index(department, code string) {
	codes, ok := s.byDepartment[department]
	if !ok {
		codes = make(map[string]struct{})
		s.byDepartment[department] = codes
	}
	codes[code] = struct{}{}
}

func (s *CourseStore) unindex(department, code string) {
	codes, ok := s.byDepartment[department]
	if !ok {
		return
	}
	delete(codes, code)
	if len(codes) == 0 {
		delete(s.byDepartment, department)
	}
}

func (s *CourseStore) collect(keep func(*models.Course) bool, less func(a, b *models.Course) bool) []*models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Course, 0, len(s.byCode))
	for _, c := range s.byCode {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byCode(a, b *models.Course) bool {
	return a.Code < b.Code
}

func (s *CourseStore) validate(course *models.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	if err := s.validator.Struct(course); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid course data")
	}
	return nil
}
