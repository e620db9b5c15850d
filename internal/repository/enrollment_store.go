package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

const enrollmentCounterStart = 1000

// EnrollmentStoreOption customises an EnrollmentStore.
type EnrollmentStoreOption func(*EnrollmentStore)

// WithClock overrides the time source used for enrollment dates.
func WithClock(now func() time.Time) EnrollmentStoreOption {
	return func(s *EnrollmentStore) {
		if now != nil {
			s.now = now
		}
	}
}

// EnrollmentStore owns enrollment records keyed by student/course pair.
// Records are never removed; dropping an enrollment only changes its status.
type EnrollmentStore struct {
	mu      sync.RWMutex
	byKey   map[models.EnrollmentKey]*models.Enrollment
	counter int
	seq     int64
	now     func() time.Time
}

// NewEnrollmentStore constructs an empty store.
func NewEnrollmentStore(opts ...EnrollmentStoreOption) *EnrollmentStore {
	s := &EnrollmentStore{
		byKey:   make(map[models.EnrollmentKey]*models.Enrollment),
		counter: enrollmentCounterStart,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enroll creates an ENROLLED record for the pair. IDs are "ENR" followed by
// a per-store counter and are never reused.
func (s *EnrollmentStore) Enroll(studentID, courseCode string) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(studentID, courseCode)
	if _, exists := s.byKey[key]; exists {
		return nil, appErrors.Clonef(appErrors.ErrDuplicate, "student %s already enrolled in course %s", studentID, courseCode)
	}
	id := fmt.Sprintf("ENR%d", s.counter)
	s.counter++
	s.seq++
	enrollment := models.NewEnrollment(id, studentID, courseCode, s.now(), s.seq)
	s.byKey[key] = enrollment
	return enrollment.Clone(), nil
}

// Unenroll marks the pair DROPPED and records reason as remarks. Completed
// enrollments can be dropped too; the grade is kept on the record.
func (s *EnrollmentStore) Unenroll(studentID, courseCode, reason string) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, ok := s.byKey[pairKey(studentID, courseCode)]
	if !ok {
		return nil, appErrors.Clonef(appErrors.ErrNotFound, "enrollment not found for student %s in course %s", studentID, courseCode)
	}
	enrollment.Drop(reason)
	return enrollment.Clone(), nil
}

// AssignGrade grades an ENROLLED pair, completing it.
func (s *EnrollmentStore) AssignGrade(studentID, courseCode string, grade models.Grade) (*models.Enrollment, error) {
	if !grade.Valid() {
		return nil, appErrors.Clonef(appErrors.ErrValidation, "invalid grade %q", grade)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, ok := s.byKey[pairKey(studentID, courseCode)]
	if !ok {
		return nil, appErrors.Clonef(appErrors.ErrNotFound, "enrollment not found for student %s in course %s", studentID, courseCode)
	}
	if !enrollment.IsActive() {
		return nil, appErrors.Clonef(appErrors.ErrInvalidState, "cannot assign grade to %s enrollment %s", enrollment.Status, enrollment.ID)
	}
	enrollment.SetGrade(grade)
	return enrollment.Clone(), nil
}

func (s *EnrollmentStore) Find(studentID, courseCode string) (*models.Enrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enrollment, ok := s.byKey[pairKey(studentID, courseCode)]
	if !ok {
		return nil, false
	}
	return enrollment.Clone(), true
}

// ForStudent lists the student's enrollments, oldest first.
func (s *EnrollmentStore) ForStudent(studentID string) []*models.Enrollment {
	return s.collect(func(e *models.Enrollment) bool { return e.StudentID == studentID })
}

// ForCourse lists the course's enrollments, oldest first.
func (s *EnrollmentStore) ForCourse(courseCode string) []*models.Enrollment {
	return s.collect(func(e *models.Enrollment) bool { return e.CourseCode == courseCode })
}

// Active lists ENROLLED records.
func (s *EnrollmentStore) Active() []*models.Enrollment {
	return s.collect(func(e *models.Enrollment) bool { return e.IsActive() })
}

func (s *EnrollmentStore) All() []*models.Enrollment {
	return s.collect(func(*models.Enrollment) bool { return true })
}

// ActiveCountForStudent counts the student's ENROLLED records.
func (s *EnrollmentStore) ActiveCountForStudent(studentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.byKey {
		if e.StudentID == studentID && e.IsActive() {
			n++
		}
	}
	return n
}

// Transcript lists every enrollment of the student with its status label
// and grade, oldest first.
func (s *EnrollmentStore) Transcript(studentID string) []models.TranscriptEntry {
	enrollments := s.ForStudent(studentID)
	out := make([]models.TranscriptEntry, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, models.TranscriptEntry{
			CourseCode: e.CourseCode,
			Status:     e.Status.Description(),
			Grade:      e.GradeLabel(),
		})
	}
	return out
}

func (s *EnrollmentStore) Statistics() models.EnrollmentStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.EnrollmentStatistics{Total: len(s.byKey)}
	for _, e := range s.byKey {
		switch {
		case e.IsActive():
			stats.Active++
		case e.IsCompleted():
			stats.Completed++
		}
	}
	return stats
}

func (s *EnrollmentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

func (s *EnrollmentStore) collect(keep func(*models.Enrollment) bool) []*models.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Enrollment, 0)
	for _, e := range s.byKey {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EnrolledAt.Equal(out[j].EnrolledAt) {
			return out[i].EnrolledAt.Before(out[j].EnrolledAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

func pairKey(studentID, courseCode string) models.EnrollmentKey {
	return models.EnrollmentKey{StudentID: studentID, CourseCode: courseCode}
}
