package service

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/validation"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/config"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

const (
	entityStudent    = "student"
	entityCourse     = "course"
	entityEnrollment = "enrollment"
)

type studentRepository interface {
	Add(student *models.Student) error
	Update(student *models.Student) error
	Mutate(id string, fn func(*models.Student) error) error
	Delete(id string) error
	FindByID(id string) (*models.Student, bool)
	All() []*models.Student
	Count() int
	Statistics() models.StudentStatistics
}

type courseRepository interface {
	Add(course *models.Course) error
	Update(course *models.Course) error
	Delete(code string) error
	AddStudent(code, studentID string) error
	RemoveStudent(code, studentID string) error
	FindByCode(code string) (*models.Course, bool)
	All() []*models.Course
	Count() int
	Statistics() models.CourseStatistics
}

type enrollmentRepository interface {
	Enroll(studentID, courseCode string) (*models.Enrollment, error)
	Unenroll(studentID, courseCode, reason string) (*models.Enrollment, error)
	AssignGrade(studentID, courseCode string, grade models.Grade) (*models.Enrollment, error)
	Find(studentID, courseCode string) (*models.Enrollment, bool)
	All() []*models.Enrollment
	ActiveCountForStudent(studentID string) int
	Transcript(studentID string) []models.TranscriptEntry
	Statistics() models.EnrollmentStatistics
	Count() int
}

// RecordsService coordinates the three stores. The enrollment store is the
// source of truth; every change is mirrored onto the student's course list
// and the course roster in the same call.
type RecordsService struct {
	students    studentRepository
	courses     courseRepository
	enrollments enrollmentRepository
	limits      config.LimitsConfig
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewRecordsService wires the stores together.
func NewRecordsService(students studentRepository, courses courseRepository, enrollments enrollmentRepository, limits config.LimitsConfig, metrics *MetricsService, logger *zap.Logger) *RecordsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.MaxStudentsPerCourse <= 0 {
		limits.MaxStudentsPerCourse = models.DefaultMaxCapacity
	}
	if limits.MaxCoursesPerStudent <= 0 {
		limits.MaxCoursesPerStudent = 8
	}
	return &RecordsService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		limits:      limits,
		metrics:     metrics,
		logger:      logger,
	}
}

// RegisterStudent adds a new student.
func (s *RecordsService) RegisterStudent(student *models.Student) error {
	err := s.students.Add(student)
	s.observe(entityStudent, "add", err)
	if err != nil {
		return err
	}
	s.logger.Debug("student registered", zap.String("student_id", student.ID), zap.String("reg_no", student.RegNo))
	if audit := validation.AuditStudent(student); !audit.Valid() {
		s.logger.Warn("student registered with advisory issues", zap.String("student_id", student.ID), zap.String("issues", audit.String()))
	}
	return nil
}

// UpdateStudent replaces the profile fields of a student. Enrolled courses and
// grades are kept from the stored record.
func (s *RecordsService) UpdateStudent(student *models.Student) error {
	if student == nil {
		return appErrors.Clone(appErrors.ErrValidation, "student is required")
	}
	current, ok := s.students.FindByID(student.ID)
	if !ok {
		err := appErrors.Clonef(appErrors.ErrNotFound, "student with ID %s not found", student.ID)
		s.observe(entityStudent, "update", err)
		return err
	}
	err := s.students.Update(student.WithAcademicRecordOf(current))
	s.observe(entityStudent, "update", err)
	return err
}

// DeleteStudent removes a student with no active enrollments.
func (s *RecordsService) DeleteStudent(id string) error {
	if n := s.enrollments.ActiveCountForStudent(id); n > 0 {
		err := appErrors.Clonef(appErrors.ErrInvalidState, "student %s has %d active enrollments", id, n)
		s.observe(entityStudent, "delete", err)
		return err
	}
	err := s.students.Delete(id)
	s.observe(entityStudent, "delete", err)
	return err
}

// RegisterCourse adds a new course.
func (s *RecordsService) RegisterCourse(course *models.Course) error {
	err := s.courses.Add(course)
	s.observe(entityCourse, "add", err)
	if err != nil {
		return err
	}
	s.logger.Debug("course registered", zap.String("course_code", course.Code), zap.String("department", course.Department))
	if audit := validation.AuditCourse(course); !audit.Valid() {
		s.logger.Warn("course registered with advisory issues", zap.String("course_code", course.Code), zap.String("issues", audit.String()))
	}
	return nil
}

// UpdateCourse replaces the catalogue fields of a course.
func (s *RecordsService) UpdateCourse(course *models.Course) error {
	err := s.courses.Update(course)
	s.observe(entityCourse, "update", err)
	return err
}

// DeleteCourse removes a course without enrolled students.
func (s *RecordsService) DeleteCourse(code string) error {
	err := s.courses.Delete(code)
	s.observe(entityCourse, "delete", err)
	return err
}

// AssignInstructor sets instructor as the course instructor.
func (s *RecordsService) AssignInstructor(courseCode string, instructor *models.Instructor) error {
	if instructor == nil || !instructor.IsValid() {
		return appErrors.Clone(appErrors.ErrValidation, "a valid instructor is required")
	}
	if !instructor.CanTeach() {
		return appErrors.Clonef(appErrors.ErrInvalidState, "instructor %s is %s and cannot teach", instructor.ID, instructor.Status)
	}
	course, ok := s.courses.FindByCode(courseCode)
	if !ok {
		return appErrors.Clonef(appErrors.ErrNotFound, "course with code %s not found", courseCode)
	}
	course.Instructor = instructor.FullName
	if err := s.courses.Update(course); err != nil {
		s.observe(entityCourse, "assign_instructor", err)
		return err
	}
	instructor.AssignCourse(courseCode)
	s.observe(entityCourse, "assign_instructor", nil)
	return nil
}

// EnrollStudent enrolls a student in a course after the cross-entity checks:
// the student exists and may enroll, the course exists and has room, and the
// student is under the per-student course limit.
func (s *RecordsService) EnrollStudent(studentID, courseCode string) (*models.Enrollment, error) {
	enrollment, err := s.enroll(studentID, courseCode)
	s.observe(entityEnrollment, "enroll", err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student enrolled",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("student_id", studentID),
		zap.String("course_code", courseCode),
	)
	return enrollment, nil
}

func (s *RecordsService) enroll(studentID, courseCode string) (*models.Enrollment, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, appErrors.Clonef(appErrors.ErrNotFound, "student with ID %s not found", studentID)
	}
	if !student.Status.CanEnroll() {
		return nil, appErrors.Clonef(appErrors.ErrInvalidState, "student %s is %s and cannot enroll", studentID, student.Status.Description())
	}
	course, ok := s.courses.FindByCode(courseCode)
	if !ok {
		return nil, appErrors.Clonef(appErrors.ErrNotFound, "course with code %s not found", courseCode)
	}
	if _, exists := s.enrollments.Find(studentID, courseCode); exists {
		return nil, appErrors.Clonef(appErrors.ErrDuplicate, "student %s already enrolled in course %s", studentID, courseCode)
	}
	if n := s.enrollments.ActiveCountForStudent(studentID); n >= s.limits.MaxCoursesPerStudent {
		return nil, appErrors.Clonef(appErrors.ErrInvalidState, "student %s already has %d active enrollments (max %d)", studentID, n, s.limits.MaxCoursesPerStudent)
	}
	if course.IsFull() || course.EnrolledCount() >= s.limits.MaxStudentsPerCourse {
		return nil, appErrors.Clonef(appErrors.ErrInvalidState, "course %s is full", courseCode)
	}

	enrollment, err := s.enrollments.Enroll(studentID, courseCode)
	if err != nil {
		return nil, err
	}
	if err := s.courses.AddStudent(courseCode, studentID); err != nil {
		return nil, s.mirrorFailure(enrollment, err)
	}
	if err := s.students.Mutate(studentID, func(st *models.Student) error {
		st.Enroll(courseCode)
		return nil
	}); err != nil {
		return nil, s.mirrorFailure(enrollment, err)
	}
	return enrollment, nil
}

// DropStudent drops an enrollment, active or completed, and removes the pair
// from the student's course list and the course roster.
func (s *RecordsService) DropStudent(studentID, courseCode, reason string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.Unenroll(studentID, courseCode, reason)
	s.observe(entityEnrollment, "drop", err)
	if err != nil {
		return nil, err
	}
	if err := s.courses.RemoveStudent(courseCode, studentID); err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return nil, err
	}
	if err := s.students.Mutate(studentID, func(st *models.Student) error {
		st.Unenroll(courseCode)
		return nil
	}); err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return nil, err
	}
	s.logger.Info("student dropped",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("student_id", studentID),
		zap.String("course_code", courseCode),
		zap.String("reason", reason),
	)
	return enrollment, nil
}

// RecordGrade completes an active enrollment with grade and updates the
// student's GPA.
func (s *RecordsService) RecordGrade(studentID, courseCode string, grade models.Grade) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.AssignGrade(studentID, courseCode, grade)
	s.observe(entityEnrollment, "grade", err)
	if err != nil {
		return nil, err
	}
	if err := s.students.Mutate(studentID, func(st *models.Student) error {
		return st.AssignGrade(courseCode, grade)
	}); err != nil {
		return nil, s.mirrorFailure(enrollment, err)
	}
	s.logger.Info("grade recorded",
		zap.String("student_id", studentID),
		zap.String("course_code", courseCode),
		zap.String("grade", string(grade)),
	)
	return enrollment, nil
}

// Transcript lists every enrollment of a known student.
func (s *RecordsService) Transcript(studentID string) ([]models.TranscriptEntry, error) {
	if _, ok := s.students.FindByID(studentID); !ok {
		return nil, appErrors.Clonef(appErrors.ErrNotFound, "student with ID %s not found", studentID)
	}
	return s.enrollments.Transcript(studentID), nil
}

// CheckConsistency compares the enrollment store with the student course
// lists and course rosters and describes every mismatch, sorted.
func (s *RecordsService) CheckConsistency() []string {
	issues := make([]string, 0)
	students := make(map[string]*models.Student)
	for _, st := range s.students.All() {
		students[st.ID] = st
	}
	courses := make(map[string]*models.Course)
	for _, c := range s.courses.All() {
		courses[c.Code] = c
	}

	live := make(map[models.EnrollmentKey]bool)
	for _, e := range s.enrollments.All() {
		if e.Status != models.EnrollmentStatusEnrolled && e.Status != models.EnrollmentStatusCompleted {
			continue
		}
		live[e.Key()] = true
		st, ok := students[e.StudentID]
		switch {
		case !ok:
			issues = append(issues, fmt.Sprintf("enrollment %s references unknown student %s", e.ID, e.StudentID))
		case !st.IsEnrolled(e.CourseCode):
			issues = append(issues, fmt.Sprintf("student %s is missing course %s from enrollment %s", e.StudentID, e.CourseCode, e.ID))
		}
		c, ok := courses[e.CourseCode]
		switch {
		case !ok:
			issues = append(issues, fmt.Sprintf("enrollment %s references unknown course %s", e.ID, e.CourseCode))
		case !c.HasStudent(e.StudentID):
			issues = append(issues, fmt.Sprintf("course %s roster is missing student %s from enrollment %s", e.CourseCode, e.StudentID, e.ID))
		}
	}

	for _, st := range students {
		for _, code := range st.EnrolledCourses() {
			if !live[models.EnrollmentKey{StudentID: st.ID, CourseCode: code}] {
				issues = append(issues, fmt.Sprintf("student %s lists course %s without an enrollment", st.ID, code))
			}
		}
	}
	for _, c := range courses {
		for _, id := range c.EnrolledStudents() {
			if !live[models.EnrollmentKey{StudentID: id, CourseCode: c.Code}] {
				issues = append(issues, fmt.Sprintf("course %s lists student %s without an enrollment", c.Code, id))
			}
		}
	}
	sort.Strings(issues)
	return issues
}

func (s *RecordsService) FindStudent(id string) (*models.Student, bool) {
	return s.students.FindByID(id)
}

func (s *RecordsService) FindCourse(code string) (*models.Course, bool) {
	return s.courses.FindByCode(code)
}

// Students returns every student sorted by name.
func (s *RecordsService) Students() []*models.Student {
	return s.students.All()
}

// Courses returns every course sorted by code.
func (s *RecordsService) Courses() []*models.Course {
	return s.courses.All()
}

// Enrollments returns every enrollment, oldest first.
func (s *RecordsService) Enrollments() []*models.Enrollment {
	return s.enrollments.All()
}

func (s *RecordsService) StudentStatistics() models.StudentStatistics {
	return s.students.Statistics()
}

func (s *RecordsService) CourseStatistics() models.CourseStatistics {
	return s.courses.Statistics()
}

func (s *RecordsService) EnrollmentStatistics() models.EnrollmentStatistics {
	return s.enrollments.Statistics()
}

// mirrorFailure reports a store that diverged from the enrollment store.
// Cross-store rollback is not attempted.
func (s *RecordsService) mirrorFailure(enrollment *models.Enrollment, err error) error {
	s.logger.Error("enrollment bookkeeping diverged",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("student_id", enrollment.StudentID),
		zap.String("course_code", enrollment.CourseCode),
		zap.Error(err),
	)
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, fmt.Sprintf("update bookkeeping for enrollment %s", enrollment.ID))
}

func (s *RecordsService) observe(entity, operation string, err error) {
	s.metrics.ObserveStoreOperation(entity, operation, err)
	switch entity {
	case entityStudent:
		s.metrics.SetRecordCount(entity, s.students.Count())
	case entityCourse:
		s.metrics.SetRecordCount(entity, s.courses.Count())
	case entityEnrollment:
		s.metrics.SetRecordCount(entity, s.enrollments.Count())
	}
}
