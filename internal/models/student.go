package models

import (
	"fmt"
	"strings"

	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

// Student is an enrolled learner. Enrolled courses and grades are private so
// that GPA can only change through Enroll, Unenroll and AssignGrade.
type Student struct {
	Person
	RegNo      string        `json:"reg_no" validate:"notblank,min=3"`
	Department string        `json:"department,omitempty"`
	Semester   int           `json:"semester"`
	Status     StudentStatus `json:"status"`

	enrolledCourses []string
	grades          map[string]Grade
	gpa             float64
}

// NewStudent creates an ACTIVE first-semester student.
func NewStudent(id, fullName, email, regNo string) *Student {
	return &Student{
		Person:   newPerson(id, fullName, email),
		RegNo:    regNo,
		Semester: 1,
		Status:   StudentStatusActive,
		grades:   make(map[string]Grade),
	}
}

// Enroll adds courseCode to the enrolled list. It returns false when the
// student is already enrolled.
func (s *Student) Enroll(courseCode string) bool {
	if s.IsEnrolled(courseCode) {
		return false
	}
	s.enrolledCourses = append(s.enrolledCourses, courseCode)
	return true
}

// Unenroll removes courseCode together with any grade recorded for it.
func (s *Student) Unenroll(courseCode string) bool {
	idx := s.indexOf(courseCode)
	if idx < 0 {
		return false
	}
	s.enrolledCourses = append(s.enrolledCourses[:idx], s.enrolledCourses[idx+1:]...)
	if _, ok := s.grades[courseCode]; ok {
		delete(s.grades, courseCode)
		s.recomputeGPA()
	}
	return true
}

// AssignGrade records a grade for a course the student is enrolled in.
func (s *Student) AssignGrade(courseCode string, grade Grade) error {
	if !grade.Valid() {
		return appErrors.Clonef(appErrors.ErrValidation, "invalid grade %q", grade)
	}
	if !s.IsEnrolled(courseCode) {
		return appErrors.Clonef(appErrors.ErrInvalidState, "student %s is not enrolled in %s", s.ID, courseCode)
	}
	if s.grades == nil {
		s.grades = make(map[string]Grade)
	}
	s.grades[courseCode] = grade
	s.recomputeGPA()
	return nil
}

func (s *Student) IsEnrolled(courseCode string) bool {
	return s.indexOf(courseCode) >= 0
}

// EnrolledCourses returns the enrolled course codes in enrollment order.
func (s *Student) EnrolledCourses() []string {
	out := make([]string, len(s.enrolledCourses))
	copy(out, s.enrolledCourses)
	return out
}

// Grades returns a copy of the course → grade map.
func (s *Student) Grades() map[string]Grade {
	out := make(map[string]Grade, len(s.grades))
	for code, g := range s.grades {
		out[code] = g
	}
	return out
}

// GradeFor returns the grade for courseCode, if any.
func (s *Student) GradeFor(courseCode string) (Grade, bool) {
	g, ok := s.grades[courseCode]
	return g, ok
}

// CoursesWithGrades lists enrolled courses that already have a grade.
func (s *Student) CoursesWithGrades() []string {
	out := make([]string, 0, len(s.grades))
	for _, code := range s.enrolledCourses {
		if _, ok := s.grades[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

// GPA is the mean of the grade points currently recorded, 0 when none are.
func (s *Student) GPA() float64 {
	return s.gpa
}

// Clone returns a deep copy.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	cp := *s
	cp.enrolledCourses = s.EnrolledCourses()
	cp.grades = s.Grades()
	return &cp
}

// WithAcademicRecordOf returns a copy of s carrying the enrolled courses and
// grades of other.
func (s *Student) WithAcademicRecordOf(other *Student) *Student {
	cp := s.Clone()
	if other != nil {
		cp.enrolledCourses = other.EnrolledCourses()
		cp.grades = other.Grades()
		cp.recomputeGPA()
	}
	return cp
}

// IsValid performs the minimal identity checks.
func (s *Student) IsValid() bool {
	return strings.TrimSpace(s.RegNo) != "" && s.hasIdentity()
}

func (s *Student) Describe() string {
	department := s.Department
	if department == "" {
		department = "N/A"
	}
	return fmt.Sprintf("Student[%s] %s (%s) | %s | Dept: %s | Sem: %d | Status: %s | GPA: %.2f | Courses: %d",
		s.ID, s.FullName, s.RegNo, s.Email, department, s.Semester, s.Status.Description(), s.gpa, len(s.enrolledCourses))
}

func (s *Student) indexOf(courseCode string) int {
	for i, code := range s.enrolledCourses {
		if code == courseCode {
			return i
		}
	}
	return -1
}

func (s *Student) recomputeGPA() {
	if len(s.grades) == 0 {
		s.gpa = 0
		return
	}
	var total float64
	for _, g := range s.grades {
		total += g.Points()
	}
	s.gpa = total / float64(len(s.grades))
}
