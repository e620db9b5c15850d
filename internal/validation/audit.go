package validation

import (
	"fmt"
	"strings"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
)

// Result collects advisory findings. An empty result is valid.
type Result struct {
	errors []string
}

func (r *Result) add(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *Result) Valid() bool {
	return len(r.errors) == 0
}

// Errors returns a copy of the collected messages.
func (r *Result) Errors() []string {
	return append([]string(nil), r.errors...)
}

func (r *Result) String() string {
	if r.Valid() {
		return "Valid"
	}
	return strings.Join(r.errors, "; ")
}

// AuditStudent applies the full field rules to a student. Stores enforce a
// narrower rule set; this is used for reporting.
func AuditStudent(s *models.Student) *Result {
	r := &Result{}
	if !IsValidStudentID(s.ID) {
		r.add("Invalid student ID format")
	}
	if !IsNotEmpty(s.RegNo) {
		r.add("Registration number is required")
	}
	if !IsNotEmpty(s.FullName) || !IsLengthValid(s.FullName, 2, 100) {
		r.add("Full name must be between 2 and 100 characters")
	}
	if !IsValidEmail(s.Email) {
		r.add("Invalid email format")
	}
	if s.Phone != "" && !IsValidPhone(s.Phone) {
		r.add("Invalid phone number format")
	}
	if !IsValidSemester(s.Semester) {
		r.add("Semester must be between 1 and 8")
	}
	return r
}

// AuditCourse applies the full field rules to a course.
func AuditCourse(c *models.Course) *Result {
	r := &Result{}
	if !IsValidCourseCode(c.Code) {
		r.add("Invalid course code format")
	}
	if !IsNotEmpty(c.Title) || !IsLengthValid(c.Title, 3, 200) {
		r.add("Course title must be between 3 and 200 characters")
	}
	if !IsValidCredits(c.Credits) {
		r.add("Credits must be between 1 and 10")
	}
	if !IsValidCapacity(c.MaxCapacity) {
		r.add("Capacity must be between 1 and 500")
	}
	if !IsNotEmpty(c.Instructor) {
		r.add("Instructor is required")
	}
	return r
}
