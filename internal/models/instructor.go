package models

import (
	"fmt"
	"strings"
)

// Instructor teaches courses. Instructors are not kept in a store; the
// orchestrator only checks them before assigning a course.
type Instructor struct {
	Person
	EmployeeID  string           `json:"employee_id" validate:"notblank"`
	Department  string           `json:"department,omitempty"`
	Designation string           `json:"designation,omitempty"`
	Status      InstructorStatus `json:"status"`

	courses []string
}

// NewInstructor creates an ACTIVE instructor.
func NewInstructor(id, fullName, email, employeeID string) *Instructor {
	return &Instructor{
		Person:     newPerson(id, fullName, email),
		EmployeeID: employeeID,
		Status:     InstructorStatusActive,
	}
}

// AssignCourse returns false when the course is already assigned.
func (i *Instructor) AssignCourse(courseCode string) bool {
	for _, code := range i.courses {
		if code == courseCode {
			return false
		}
	}
	i.courses = append(i.courses, courseCode)
	return true
}

func (i *Instructor) RemoveCourse(courseCode string) bool {
	for idx, code := range i.courses {
		if code == courseCode {
			i.courses = append(i.courses[:idx], i.courses[idx+1:]...)
			return true
		}
	}
	return false
}

// TaughtCourses returns the assigned course codes in assignment order.
func (i *Instructor) TaughtCourses() []string {
	out := make([]string, len(i.courses))
	copy(out, i.courses)
	return out
}

func (i *Instructor) CanTeach() bool {
	return i.Status == InstructorStatusActive
}

func (i *Instructor) IsValid() bool {
	return strings.TrimSpace(i.EmployeeID) != "" && i.hasIdentity()
}

func (i *Instructor) Describe() string {
	return fmt.Sprintf("Instructor[%s] %s (%s) | %s | Dept: %s | %s | Status: %s | Courses: %d",
		i.ID, i.FullName, i.EmployeeID, i.Email, i.Department, i.Designation, i.Status.Description(), len(i.courses))
}
