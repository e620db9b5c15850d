package models

import (
	"fmt"
	"strings"
)

// StudentStatus is the standing of a student with the institution.
type StudentStatus string

const (
	StudentStatusActive     StudentStatus = "ACTIVE"
	StudentStatusInactive   StudentStatus = "INACTIVE"
	StudentStatusGraduated  StudentStatus = "GRADUATED"
	StudentStatusSuspended  StudentStatus = "SUSPENDED"
	StudentStatusDroppedOut StudentStatus = "DROPPED_OUT"
	StudentStatusExpelled   StudentStatus = "EXPELLED"
)

// StudentStatuses lists every student status in declaration order.
var StudentStatuses = []StudentStatus{
	StudentStatusActive, StudentStatusInactive, StudentStatusGraduated,
	StudentStatusSuspended, StudentStatusDroppedOut, StudentStatusExpelled,
}

type statusInfo struct {
	description string
	details     string
}

var studentStatusTable = map[StudentStatus]statusInfo{
	StudentStatusActive:     {"Active", "Currently enrolled and attending classes"},
	StudentStatusInactive:   {"Inactive", "Temporarily not attending classes"},
	StudentStatusGraduated:  {"Graduated", "Successfully completed all requirements"},
	StudentStatusSuspended:  {"Suspended", "Temporarily prohibited from attending"},
	StudentStatusDroppedOut: {"Dropped Out", "Voluntarily left the institution"},
	StudentStatusExpelled:   {"Expelled", "Permanently removed from institution"},
}

func (s StudentStatus) Valid() bool {
	_, ok := studentStatusTable[s]
	return ok
}

func (s StudentStatus) Description() string {
	return studentStatusTable[s].description
}

func (s StudentStatus) Details() string {
	return studentStatusTable[s].details
}

func (s StudentStatus) IsActive() bool {
	return s == StudentStatusActive
}

// CanEnroll reports whether a student in this status may take new courses.
func (s StudentStatus) CanEnroll() bool {
	return s == StudentStatusActive
}

// ParseStudentStatus resolves a status name case-insensitively.
func ParseStudentStatus(raw string) (StudentStatus, error) {
	s := StudentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown student status %q", raw)
	}
	return s, nil
}

// EnrollmentStatus is the lifecycle of an enrollment. Once an enrollment
// leaves ENROLLED it never returns.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
	EnrollmentStatusFailed    EnrollmentStatus = "FAILED"
	EnrollmentStatusWithdrawn EnrollmentStatus = "WITHDRAWN"
)

var enrollmentStatusTable = map[EnrollmentStatus]statusInfo{
	EnrollmentStatusEnrolled:  {"Enrolled", "Currently enrolled in course"},
	EnrollmentStatusCompleted: {"Completed", "Course completed with grade"},
	EnrollmentStatusDropped:   {"Dropped", "Student dropped the course"},
	EnrollmentStatusFailed:    {"Failed", "Failed to complete course requirements"},
	EnrollmentStatusWithdrawn: {"Withdrawn", "Officially withdrawn from course"},
}

func (s EnrollmentStatus) Valid() bool {
	_, ok := enrollmentStatusTable[s]
	return ok
}

func (s EnrollmentStatus) Description() string {
	return enrollmentStatusTable[s].description
}

func (s EnrollmentStatus) Details() string {
	return enrollmentStatusTable[s].details
}

// InstructorStatus is the employment standing of an instructor.
type InstructorStatus string

const (
	InstructorStatusActive     InstructorStatus = "ACTIVE"
	InstructorStatusOnLeave    InstructorStatus = "ON_LEAVE"
	InstructorStatusRetired    InstructorStatus = "RETIRED"
	InstructorStatusTerminated InstructorStatus = "TERMINATED"
)

var instructorStatusTable = map[InstructorStatus]statusInfo{
	InstructorStatusActive:     {"Active", "Currently teaching"},
	InstructorStatusOnLeave:    {"On Leave", "Temporarily away"},
	InstructorStatusRetired:    {"Retired", "No longer teaching"},
	InstructorStatusTerminated: {"Terminated", "Employment ended"},
}

func (s InstructorStatus) Valid() bool {
	_, ok := instructorStatusTable[s]
	return ok
}

func (s InstructorStatus) Description() string {
	return instructorStatusTable[s].description
}

func (s InstructorStatus) Details() string {
	return instructorStatusTable[s].details
}
