package models

import (
	"fmt"
	"time"
)

// Enrollment links one student to one course.
type Enrollment struct {
	ID            string           `json:"id"`
	StudentID     string           `json:"student_id"`
	CourseCode    string           `json:"course_code"`
	EnrolledAt    time.Time        `json:"enrolled_at"`
	Status        EnrollmentStatus `json:"status"`
	AssignedGrade *Grade           `json:"assigned_grade,omitempty"`
	Remarks       string           `json:"remarks,omitempty"`

	// Seq orders enrollments created within the same instant.
	Seq int64 `json:"-"`
}

// NewEnrollment creates an ENROLLED record.
func NewEnrollment(id, studentID, courseCode string, at time.Time, seq int64) *Enrollment {
	return &Enrollment{
		ID:         id,
		StudentID:  studentID,
		CourseCode: courseCode,
		EnrolledAt: at,
		Status:     EnrollmentStatusEnrolled,
		Seq:        seq,
	}
}

// EnrollmentKey identifies an enrollment by its student/course pair.
type EnrollmentKey struct {
	StudentID  string
	CourseCode string
}

func (k EnrollmentKey) String() string {
	return k.StudentID + "/" + k.CourseCode
}

// Key is the student/course pair identifying the enrollment.
func (e *Enrollment) Key() EnrollmentKey {
	return EnrollmentKey{StudentID: e.StudentID, CourseCode: e.CourseCode}
}

// SetGrade stores g and completes the enrollment.
func (e *Enrollment) SetGrade(g Grade) {
	e.AssignedGrade = &g
	e.Status = EnrollmentStatusCompleted
}

// Drop marks the enrollment DROPPED with the given reason.
func (e *Enrollment) Drop(reason string) {
	e.Status = EnrollmentStatusDropped
	e.Remarks = reason
}

func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusEnrolled
}

func (e *Enrollment) IsCompleted() bool {
	return e.Status == EnrollmentStatusCompleted && e.AssignedGrade != nil
}

// GradeLabel is the letter grade or "Not Graded".
func (e *Enrollment) GradeLabel() string {
	if e.AssignedGrade == nil {
		return "Not Graded"
	}
	return string(*e.AssignedGrade)
}

func (e *Enrollment) Clone() *Enrollment {
	if e == nil {
		return nil
	}
	cp := *e
	if e.AssignedGrade != nil {
		g := *e.AssignedGrade
		cp.AssignedGrade = &g
	}
	return &cp
}

func (e *Enrollment) Describe() string {
	return fmt.Sprintf("Enrollment[%s] %s -> %s | %s | %s | Grade: %s",
		e.ID, e.StudentID, e.CourseCode, e.EnrolledAt.Format("2006-01-02 15:04:05"), e.Status.Description(), e.GradeLabel())
}
