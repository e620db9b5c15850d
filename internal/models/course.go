package models

import (
	"fmt"
	"sort"
	"strings"

	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

const (
	DefaultInstructor  = "TBA"
	DefaultDepartment  = "General"
	DefaultMaxCapacity = 50
	MinCredits         = 1
	MaxCredits         = 10
)

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is strictly earlier than o.
func (t ClockTime) Before(o ClockTime) bool {
	return t.minutes() < o.minutes()
}

func (t ClockTime) valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

func (t ClockTime) minutes() int {
	return t.Hour*60 + t.Minute
}

// Course is a catalogue entry. Create it through NewCourseBuilder.
type Course struct {
	Code        string    `json:"code" validate:"notblank"`
	Title       string    `json:"title" validate:"notblank"`
	Credits     int       `json:"credits" validate:"min=1,max=10"`
	Instructor  string    `json:"instructor"`
	Semester    Semester  `json:"semester"`
	Department  string    `json:"department"`
	Description string    `json:"description" validate:"max=500"`
	MaxCapacity int       `json:"max_capacity" validate:"gt=0"`
	StartTime   ClockTime `json:"start_time"`
	EndTime     ClockTime `json:"end_time"`

	prerequisites []string
	enrolled      map[string]struct{}
}

// AddStudent adds studentID unless the course is full or already holds it.
func (c *Course) AddStudent(studentID string) bool {
	if c.HasStudent(studentID) || c.IsFull() {
		return false
	}
	if c.enrolled == nil {
		c.enrolled = make(map[string]struct{})
	}
	c.enrolled[studentID] = struct{}{}
	return true
}

func (c *Course) RemoveStudent(studentID string) bool {
	if !c.HasStudent(studentID) {
		return false
	}
	delete(c.enrolled, studentID)
	return true
}

func (c *Course) HasStudent(studentID string) bool {
	_, ok := c.enrolled[studentID]
	return ok
}

func (c *Course) IsFull() bool {
	return len(c.enrolled) >= c.MaxCapacity
}

func (c *Course) AvailableSpots() int {
	if spots := c.MaxCapacity - len(c.enrolled); spots > 0 {
		return spots
	}
	return 0
}

func (c *Course) EnrolledCount() int {
	return len(c.enrolled)
}

// EnrolledStudents returns the enrolled student IDs sorted ascending.
func (c *Course) EnrolledStudents() []string {
	out := make([]string, 0, len(c.enrolled))
	for id := range c.enrolled {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Prerequisites returns the prerequisite course codes in declaration order.
func (c *Course) Prerequisites() []string {
	out := make([]string, len(c.prerequisites))
	copy(out, c.prerequisites)
	return out
}

// Clone returns a deep copy.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	cp := *c
	cp.prerequisites = c.Prerequisites()
	cp.enrolled = make(map[string]struct{}, len(c.enrolled))
	for id := range c.enrolled {
		cp.enrolled[id] = struct{}{}
	}
	return &cp
}

// WithEnrollmentOf returns a copy of c carrying the enrolled set of other.
func (c *Course) WithEnrollmentOf(other *Course) *Course {
	cp := c.Clone()
	if other != nil {
		cp.enrolled = other.Clone().enrolled
	}
	return cp
}

// Validate checks the structural rules every stored course must satisfy.
func (c *Course) Validate() error {
	switch {
	case strings.TrimSpace(c.Code) == "":
		return appErrors.Clone(appErrors.ErrValidation, "course code is required")
	case strings.TrimSpace(c.Title) == "":
		return appErrors.Clone(appErrors.ErrValidation, "course title is required")
	case c.Credits < MinCredits || c.Credits > MaxCredits:
		return appErrors.Clonef(appErrors.ErrValidation, "credits must be between %d and %d", MinCredits, MaxCredits)
	case c.MaxCapacity <= 0:
		return appErrors.Clone(appErrors.ErrValidation, "max capacity must be positive")
	case !c.Semester.Valid():
		return appErrors.Clonef(appErrors.ErrValidation, "invalid semester %q", c.Semester)
	case !c.StartTime.valid() || !c.EndTime.valid() || !c.StartTime.Before(c.EndTime):
		return appErrors.Clonef(appErrors.ErrValidation, "invalid schedule %s-%s", c.StartTime, c.EndTime)
	}
	return nil
}

func (c *Course) Describe() string {
	return fmt.Sprintf("Course[%s] %s | %d credits | %s | %s | %s | %d/%d enrolled | %s-%s",
		c.Code, c.Title, c.Credits, c.Instructor, c.Semester.Label(), c.Department,
		len(c.enrolled), c.MaxCapacity, c.StartTime, c.EndTime)
}

// CourseBuilder stages course construction. Code, title and credits are fixed
// when the builder is created; everything else starts from defaults.
type CourseBuilder struct {
	course Course
}

func NewCourseBuilder(code, title string, credits int) *CourseBuilder {
	return &CourseBuilder{course: Course{
		Code:        code,
		Title:       title,
		Credits:     credits,
		Instructor:  DefaultInstructor,
		Semester:    SemesterSpring,
		Department:  DefaultDepartment,
		MaxCapacity: DefaultMaxCapacity,
		StartTime:   ClockTime{Hour: 9},
		EndTime:     ClockTime{Hour: 10},
	}}
}

func (b *CourseBuilder) Instructor(name string) *CourseBuilder {
	b.course.Instructor = name
	return b
}

func (b *CourseBuilder) Semester(s Semester) *CourseBuilder {
	b.course.Semester = s
	return b
}

func (b *CourseBuilder) Department(d string) *CourseBuilder {
	b.course.Department = d
	return b
}

func (b *CourseBuilder) Description(d string) *CourseBuilder {
	b.course.Description = d
	return b
}

func (b *CourseBuilder) MaxCapacity(n int) *CourseBuilder {
	b.course.MaxCapacity = n
	return b
}

func (b *CourseBuilder) AddPrerequisite(code string) *CourseBuilder {
	b.course.prerequisites = append(b.course.prerequisites, code)
	return b
}

// Prerequisites replaces the prerequisite list.
func (b *CourseBuilder) Prerequisites(codes ...string) *CourseBuilder {
	b.course.prerequisites = append([]string(nil), codes...)
	return b
}

func (b *CourseBuilder) Schedule(start, end ClockTime) *CourseBuilder {
	b.course.StartTime = start
	b.course.EndTime = end
	return b
}

// Build validates the staged values and returns a fresh course. The builder
// can be reused; later changes never reach courses already built.
func (b *CourseBuilder) Build() (*Course, error) {
	course := b.course.Clone()
	if err := course.Validate(); err != nil {
		return nil, err
	}
	return course, nil
}
