package models

import (
	"fmt"
	"strings"
	"time"
)

// Semester is the academic term a course runs in.
type Semester string

const (
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
	SemesterFall   Semester = "FALL"
)

type semesterInfo struct {
	label      string
	order      int
	startMonth time.Month
	endMonth   time.Month
	duration   string
}

var semesterTable = map[Semester]semesterInfo{
	SemesterSpring: {"Spring", 1, time.January, time.May, "January to May"},
	SemesterSummer: {"Summer", 2, time.June, time.August, "June to August"},
	SemesterFall:   {"Fall", 3, time.September, time.December, "September to December"},
}

// Semesters lists the semesters in calendar order.
var Semesters = []Semester{SemesterSpring, SemesterSummer, SemesterFall}

func (s Semester) Valid() bool {
	_, ok := semesterTable[s]
	return ok
}

// Label is the human name, e.g. "Spring".
func (s Semester) Label() string {
	return semesterTable[s].label
}

func (s Semester) Order() int {
	return semesterTable[s].order
}

func (s Semester) StartMonth() time.Month {
	return semesterTable[s].startMonth
}

func (s Semester) EndMonth() time.Month {
	return semesterTable[s].endMonth
}

// Duration is the calendar range label, e.g. "January to May".
func (s Semester) Duration() string {
	return semesterTable[s].duration
}

// Contains reports whether month m falls inside the semester.
func (s Semester) Contains(m time.Month) bool {
	info, ok := semesterTable[s]
	return ok && m >= info.startMonth && m <= info.endMonth
}

// Next wraps FALL back to SPRING.
func (s Semester) Next() Semester {
	switch s {
	case SemesterSpring:
		return SemesterSummer
	case SemesterSummer:
		return SemesterFall
	default:
		return SemesterSpring
	}
}

// Previous wraps SPRING back to FALL.
func (s Semester) Previous() Semester {
	switch s {
	case SemesterSummer:
		return SemesterSpring
	case SemesterFall:
		return SemesterSummer
	default:
		return SemesterFall
	}
}

func (s Semester) Describe() string {
	return fmt.Sprintf("%s Semester (%s)", s.Label(), s.Duration())
}

// ParseSemester resolves a semester name case-insensitively.
func ParseSemester(raw string) (Semester, error) {
	s := Semester(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown semester %q", raw)
	}
	return s, nil
}

// SemesterForMonth returns the semester covering m.
func SemesterForMonth(m time.Month) Semester {
	for _, s := range Semesters {
		if s.Contains(m) {
			return s
		}
	}
	return SemesterSpring
}
