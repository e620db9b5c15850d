package models

import (
	"fmt"
	"strings"
)

// Grade is a letter grade with fixed grade points.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
	GradeI Grade = "I"
	GradeW Grade = "W"
)

type gradeInfo struct {
	description string
	points      float64
	remarks     string
}

var gradeTable = map[Grade]gradeInfo{
	GradeS: {"Excellent", 10.0, "Outstanding performance"},
	GradeA: {"Very Good", 9.0, "Very good performance"},
	GradeB: {"Good", 8.0, "Good performance"},
	GradeC: {"Average", 7.0, "Satisfactory performance"},
	GradeD: {"Below Average", 6.0, "Below average performance"},
	GradeF: {"Fail", 0.0, "Unsatisfactory performance"},
	GradeI: {"Incomplete", 0.0, "Course work incomplete"},
	GradeW: {"Withdrawn", 0.0, "Withdrawn from course"},
}

// Grades lists every grade in declaration order.
var Grades = []Grade{GradeS, GradeA, GradeB, GradeC, GradeD, GradeF, GradeI, GradeW}

// Valid reports whether g is one of the declared grades.
func (g Grade) Valid() bool {
	_, ok := gradeTable[g]
	return ok
}

// Points returns the grade points used for GPA.
func (g Grade) Points() float64 {
	return gradeTable[g].points
}

func (g Grade) Description() string {
	return gradeTable[g].description
}

func (g Grade) Remarks() string {
	return gradeTable[g].remarks
}

// IsPassing is true for D and above.
func (g Grade) IsPassing() bool {
	return g.Valid() && g.Points() >= 6.0
}

// IsExcellent is true for A and S.
func (g Grade) IsExcellent() bool {
	return g.Valid() && g.Points() >= 9.0
}

// Describe renders e.g. "B (Good) - 8.0 points".
func (g Grade) Describe() string {
	return fmt.Sprintf("%s (%s) - %.1f points", g, g.Description(), g.Points())
}

// ParseGrade resolves a letter grade case-insensitively.
func ParseGrade(raw string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(raw)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", raw)
	}
	return g, nil
}

// GradeFromPoints maps a score back to the nearest letter. The mapping is
// lossy (I and W are never produced) and is not used when grading.
func GradeFromPoints(points float64) Grade {
	switch {
	case points >= 10.0:
		return GradeS
	case points >= 9.0:
		return GradeA
	case points >= 8.0:
		return GradeB
	case points >= 7.0:
		return GradeC
	case points >= 6.0:
		return GradeD
	default:
		return GradeF
	}
}
