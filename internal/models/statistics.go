package models

import "time"

// StudentStatistics aggregates the student store.
type StudentStatistics struct {
	Total        int                   `json:"total"`
	AverageGPA   float64               `json:"average_gpa"`
	MinGPA       float64               `json:"min_gpa"`
	MaxGPA       float64               `json:"max_gpa"`
	ByStatus     map[StudentStatus]int `json:"by_status"`
	ByDepartment map[string]int        `json:"by_department"`
}

// CourseStatistics aggregates the course store.
type CourseStatistics struct {
	Total          int              `json:"total"`
	AverageCredits float64          `json:"average_credits"`
	ByDepartment   map[string]int   `json:"by_department"`
	BySemester     map[Semester]int `json:"by_semester"`
	ByCredits      map[int]int      `json:"by_credits"`
}

// EnrollmentStatistics aggregates the enrollment store.
type EnrollmentStatistics struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Dropped counts every enrollment that is neither active nor completed.
func (s EnrollmentStatistics) Dropped() int {
	return s.Total - s.Active - s.Completed
}

// TranscriptEntry is one line of a student's transcript.
type TranscriptEntry struct {
	CourseCode string `json:"course_code"`
	Status     string `json:"status"`
	Grade      string `json:"grade"`
}

// MetricsSnapshot is a plain copy of the operational counters.
type MetricsSnapshot struct {
	StoreOperations  uint64    `json:"store_operations"`
	FailedOperations uint64    `json:"failed_operations"`
	ImportedRows     uint64    `json:"imported_rows"`
	RejectedRows     uint64    `json:"rejected_rows"`
	FilesWritten     uint64    `json:"files_written"`
	GeneratedAt      time.Time `json:"generated_at"`
}
