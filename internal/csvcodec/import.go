package csvcodec

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

// StudentSink accepts decoded students; StudentStore satisfies it.
type StudentSink interface {
	Add(student *models.Student) error
}

// CourseSink accepts decoded courses; CourseStore satisfies it.
type CourseSink interface {
	Add(course *models.Course) error
}

// StudentSinkFunc adapts a function to StudentSink.
type StudentSinkFunc func(*models.Student) error

func (f StudentSinkFunc) Add(s *models.Student) error { return f(s) }

// CourseSinkFunc adapts a function to CourseSink.
type CourseSinkFunc func(*models.Course) error

func (f CourseSinkFunc) Add(c *models.Course) error { return f(c) }

// RowError describes one rejected line. LineNumber is 1-based and counts the
// header.
type RowError struct {
	LineNumber int    `json:"line_number"`
	Line       string `json:"line"`
	Message    string `json:"message"`
}

// Err exposes the row failure as an IMPORT_ROW_ERROR.
func (r RowError) Err() error {
	return appErrors.Clonef(appErrors.ErrImportRow, "line %d: %s", r.LineNumber, r.Message)
}

// ImportResult summarises one batch import.
type ImportResult struct {
	BatchID        string     `json:"batch_id"`
	TotalProcessed int        `json:"total_processed"`
	Successful     int        `json:"successful"`
	Errors         []RowError `json:"errors"`
}

func (r *ImportResult) Failed() int {
	return r.TotalProcessed - r.Successful
}

// ImportStudents decodes every data line and hands each student to sink.
// Row failures are collected; only an empty or non UTF-8 source is fatal.
func ImportStudents(data []byte, sink StudentSink) (*ImportResult, error) {
	return importLines(data, func(line string) error {
		student, err := DecodeStudent(ParseLine(line))
		if err != nil {
			return err
		}
		return sink.Add(student)
	})
}

// ImportCourses decodes every data line and hands each course to sink.
func ImportCourses(data []byte, sink CourseSink) (*ImportResult, error) {
	return importLines(data, func(line string) error {
		course, err := DecodeCourse(ParseLine(line))
		if err != nil {
			return err
		}
		return sink.Add(course)
	})
}

func importLines(data []byte, handle func(line string) error) (*ImportResult, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, appErrors.Clone(appErrors.ErrImportSource, "import file is empty")
	}
	if !utf8.Valid(data) {
		return nil, appErrors.Clone(appErrors.ErrImportSource, "import file is not valid UTF-8")
	}
	result := &ImportResult{BatchID: uuid.NewString(), Errors: []RowError{}}
	lines := splitLines(data)
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		result.TotalProcessed++
		if err := handle(line); err != nil {
			result.Errors = append(result.Errors, RowError{LineNumber: i + 1, Line: line, Message: err.Error()})
			continue
		}
		result.Successful++
	}
	return result, nil
}
