package csvcodec

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/validation"
)

const maxDescriptionLength = 500

const (
	CourseExportHeader = "CourseCode,Title,Credits,Instructor,Department,Semester,Description,MaxCapacity,EnrolledStudents,Prerequisites"
	CourseImportHeader = "CourseCode,Title,Credits,Instructor,Department,Semester,Description,MaxCapacity"
)

// EncodeCourseLine renders one course in export column order.
func EncodeCourseLine(c *models.Course) string {
	return strings.Join([]string{
		EscapeField(c.Code),
		EscapeField(c.Title),
		strconv.Itoa(c.Credits),
		EscapeField(c.Instructor),
		EscapeField(c.Department),
		EscapeField(string(c.Semester)),
		EscapeField(c.Description),
		strconv.Itoa(c.MaxCapacity),
		JoinList(c.EnrolledStudents()),
		JoinList(c.Prerequisites()),
	}, string(separator))
}

// EncodeCourses renders the export header followed by one line per course.
func EncodeCourses(courses []*models.Course) []byte {
	var buf bytes.Buffer
	buf.WriteString(CourseExportHeader)
	buf.WriteByte('\n')
	for _, c := range courses {
		buf.WriteString(EncodeCourseLine(c))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// DecodeCourse builds a course from the positional import columns. Code,
// title, credits and instructor are required and credits must be numeric;
// department, semester, description and capacity fall back to builder
// defaults when blank or unparsable. Columns past the import set are ignored.
func DecodeCourse(fields []string) (*models.Course, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("insufficient fields in CSV line: expected at least 4, got %d", len(fields))
	}
	code, title, rawCredits, instructor := field(fields, 0), field(fields, 1), field(fields, 2), field(fields, 3)
	if code == "" || title == "" || rawCredits == "" || instructor == "" {
		return nil, fmt.Errorf("required fields (Code, Title, Credits, Instructor) cannot be empty")
	}
	credits, err := strconv.Atoi(rawCredits)
	if err != nil {
		return nil, fmt.Errorf("invalid credits value: %s", rawCredits)
	}

	builder := models.NewCourseBuilder(code, validation.SanitizeString(title), credits).Instructor(instructor)
	if dept := field(fields, 4); dept != "" {
		builder.Department(dept)
	}
	if raw := field(fields, 5); raw != "" {
		if semester, err := models.ParseSemester(raw); err == nil {
			builder.Semester(semester)
		}
	}
	if desc := field(fields, 6); desc != "" {
		builder.Description(validation.SanitizeAndTruncate(desc, maxDescriptionLength))
	}
	if raw := field(fields, 7); validation.IsNumeric(raw) {
		capacity, _ := strconv.Atoi(raw)
		builder.MaxCapacity(capacity)
	}
	return builder.Build()
}
