package csvcodec

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/validation"
)

const (
	StudentExportHeader = "StudentID,RegNo,FullName,Email,Phone,Department,Semester,Status,GPA,EnrollmentDate,EnrolledCourses"
	StudentImportHeader = "StudentID,RegNo,FullName,Email,Phone,Department,Semester,Status"
)

// StudentRecord is a decoded export line. GPA and the course list are kept
// as read because grades are not part of the file.
type StudentRecord struct {
	Student         *models.Student
	GPA             float64
	EnrolledCourses []string
}

// EncodeStudentLine renders one student in export column order.
func EncodeStudentLine(s *models.Student) string {
	return strings.Join([]string{
		EscapeField(s.ID),
		EscapeField(s.RegNo),
		EscapeField(s.FullName),
		EscapeField(s.Email),
		EscapeField(s.Phone),
		EscapeField(s.Department),
		strconv.Itoa(s.Semester),
		EscapeField(string(s.Status)),
		FormatDecimal(s.GPA()),
		EscapeField(s.CreatedAt.Format(DateLayout)),
		JoinList(s.EnrolledCourses()),
	}, string(separator))
}

// EncodeStudents renders the export header followed by one line per student.
func EncodeStudents(students []*models.Student) []byte {
	var buf bytes.Buffer
	buf.WriteString(StudentExportHeader)
	buf.WriteByte('\n')
	for _, s := range students {
		buf.WriteString(EncodeStudentLine(s))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// DecodeStudent builds a student from the positional import columns. The
// first four are required; phone, department, semester and status fall back
// to defaults when blank or unparsable.
func DecodeStudent(fields []string) (*models.Student, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("insufficient fields in CSV line: expected at least 4, got %d", len(fields))
	}
	id, regNo, name, email := field(fields, 0), field(fields, 1), field(fields, 2), field(fields, 3)
	if id == "" || regNo == "" || name == "" || email == "" {
		return nil, fmt.Errorf("required fields (ID, RegNo, Name, Email) cannot be empty")
	}

	student := models.NewStudent(id, validation.SanitizeString(name), email, regNo)
	if phone := field(fields, 4); phone != "" {
		student.Phone = phone
	}
	if dept := field(fields, 5); dept != "" {
		student.Department = dept
	}
	if raw := field(fields, 6); validation.IsNumeric(raw) {
		student.Semester, _ = strconv.Atoi(raw)
	}
	if raw := field(fields, 7); raw != "" {
		if status, err := models.ParseStudentStatus(raw); err == nil {
			student.Status = status
		}
	}
	return student, nil
}

// DecodeStudentRecord decodes an export line. The enrollment date restores
// CreatedAt to second precision; enrolled courses are re-applied to the
// student without grades.
func DecodeStudentRecord(fields []string) (*StudentRecord, error) {
	student, err := DecodeStudent(fields)
	if err != nil {
		return nil, err
	}
	rec := &StudentRecord{Student: student}
	if raw := field(fields, 8); raw != "" {
		gpa, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GPA value: %s", raw)
		}
		rec.GPA = gpa
	}
	if raw := field(fields, 9); raw != "" {
		at, err := time.ParseInLocation(DateLayout, raw, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid enrollment date: %s", raw)
		}
		student.CreatedAt = at
	}
	rec.EnrolledCourses = SplitList(field(fields, 10))
	for _, code := range rec.EnrolledCourses {
		student.Enroll(code)
	}
	return rec, nil
}

// DecodeStudents parses an export document, skipping the header and blank
// lines. It stops at the first malformed line.
func DecodeStudents(data []byte) ([]*StudentRecord, error) {
	lines := splitLines(data)
	out := make([]*StudentRecord, 0, len(lines))
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		rec, err := DecodeStudentRecord(ParseLine(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
