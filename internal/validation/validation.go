package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern      = regexp.MustCompile(`^(\+?1-?)?\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)
	studentIDPattern  = regexp.MustCompile(`^[A-Za-z0-9]{3,10}$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{2,4}$`)
)

// New returns a validator with the record-manager tags registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return IsNotEmpty(fl.Field().String())
	})
	_ = v.RegisterValidation("campus_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	return v
}

// IsValidEmail matches the raw value; surrounding whitespace is rejected.
func IsValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phone != "" && phonePattern.MatchString(strings.TrimSpace(phone))
}

// IsValidStudentID accepts 3 to 10 alphanumeric characters.
func IsValidStudentID(id string) bool {
	return id != "" && studentIDPattern.MatchString(strings.TrimSpace(id))
}

// IsValidCourseCode accepts 2-4 letters followed by 2-4 digits, in any case.
func IsValidCourseCode(code string) bool {
	return code != "" && courseCodePattern.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsLengthValid checks the trimmed length against [min, max].
func IsLengthValid(s string, min, max int) bool {
	n := len([]rune(strings.TrimSpace(s)))
	return n >= min && n <= max
}

func IsValidGPA(gpa float64) bool {
	return gpa >= 0.0 && gpa <= 10.0
}

func IsValidSemester(semester int) bool {
	return semester >= 1 && semester <= 8
}

func IsValidCredits(credits int) bool {
	return credits >= 1 && credits <= 10
}

func IsValidCapacity(capacity int) bool {
	return capacity >= 1 && capacity <= 500
}

// IsNumeric reports whether s parses as an integer.
func IsNumeric(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

// SanitizeString trims s and collapses internal whitespace runs.
func SanitizeString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeAndTruncate sanitizes s and cuts it to at most max runes.
func SanitizeAndTruncate(s string, max int) string {
	clean := []rune(SanitizeString(s))
	if max >= 0 && len(clean) > max {
		clean = clean[:max]
	}
	return string(clean)
}
