package service

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/repository"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/config"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

type recordsFixture struct {
	svc         *RecordsService
	students    *repository.StudentStore
	courses     *repository.CourseStore
	enrollments *repository.EnrollmentStore
	metrics     *MetricsService
}

func newRecordsFixture(t *testing.T, limits config.LimitsConfig) *recordsFixture {
	t.Helper()
	start := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return start.Add(time.Duration(tick) * time.Minute)
	}
	f := &recordsFixture{
		students:    repository.NewStudentStore(nil),
		courses:     repository.NewCourseStore(nil),
		enrollments: repository.NewEnrollmentStore(repository.WithClock(clock)),
		metrics:     NewMetricsService(),
	}
	f.svc = NewRecordsService(f.students, f.courses, f.enrollments, limits, f.metrics, zap.NewNop())
	return f
}

func (f *recordsFixture) addStudent(t *testing.T, id, name, regNo string) {
	t.Helper()
	require.NoError(t, f.svc.RegisterStudent(models.NewStudent(id, name, id+"@campus.edu", regNo)))
}

func (f *recordsFixture) addCourse(t *testing.T, code string, capacity int) {
	t.Helper()
	course, err := models.NewCourseBuilder(code, "Course "+code, 3).MaxCapacity(capacity).Build()
	require.NoError(t, err)
	require.NoError(t, f.svc.RegisterCourse(course))
}

func defaultLimits() config.LimitsConfig {
	return config.LimitsConfig{MaxStudentsPerCourse: 50, MaxCoursesPerStudent: 8}
}

func TestRecordsServiceEnrollMirrorsBookkeeping(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addCourse(t, "CS101", 30)

	enrollment, err := f.svc.EnrollStudent("S001", "CS101")
	require.NoError(t, err)
	assert.Equal(t, "ENR1000", enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)

	student, ok := f.svc.FindStudent("S001")
	require.True(t, ok)
	assert.Equal(t, []string{"CS101"}, student.EnrolledCourses())

	course, ok := f.svc.FindCourse("CS101")
	require.True(t, ok)
	assert.True(t, course.HasStudent("S001"))

	assert.Empty(t, f.svc.CheckConsistency())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.storeOperations.WithLabelValues(entityEnrollment, "enroll", resultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.records.WithLabelValues(entityEnrollment)))
}

func TestRecordsServiceEnrollGuards(t *testing.T) {
	f := newRecordsFixture(t, config.LimitsConfig{MaxStudentsPerCourse: 50, MaxCoursesPerStudent: 1})
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addStudent(t, "S002", "Bob Jones", "REG002")
	f.addStudent(t, "S003", "Cara Diaz", "REG003")
	f.addCourse(t, "CS101", 1)
	f.addCourse(t, "MATH201", 10)

	suspended, ok := f.students.FindByID("S003")
	require.True(t, ok)
	suspended.Status = models.StudentStatusSuspended
	require.NoError(t, f.svc.UpdateStudent(suspended))

	_, err := f.svc.EnrollStudent("S404", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = f.svc.EnrollStudent("S001", "NOPE100")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = f.svc.EnrollStudent("S003", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	_, err = f.svc.EnrollStudent("S001", "CS101")
	require.NoError(t, err)

	_, err = f.svc.EnrollStudent("S001", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))

	// per-student limit of one active course
	_, err = f.svc.EnrollStudent("S001", "MATH201")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	// CS101 holds one seat
	_, err = f.svc.EnrollStudent("S002", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	assert.Equal(t, 1, f.enrollments.Count())
	assert.Empty(t, f.svc.CheckConsistency())
	snapshot := f.metrics.Snapshot()
	assert.Equal(t, uint64(6), snapshot.FailedOperations)
}

func TestRecordsServiceCourseLimitFromConfig(t *testing.T) {
	f := newRecordsFixture(t, config.LimitsConfig{MaxStudentsPerCourse: 1, MaxCoursesPerStudent: 8})
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addStudent(t, "S002", "Bob Jones", "REG002")
	f.addCourse(t, "CS101", 40)

	_, err := f.svc.EnrollStudent("S001", "CS101")
	require.NoError(t, err)
	_, err = f.svc.EnrollStudent("S002", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))
}

func TestRecordsServiceRecordGradeUpdatesGPA(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addCourse(t, "CS101", 30)
	f.addCourse(t, "MATH201", 30)
	f.addCourse(t, "PHY101", 30)

	for _, code := range []string{"CS101", "MATH201", "PHY101"} {
		_, err := f.svc.EnrollStudent("S001", code)
		require.NoError(t, err)
	}

	graded, err := f.svc.RecordGrade("S001", "CS101", models.GradeA)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, graded.Status)
	_, err = f.svc.RecordGrade("S001", "MATH201", models.GradeB)
	require.NoError(t, err)

	student, _ := f.svc.FindStudent("S001")
	assert.InDelta(t, 8.5, student.GPA(), 1e-9)

	_, err = f.svc.RecordGrade("S001", "CS101", models.GradeS)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	_, err = f.svc.RecordGrade("S001", "PHY101", models.Grade("Z"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	transcript, err := f.svc.Transcript("S001")
	require.NoError(t, err)
	assert.Equal(t, []models.TranscriptEntry{
		{CourseCode: "CS101", Status: "Completed", Grade: "A"},
		{CourseCode: "MATH201", Status: "Completed", Grade: "B"},
		{CourseCode: "PHY101", Status: "Enrolled", Grade: "Not Graded"},
	}, transcript)

	_, err = f.svc.Transcript("S404")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, f.svc.CheckConsistency())
}

func TestRecordsServiceDropStudent(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addCourse(t, "CS101", 30)

	_, err := f.svc.EnrollStudent("S001", "CS101")
	require.NoError(t, err)

	err = f.svc.DeleteStudent("S001")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	dropped, err := f.svc.DropStudent("S001", "CS101", "schedule conflict")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, dropped.Status)
	assert.Equal(t, "schedule conflict", dropped.Remarks)

	student, _ := f.svc.FindStudent("S001")
	assert.Empty(t, student.EnrolledCourses())
	course, _ := f.svc.FindCourse("CS101")
	assert.False(t, course.HasStudent("S001"))

	again, err := f.svc.DropStudent("S001", "CS101", "again")
	require.NoError(t, err)
	assert.Equal(t, "again", again.Remarks)
	_, err = f.svc.RecordGrade("S001", "CS101", models.GradeA)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))
	_, err = f.svc.EnrollStudent("S001", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))

	assert.Empty(t, f.svc.CheckConsistency())
	require.NoError(t, f.svc.DeleteStudent("S001"))
	require.NoError(t, f.svc.DeleteCourse("CS101"))

	stats := f.svc.EnrollmentStatistics()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Dropped())
}

func TestRecordsServiceDropCompletedEnrollment(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addCourse(t, "CS101", 30)
	f.addCourse(t, "MATH201", 30)
	for _, code := range []string{"CS101", "MATH201"} {
		_, err := f.svc.EnrollStudent("S001", code)
		require.NoError(t, err)
	}
	_, err := f.svc.RecordGrade("S001", "CS101", models.GradeB)
	require.NoError(t, err)
	_, err = f.svc.RecordGrade("S001", "MATH201", models.GradeA)
	require.NoError(t, err)

	dropped, err := f.svc.DropStudent("S001", "CS101", "late withdrawal")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, dropped.Status)

	student, _ := f.svc.FindStudent("S001")
	assert.Equal(t, []string{"MATH201"}, student.EnrolledCourses())
	assert.InDelta(t, 9.0, student.GPA(), 1e-9)
	course, _ := f.svc.FindCourse("CS101")
	assert.False(t, course.HasStudent("S001"))

	assert.Empty(t, f.svc.CheckConsistency())
	require.NoError(t, f.svc.DeleteCourse("CS101"))
}

func TestRecordsServiceHyphenatedIdentifiers(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	require.NoError(t, f.svc.RegisterStudent(models.NewStudent("S-1", "Alice Smith", "alice@campus.edu", "REG001")))
	require.NoError(t, f.svc.RegisterStudent(models.NewStudent("S", "Bob Jones", "bob@campus.edu", "REG002")))
	for _, code := range []string{"CS", "1-CS"} {
		course, err := models.NewCourseBuilder(code, "Course "+code, 3).Build()
		require.NoError(t, err)
		require.NoError(t, f.svc.RegisterCourse(course))
	}

	_, err := f.svc.EnrollStudent("S-1", "CS")
	require.NoError(t, err)
	_, err = f.svc.EnrollStudent("S", "1-CS")
	require.NoError(t, err)

	_, err = f.svc.RecordGrade("S", "1-CS", models.GradeA)
	require.NoError(t, err)
	other, ok := f.enrollments.Find("S-1", "CS")
	require.True(t, ok)
	assert.Equal(t, models.EnrollmentStatusEnrolled, other.Status)
	assert.Empty(t, f.svc.CheckConsistency())
}

func TestRecordsServiceUpdateStudentKeepsAcademicRecord(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addCourse(t, "CS101", 30)
	_, err := f.svc.EnrollStudent("S001", "CS101")
	require.NoError(t, err)
	_, err = f.svc.RecordGrade("S001", "CS101", models.GradeS)
	require.NoError(t, err)

	edited := models.NewStudent("S001", "Alice Smith-Jones", "alice.jones@campus.edu", "REG001")
	edited.Department = "Computer Science"
	require.NoError(t, f.svc.UpdateStudent(edited))

	stored, _ := f.svc.FindStudent("S001")
	assert.Equal(t, "Alice Smith-Jones", stored.FullName)
	assert.Equal(t, []string{"CS101"}, stored.EnrolledCourses())
	assert.InDelta(t, 10.0, stored.GPA(), 1e-9)

	err = f.svc.UpdateStudent(models.NewStudent("S404", "Nobody", "nobody@campus.edu", "REG404"))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRecordsServiceAssignInstructor(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	f.addCourse(t, "CS101", 30)

	instructor := models.NewInstructor("I001", "Dr. Grace Hopper", "grace@campus.edu", "EMP001")
	require.NoError(t, f.svc.AssignInstructor("CS101", instructor))

	course, _ := f.svc.FindCourse("CS101")
	assert.Equal(t, "Dr. Grace Hopper", course.Instructor)
	assert.Equal(t, []string{"CS101"}, instructor.TaughtCourses())

	err := f.svc.AssignInstructor("NOPE100", instructor)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	retired := models.NewInstructor("I002", "Prof. Emeritus", "emeritus@campus.edu", "EMP002")
	retired.Status = models.InstructorStatusRetired
	err = f.svc.AssignInstructor("CS101", retired)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	err = f.svc.AssignInstructor("CS101", models.NewInstructor("I003", "No Email", "missing", "EMP003"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestRecordsServiceCheckConsistencyReportsDrift(t *testing.T) {
	f := newRecordsFixture(t, defaultLimits())
	f.addStudent(t, "S001", "Alice Smith", "REG001")
	f.addCourse(t, "CS101", 30)

	require.NoError(t, f.courses.AddStudent("CS101", "S001"))
	require.NoError(t, f.students.Mutate("S001", func(st *models.Student) error {
		st.Enroll("CS101")
		return nil
	}))

	assert.Equal(t, []string{
		"course CS101 lists student S001 without an enrollment",
		"student S001 lists course CS101 without an enrollment",
	}, f.svc.CheckConsistency())
}
