package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

// steppingClock advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(time.Minute)
		return now
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

var clockStart = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func TestEnrollmentStoreEnroll(t *testing.T) {
	store := NewEnrollmentStore(WithClock(steppingClock(clockStart)))

	first, err := store.Enroll("S001", "CS101")
	require.NoError(t, err)
	assert.Equal(t, "ENR1000", first.ID)
	assert.Equal(t, models.EnrollmentStatusEnrolled, first.Status)
	assert.Equal(t, clockStart, first.EnrolledAt)

	_, err = store.Enroll("S001", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))

	second, err := store.Enroll("S001", "MATH201")
	require.NoError(t, err)
	assert.Equal(t, "ENR1001", second.ID)
}

func TestEnrollmentStoreIDsNeverReused(t *testing.T) {
	store := NewEnrollmentStore()
	_, err := store.Enroll("S001", "CS101")
	require.NoError(t, err)
	_, err = store.Unenroll("S001", "CS101", "changed major")
	require.NoError(t, err)

	next, err := store.Enroll("S002", "CS101")
	require.NoError(t, err)
	assert.Equal(t, "ENR1001", next.ID)

	_, err = store.Enroll("S001", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
	assert.Equal(t, 2, store.Count())
}

func TestEnrollmentStoreGradeTransitions(t *testing.T) {
	store := NewEnrollmentStore()
	_, err := store.Enroll("S001", "CS101")
	require.NoError(t, err)

	graded, err := store.AssignGrade("S001", "CS101", models.GradeB)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, graded.Status)
	require.NotNil(t, graded.AssignedGrade)
	assert.Equal(t, models.GradeB, *graded.AssignedGrade)

	_, err = store.AssignGrade("S001", "CS101", models.GradeA)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	stored, ok := store.Find("S001", "CS101")
	require.True(t, ok)
	assert.Equal(t, models.GradeB, *stored.AssignedGrade)

	_, err = store.AssignGrade("S009", "CS101", models.GradeA)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = store.AssignGrade("S001", "CS101", models.Grade("Q"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestEnrollmentStoreUnenroll(t *testing.T) {
	store := NewEnrollmentStore()
	_, err := store.Unenroll("S001", "CS101", "n/a")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = store.Enroll("S001", "CS101")
	require.NoError(t, err)
	dropped, err := store.Unenroll("S001", "CS101", "schedule conflict")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, dropped.Status)
	assert.Equal(t, "schedule conflict", dropped.Remarks)

	kept, ok := store.Find("S001", "CS101")
	require.True(t, ok)
	assert.Equal(t, models.EnrollmentStatusDropped, kept.Status)

	_, err = store.AssignGrade("S001", "CS101", models.GradeA)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	again, err := store.Unenroll("S001", "CS101", "again")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, again.Status)
	assert.Equal(t, "again", again.Remarks)
	assert.Equal(t, 1, store.Count())
}

func TestEnrollmentStoreUnenrollCompleted(t *testing.T) {
	store := NewEnrollmentStore()
	_, err := store.Enroll("S001", "CS101")
	require.NoError(t, err)
	_, err = store.AssignGrade("S001", "CS101", models.GradeB)
	require.NoError(t, err)

	dropped, err := store.Unenroll("S001", "CS101", "late withdrawal")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, dropped.Status)
	assert.Equal(t, "late withdrawal", dropped.Remarks)
	require.NotNil(t, dropped.AssignedGrade)
	assert.Equal(t, models.GradeB, *dropped.AssignedGrade)

	stats := store.Statistics()
	assert.Equal(t, 0, stats.Active)
	assert.Equal(t, 0, stats.Completed)
	assert.Equal(t, 1, stats.Dropped())
}

func TestEnrollmentStoreHyphenatedPairsStayDistinct(t *testing.T) {
	store := NewEnrollmentStore()
	first, err := store.Enroll("S-1", "CS")
	require.NoError(t, err)
	second, err := store.Enroll("S", "1-CS")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, store.Count())

	found, ok := store.Find("S", "1-CS")
	require.True(t, ok)
	assert.Equal(t, "S", found.StudentID)
	assert.Equal(t, "1-CS", found.CourseCode)

	_, err = store.AssignGrade("S", "1-CS", models.GradeA)
	require.NoError(t, err)
	untouched, ok := store.Find("S-1", "CS")
	require.True(t, ok)
	assert.Equal(t, models.EnrollmentStatusEnrolled, untouched.Status)
	assert.Nil(t, untouched.AssignedGrade)
}

func TestEnrollmentStoreOrdering(t *testing.T) {
	store := NewEnrollmentStore(WithClock(fixedClock(clockStart)))
	for _, code := range []string{"PHYS101", "CS101", "MATH201"} {
		_, err := store.Enroll("S001", code)
		require.NoError(t, err)
	}
	_, err := store.Enroll("S002", "CS101")
	require.NoError(t, err)

	courseCodes := func(list []*models.Enrollment) []string {
		out := make([]string, 0, len(list))
		for _, e := range list {
			out = append(out, e.CourseCode)
		}
		return out
	}
	assert.Equal(t, []string{"PHYS101", "CS101", "MATH201"}, courseCodes(store.ForStudent("S001")))

	forCourse := store.ForCourse("CS101")
	require.Len(t, forCourse, 2)
	assert.Equal(t, "S001", forCourse[0].StudentID)
	assert.Equal(t, "S002", forCourse[1].StudentID)

	_, err = store.AssignGrade("S001", "CS101", models.GradeA)
	require.NoError(t, err)
	assert.Len(t, store.Active(), 3)
	assert.Equal(t, 2, store.ActiveCountForStudent("S001"))
	assert.Len(t, store.All(), 4)
}

func TestEnrollmentStoreTranscriptAndStatistics(t *testing.T) {
	store := NewEnrollmentStore(WithClock(steppingClock(clockStart)))
	for _, code := range []string{"CS101", "MATH201", "PHYS101"} {
		_, err := store.Enroll("S001", code)
		require.NoError(t, err)
	}
	_, err := store.AssignGrade("S001", "CS101", models.GradeA)
	require.NoError(t, err)
	_, err = store.Unenroll("S001", "PHYS101", "too hard")
	require.NoError(t, err)

	assert.Equal(t, []models.TranscriptEntry{
		{CourseCode: "CS101", Status: "Completed", Grade: "A"},
		{CourseCode: "MATH201", Status: "Enrolled", Grade: "Not Graded"},
		{CourseCode: "PHYS101", Status: "Dropped", Grade: "Not Graded"},
	}, store.Transcript("S001"))
	assert.Empty(t, store.Transcript("S404"))

	stats := store.Statistics()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Dropped())
}

func TestEnrollmentStoreReturnsCopies(t *testing.T) {
	store := NewEnrollmentStore()
	e, err := store.Enroll("S001", "CS101")
	require.NoError(t, err)
	e.Status = models.EnrollmentStatusFailed

	list := store.ForStudent("S001")
	list[0].Remarks = "mutated"

	stored, _ := store.Find("S001", "CS101")
	assert.Equal(t, models.EnrollmentStatusEnrolled, stored.Status)
	assert.Empty(t, stored.Remarks)
}
