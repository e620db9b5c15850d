package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
)

func newStudent(id, name, regNo string) *models.Student {
	return models.NewStudent(id, name, id+"@campus.edu", regNo)
}

func seedStudents(t *testing.T, store *StudentStore) {
	t.Helper()
	alice := newStudent("S001", "Alice Johnson", "REG001")
	alice.Department = "Computer Science"
	alice.Semester = 3
	bob := newStudent("S002", "Bob Smith", "REG002")
	bob.Department = "Mathematics"
	bob.Status = models.StudentStatusGraduated
	carol := newStudent("S003", "Carol Alison", "REG003")
	carol.Department = "Computer Science"
	carol.Semester = 3
	for _, s := range []*models.Student{bob, carol, alice} {
		require.NoError(t, store.Add(s))
	}
}

func TestStudentStoreAddAndFind(t *testing.T) {
	store := NewStudentStore(nil)
	require.NoError(t, store.Add(models.NewStudent("S001", "Alice Johnson", "alice@x.edu", "REG001")))

	found, ok := store.FindByID("S001")
	require.True(t, ok)
	assert.Equal(t, "Alice Johnson", found.FullName)

	byReg, ok := store.FindByRegNo("REG001")
	require.True(t, ok)
	assert.Equal(t, "S001", byReg.ID)

	err := store.Add(models.NewStudent("S001", "Alice Johnson", "alice@x.edu", "REG001"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
	assert.Equal(t, 1, store.Count())
}

func TestStudentStoreUniqueness(t *testing.T) {
	store := NewStudentStore(nil)
	require.NoError(t, store.Add(newStudent("S001", "Alice", "REG001")))

	err := store.Add(newStudent("S002", "Bob", "REG001"))
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))

	err = store.Add(newStudent("S001", "Bob", "REG999"))
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))

	_, ok := store.FindByRegNo("REG999")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Count())
}

func TestStudentStoreValidation(t *testing.T) {
	store := NewStudentStore(nil)
	cases := []struct {
		name    string
		student *models.Student
	}{
		{"nil", nil},
		{"short reg no", models.NewStudent("S001", "Alice", "alice@x.edu", "R1")},
		{"blank name", models.NewStudent("S001", " ", "alice@x.edu", "REG001")},
		{"email without at", models.NewStudent("S001", "Alice", "alice.x.edu", "REG001")},
		{"malformed email", models.NewStudent("S001", "Alice", "alice@x", "REG001")},
		{"padded email", models.NewStudent("S001", "Alice", " a@b.co", "REG001")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Add(tc.student)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
		})
	}
	assert.Equal(t, 0, store.Count())
}

func TestStudentStoreUpdate(t *testing.T) {
	store := NewStudentStore(nil)
	seedStudents(t, store)

	err := store.Update(newStudent("S999", "Ghost", "REG999"))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	alice, _ := store.FindByID("S001")
	alice.RegNo = "REG002"
	err = store.Update(alice)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))

	alice.RegNo = "REG101"
	alice.Semester = 4
	require.NoError(t, store.Update(alice))

	_, ok := store.FindByRegNo("REG001")
	assert.False(t, ok)
	updated, ok := store.FindByRegNo("REG101")
	require.True(t, ok)
	assert.Equal(t, 4, updated.Semester)

	require.NoError(t, store.Add(newStudent("S004", "Dan", "REG001")))
}

func TestStudentStoreDelete(t *testing.T) {
	store := NewStudentStore(nil)
	seedStudents(t, store)

	require.NoError(t, store.Delete("S002"))
	_, ok := store.FindByRegNo("REG002")
	assert.False(t, ok)
	assert.True(t, errors.Is(store.Delete("S002"), appErrors.ErrNotFound))
	assert.Equal(t, 2, store.Count())
}

func TestStudentStoreQueries(t *testing.T) {
	store := NewStudentStore(nil)
	seedStudents(t, store)

	names := func(list []*models.Student) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, s.FullName)
		}
		return out
	}

	assert.Equal(t, []string{"Alice Johnson", "Bob Smith", "Carol Alison"}, names(store.All()))
	assert.Equal(t, []string{"Alice Johnson", "Carol Alison"}, names(store.SearchByName("ALI")))
	assert.Empty(t, store.SearchByName("   "))
	assert.Empty(t, store.SearchByName(""))
	assert.Equal(t, []string{"Alice Johnson", "Carol Alison"}, names(store.FilterByDepartment("Computer Science")))
	assert.Equal(t, []string{"Bob Smith"}, names(store.FilterByStatus(models.StudentStatusGraduated)))
	assert.Equal(t, []string{"Alice Johnson", "Carol Alison"}, names(store.FilterBySemester(3)))
}

func TestStudentStoreTopPerformersAndMutate(t *testing.T) {
	store := NewStudentStore(nil)
	seedStudents(t, store)

	grade := func(id string, g models.Grade) {
		require.NoError(t, store.Mutate(id, func(s *models.Student) error {
			s.Enroll("CS101")
			return s.AssignGrade("CS101", g)
		}))
	}
	grade("S001", models.GradeB)
	grade("S002", models.GradeS)
	grade("S003", models.GradeD)

	top := store.TopPerformers(8.0)
	require.Len(t, top, 2)
	assert.Equal(t, "S002", top[0].ID)
	assert.Equal(t, "S001", top[1].ID)

	err := store.Mutate("S001", func(s *models.Student) error {
		s.RegNo = "CHANGED"
		return nil
	})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))

	failing := errors.New("boom")
	err = store.Mutate("S001", func(s *models.Student) error {
		s.Unenroll("CS101")
		return failing
	})
	assert.ErrorIs(t, err, failing)
	alice, _ := store.FindByID("S001")
	assert.True(t, alice.IsEnrolled("CS101"))

	assert.True(t, errors.Is(store.Mutate("S999", func(*models.Student) error { return nil }), appErrors.ErrNotFound))
}

func TestStudentStoreStatistics(t *testing.T) {
	store := NewStudentStore(nil)
	empty := store.Statistics()
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0.0, empty.AverageGPA)
	assert.Equal(t, 0.0, empty.MinGPA)
	assert.Equal(t, 0.0, empty.MaxGPA)

	seedStudents(t, store)
	require.NoError(t, store.Add(newStudent("S004", "Dan Undeclared", "REG004")))
	require.NoError(t, store.Mutate("S001", func(s *models.Student) error {
		s.Enroll("CS101")
		return s.AssignGrade("CS101", models.GradeA)
	}))
	require.NoError(t, store.Mutate("S002", func(s *models.Student) error {
		s.Enroll("CS101")
		return s.AssignGrade("CS101", models.GradeC)
	}))

	stats := store.Statistics()
	assert.Equal(t, 4, stats.Total)
	assert.InDelta(t, 4.0, stats.AverageGPA, 1e-9)
	assert.Equal(t, 0.0, stats.MinGPA)
	assert.Equal(t, 9.0, stats.MaxGPA)
	assert.Equal(t, 3, stats.ByStatus[models.StudentStatusActive])
	assert.Equal(t, 1, stats.ByStatus[models.StudentStatusGraduated])
	assert.Equal(t, map[string]int{"Computer Science": 2, "Mathematics": 1}, stats.ByDepartment)
}

func TestStudentStoreReturnsCopies(t *testing.T) {
	store := NewStudentStore(nil)
	original := newStudent("S001", "Alice", "REG001")
	require.NoError(t, store.Add(original))

	original.FullName = "Mutated before read"
	found, _ := store.FindByID("S001")
	assert.Equal(t, "Alice", found.FullName)

	found.FullName = "Mutated after read"
	found.Enroll("CS101")
	list := store.All()
	list[0].Department = "Hacked"
	list[0] = nil

	again, _ := store.FindByID("S001")
	assert.Equal(t, "Alice", again.FullName)
	assert.Empty(t, again.EnrolledCourses())
	assert.Empty(t, again.Department)
	assert.Equal(t, 1, len(store.All()))
}
