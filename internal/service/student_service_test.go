package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentServiceCreateResolvesEnrollments(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.students, f.courses, f.cache, nil, nil, 0)
	piano := f.course(t, "Piano")
	violin := f.course(t, "Violin")

	student, err := svc.Create(context.Background(), StudentRequest{
		Name:  "Alice",
		Email: "alice@example.com",
		Enrollments: []EnrollmentRequest{
			{CourseID: piano.ID, TotalPurchased: intPtr(8)},
			{CourseID: violin.ID},
		},
	})
	require.NoError(t, err)
	require.Len(t, student.Enrollments, 2)
	assert.Equal(t, "Piano", student.Enrollments[0].CourseName)
	assert.Equal(t, 8, student.Enrollments[0].TotalPurchased)
	assert.Equal(t, "Violin", student.Enrollments[1].CourseName)
	assert.Equal(t, 1, student.Enrollments[1].TotalPurchased)
	assert.Equal(t, 1, f.cacheRepo.invalidations())

	stored, err := svc.Get(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.Enrollments, stored.Enrollments)
}

func TestStudentServiceAllowsZeroPurchased(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.students, f.courses, nil, nil, nil, 0)
	piano := f.course(t, "Piano")

	student, err := svc.Create(context.Background(), StudentRequest{
		Name:        "Bob",
		Enrollments: []EnrollmentRequest{{CourseID: piano.ID, TotalPurchased: intPtr(0)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, student.Enrollments[0].TotalPurchased)
}

func TestStudentServiceRejectsBadEnrollments(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.students, f.courses, nil, nil, nil, 0)
	piano := f.course(t, "Piano")

	cases := map[string]StudentRequest{
		"missing name":   {Enrollments: []EnrollmentRequest{{CourseID: piano.ID}}},
		"bad email":      {Name: "Alice", Email: "not-an-email"},
		"negative total": {Name: "Alice", Enrollments: []EnrollmentRequest{{CourseID: piano.ID, TotalPurchased: intPtr(-1)}}},
		"unknown course": {Name: "Alice", Enrollments: []EnrollmentRequest{{CourseID: "ghost"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, errorStatus(err))
		})
	}

	_, err := svc.Create(context.Background(), StudentRequest{
		Name:        "Alice",
		Enrollments: []EnrollmentRequest{{CourseID: piano.ID}, {CourseID: piano.ID}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errorStatus(err))
}

func TestStudentServiceUpdateReplacesEnrollments(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.students, f.courses, f.cache, nil, nil, 0)
	ctx := context.Background()
	piano := f.course(t, "Piano")
	violin := f.course(t, "Violin")
	student := f.student(t, "Alice", enroll(piano, 4))

	updated, err := svc.Update(ctx, student.ID, StudentRequest{
		Name:        "Alice",
		Phone:       "0912",
		Enrollments: []EnrollmentRequest{{CourseID: violin.ID, TotalPurchased: intPtr(6)}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Enrollments, 1)
	assert.Equal(t, violin.ID, updated.Enrollments[0].CourseID)
	assert.Equal(t, student.CreatedDate, updated.CreatedDate)

	_, err = svc.Update(ctx, "missing", StudentRequest{Name: "Ghost"})
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}

func TestStudentServiceDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.students, f.courses, nil, nil, nil, 0)
	ctx := context.Background()
	student := f.student(t, "Alice")

	require.NoError(t, svc.Delete(ctx, student.ID))
	require.NoError(t, svc.Delete(ctx, student.ID))

	_, err := svc.Get(ctx, student.ID)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}
