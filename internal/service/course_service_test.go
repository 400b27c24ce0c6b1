package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursebook-api/internal/models"
)

func TestCourseServiceCreateDefaultsColor(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.courses, f.cache, nil, nil, 0)

	course, err := svc.Create(context.Background(), CourseRequest{Name: "Piano"})
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, models.DefaultCourseColor, course.ColorHex)
	assert.False(t, course.CreatedDate.IsZero())
	assert.Equal(t, 1, f.cacheRepo.invalidations())

	stored, err := svc.Get(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Piano", stored.Name)
}

func TestCourseServiceValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.courses, f.cache, nil, nil, 0)

	cases := []CourseRequest{
		{},
		{Name: strings.Repeat("x", 121)},
		{Name: "Piano", ColorHex: "blue"},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, errorStatus(err))
	}
}

func TestCourseServiceUpdateAndClearDescription(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.courses, f.cache, nil, nil, 0)
	ctx := context.Background()

	course, err := svc.Create(ctx, CourseRequest{Name: "Piano", Description: "Beginner", ColorHex: "#10B981"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, course.ID, CourseRequest{Name: "Piano II"})
	require.NoError(t, err)
	assert.Equal(t, "Piano II", updated.Name)
	assert.Empty(t, updated.Description)
	assert.Equal(t, models.DefaultCourseColor, updated.ColorHex)
	assert.Equal(t, course.CreatedDate, updated.CreatedDate)

	stored, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Description)
}

func TestCourseServiceNotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.courses, f.cache, nil, nil, 0)

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, errorStatus(err))

	_, err = svc.Update(context.Background(), "missing", CourseRequest{Name: "Piano"})
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}

func TestCourseServiceDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.courses, f.cache, nil, nil, 0)
	ctx := context.Background()

	course := f.course(t, "Piano")
	require.NoError(t, svc.Delete(ctx, course.ID))
	require.NoError(t, svc.Delete(ctx, course.ID))

	courses, page, err := svc.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.Equal(t, "-created_date", page.Sort)
	assert.Equal(t, 100, page.Limit)

	err = svc.Delete(ctx, "")
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))
}

func TestCourseServiceListHonoursSortAndLimit(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.courses, nil, nil, nil, 0)
	ctx := context.Background()

	f.course(t, "Violin")
	f.course(t, "Cello")
	f.course(t, "Piano")

	courses, page, err := svc.List(ctx, models.ListFilter{Sort: "name", Limit: 2})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Cello", courses[0].Name)
	assert.Equal(t, "Piano", courses[1].Name)
	assert.Equal(t, 2, page.TotalCount)
}
