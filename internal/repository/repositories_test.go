package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursebook-api/internal/models"
)

func TestStudentRepositoryRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewStudentRepository(store)
	ctx := context.Background()

	student := &models.Student{
		Name:        "Alice",
		Phone:       "0912",
		Enrollments: []models.Enrollment{{CourseID: "c1", CourseName: "Piano", TotalPurchased: 8}},
	}
	require.NoError(t, repo.Create(ctx, student))
	assert.Equal(t, "id-1", student.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 1, 0, time.UTC), student.CreatedDate)

	student.Phone = ""
	student.Enrollments[0].TotalPurchased = 10
	require.NoError(t, repo.Update(ctx, student))

	found, err := repo.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "", found.Phone)
	assert.Equal(t, 10, found.Enrollments[0].TotalPurchased)

	require.NoError(t, repo.Delete(ctx, student.ID))
	_, err = repo.FindByID(ctx, student.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStudentRepositoryNormalizesMissingEnrollments(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewStudentRepository(store)
	ctx := context.Background()

	_, err := store.Create(ctx, KindStudents, Document{"name": "Legacy"})
	require.NoError(t, err)

	students, err := repo.List(ctx, "-created_date", 100)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.NotNil(t, students[0].Enrollments)
	assert.Empty(t, students[0].Enrollments)
}

func TestScheduleEventRepositoryRejectsUnknownStatus(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewScheduleEventRepository(store)
	ctx := context.Background()

	_, err := store.Create(ctx, KindEvents, Document{
		"course_id": "c1",
		"date_time": "2024-05-02T10:00:00.000Z",
		"attendees": []interface{}{map[string]interface{}{"student_id": "s1", "status": "late"}},
	})
	require.NoError(t, err)

	_, err = repo.List(ctx, "-date_time", 0)
	assert.Error(t, err)
}

func TestScheduleEventRepositoryRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewScheduleEventRepository(store)
	ctx := context.Background()
	at := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	event := &models.ScheduleEvent{
		CourseID:  "c1",
		DateTime:  at,
		Attendees: []models.Attendee{{StudentID: "s1", StudentName: "Alice"}},
	}
	require.NoError(t, repo.Create(ctx, event))
	assert.Equal(t, models.AttendanceStatusPending, event.Attendees[0].Status)

	events, err := repo.List(ctx, "-date_time", 500)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, at.Equal(events[0].DateTime))
}

func TestCourseRepositoryUpdateMissing(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewCourseRepository(store)

	err := repo.Update(context.Background(), &models.Course{ID: "missing", Name: "x"})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportRepositoryLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewReportRepository(store)
	ctx := context.Background()

	first := &models.ReportJob{Type: models.ReportTypeAttendance, Params: models.ReportJobParams{Format: models.ReportFormatCSV}}
	second := &models.ReportJob{Type: models.ReportTypeRoster, Params: models.ReportJobParams{Format: models.ReportFormatPDF}}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, models.ReportStatusQueued, first.Status)

	queued, err := repo.ListQueued(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Equal(t, first.ID, queued[0].ID)

	finished := models.ReportStatusFinished
	progress := 100
	url := "/api/v1/export/token"
	errMsg := ""
	doneAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, first.ID, UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ErrorMessage: &errMsg,
		FinishedAt:   &doneAt,
	}))

	job, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, url, *job.ResultURL)
	assert.Nil(t, job.ErrorMessage)

	expired, err := repo.ListFinishedBefore(ctx, doneAt.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, first.ID, expired[0].ID)

	none, err := repo.ListFinishedBefore(ctx, doneAt, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
