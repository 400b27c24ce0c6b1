package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursebook-api/internal/models"
	"github.com/noah-isme/coursebook-api/internal/repository"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
	"github.com/noah-isme/coursebook-api/pkg/kvstore"
)

type fixture struct {
	store     *repository.DocumentStore
	courses   *repository.CourseRepository
	students  *repository.StudentRepository
	events    *repository.ScheduleEventRepository
	reports   *repository.ReportRepository
	cacheRepo *memoryCacheRepo
	cache     *CacheService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewDocumentStore(kvstore.NewMemory(), "app_", nil)
	cacheRepo := newMemoryCacheRepo()
	return &fixture{
		store:     store,
		courses:   repository.NewCourseRepository(store),
		students:  repository.NewStudentRepository(store),
		events:    repository.NewScheduleEventRepository(store),
		reports:   repository.NewReportRepository(store),
		cacheRepo: cacheRepo,
		cache:     NewCacheService(cacheRepo, nil, time.Minute, nil, true),
	}
}

func (f *fixture) course(t *testing.T, name string) models.Course {
	t.Helper()
	course := &models.Course{Name: name}
	require.NoError(t, f.courses.Create(context.Background(), course))
	return *course
}

func (f *fixture) student(t *testing.T, name string, enrollments ...models.Enrollment) models.Student {
	t.Helper()
	student := &models.Student{Name: name, Enrollments: enrollments}
	require.NoError(t, f.students.Create(context.Background(), student))
	return *student
}

func (f *fixture) event(t *testing.T, course models.Course, at time.Time, attendees ...models.Attendee) models.ScheduleEvent {
	t.Helper()
	event := &models.ScheduleEvent{CourseID: course.ID, CourseName: course.Name, DateTime: at, Attendees: attendees}
	require.NoError(t, f.events.Create(context.Background(), event))
	return *event
}

func enroll(course models.Course, total int) models.Enrollment {
	return models.Enrollment{CourseID: course.ID, CourseName: course.Name, TotalPurchased: total}
}

func attend(student models.Student, status models.AttendanceStatus) models.Attendee {
	return models.Attendee{StudentID: student.ID, StudentName: student.Name, Status: status}
}

func intPtr(v int) *int {
	return &v
}

func errorStatus(err error) int {
	return appErrors.FromError(err).Status
}

// memoryCacheRepo is an in-process stand-in for the Redis cache repository.
type memoryCacheRepo struct {
	mu          sync.Mutex
	values      map[string]interface{}
	invalidated []string
	setErr      error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: map[string]interface{}{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	overview, ok := value.(*models.Overview)
	target, okDest := dest.(*models.Overview)
	if !ok || !okDest {
		return errors.New("unsupported cache payload")
	}
	*target = *overview
	return nil
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			delete(m.values, key)
		}
	}
	return nil
}

func (m *memoryCacheRepo) invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.invalidated)
}
