package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/internal/accounting"
	"github.com/noah-isme/coursebook-api/internal/models"
)

type courseLister interface {
	List(ctx context.Context, sortField string, limit int) ([]models.Course, error)
}

const (
	overviewRecentLimit   = 50
	overviewUpcomingLimit = 5
)

// OverviewService assembles the dashboard landing page.
type OverviewService struct {
	students studentLister
	courses  courseLister
	events   eventLister
	cache    *CacheService
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time
}

// NewOverviewService constructs the overview service.
func NewOverviewService(students studentLister, courses courseLister, events eventLister, cache *CacheService, logger *zap.Logger, location *time.Location) *OverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &OverviewService{
		students: students,
		courses:  courses,
		events:   events,
		cache:    cache,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// Get returns the overview for the current month. The boolean reports a cache hit.
func (s *OverviewService) Get(ctx context.Context) (*models.Overview, bool, error) {
	now := s.now().In(s.location)
	month := now.Format("2006-01")
	key := OverviewCacheKey(month)

	var cached models.Overview
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}
	generation := s.cache.Generation()

	students, err := s.students.List(ctx, "-created_date", 0)
	if err != nil {
		return nil, false, internalError(err, "failed to list students")
	}
	courses, err := s.courses.List(ctx, "-created_date", 0)
	if err != nil {
		return nil, false, internalError(err, "failed to list courses")
	}
	events, err := s.events.List(ctx, "-date_time", 0)
	if err != nil {
		return nil, false, internalError(err, "failed to list events")
	}

	overview := &models.Overview{
		Month:           month,
		StudentCount:    len(students),
		CourseCount:     len(courses),
		MonthEventCount: len(accounting.EventsInMonth(events, now, s.location)),
		TotalEventCount: len(events),
		RecentStudents:  head(students, overviewRecentLimit),
		RecentCourses:   head(courses, overviewRecentLimit),
		UpcomingEvents:  accounting.UpcomingEvents(events, now, overviewUpcomingLimit),
	}

	if _, err := s.cache.SetIfCurrent(ctx, key, overview, 0, generation); err != nil {
		s.logger.Debug("overview cache write skipped", zap.Error(err))
	}
	return overview, false, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
