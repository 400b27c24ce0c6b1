package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/internal/accounting"
	"github.com/noah-isme/coursebook-api/internal/dto"
	"github.com/noah-isme/coursebook-api/internal/models"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
)

type eventLister interface {
	List(ctx context.Context, sortField string, limit int) ([]models.ScheduleEvent, error)
}

type studentStore interface {
	List(ctx context.Context, sortField string, limit int) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AttendanceFilter drives the attendance records view.
type AttendanceFilter struct {
	Search string
	Sort   models.SortMode
}

// AttendanceLimits caps how many records the attendance views load.
type AttendanceLimits struct {
	Students int
	Events   int
}

// recentRecordLimit is the number of events shown on a student's detail view.
const recentRecordLimit = 10

// AttendanceService computes session accounting over stored records.
type AttendanceService struct {
	students studentStore
	events   eventLister
	logger   *zap.Logger
	limits   AttendanceLimits
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(students studentStore, events eventLister, logger *zap.Logger, limits AttendanceLimits) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.Students <= 0 {
		limits.Students = 100
	}
	if limits.Events <= 0 {
		limits.Events = 500
	}
	return &AttendanceService{students: students, events: events, logger: logger, limits: limits}
}

// List ranks every loaded student by filter.Sort (remaining_desc by default)
// and keeps those whose name contains filter.Search.
func (s *AttendanceService) List(ctx context.Context, filter AttendanceFilter) (*dto.AttendanceListResponse, error) {
	if filter.Sort == "" {
		filter.Sort = models.SortRemainingDesc
	}
	if !filter.Sort.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sort must be one of remaining_desc, remaining_asc, completed, none")
	}
	stats, err := s.loadStats(ctx, s.limits.Students, s.limits.Events)
	if err != nil {
		return nil, err
	}
	ranked := accounting.RankStudents(stats, filter.Sort)
	if filter.Search != "" {
		ranked = accounting.FilterByName(ranked, filter.Search)
	}
	return &dto.AttendanceListResponse{Sort: filter.Sort, Search: filter.Search, Students: ranked}, nil
}

// Ranked returns stats for every stored student in the given order. Unlike
// List it ignores the view limits, so exports cover the whole roster.
func (s *AttendanceService) Ranked(ctx context.Context, mode models.SortMode) ([]models.StudentStats, error) {
	stats, err := s.loadStats(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	return accounting.RankStudents(stats, mode), nil
}

// StudentStats returns one student's accounting with the detail breakdown.
func (s *AttendanceService) StudentStats(ctx context.Context, id string) (*dto.StudentStatsResponse, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "student not found", "failed to load student")
	}
	events, err := s.events.List(ctx, "-date_time", s.limits.Events)
	if err != nil {
		return nil, internalError(err, "failed to list events")
	}
	stats := accounting.ComputeStudentStats(*student, events)
	return &dto.StudentStatsResponse{
		Stats:   stats,
		Recent:  accounting.RecentRecords(stats, recentRecordLimit),
		Courses: accounting.CourseBreakdown(stats),
	}, nil
}

// loadStats computes stats over the newest students and events; a limit of
// zero loads everything.
func (s *AttendanceService) loadStats(ctx context.Context, studentLimit, eventLimit int) ([]models.StudentStats, error) {
	students, err := s.students.List(ctx, "-created_date", studentLimit)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	events, err := s.events.List(ctx, "-date_time", eventLimit)
	if err != nil {
		return nil, internalError(err, "failed to list events")
	}
	return accounting.ComputeAll(students, events), nil
}
