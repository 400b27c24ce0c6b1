package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/internal/accounting"
	"github.com/noah-isme/coursebook-api/internal/models"
	"github.com/noah-isme/coursebook-api/internal/repository"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
)

type scheduleEventRepository interface {
	List(ctx context.Context, sortField string, limit int) ([]models.ScheduleEvent, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEvent, error)
	Create(ctx context.Context, event *models.ScheduleEvent) error
	Update(ctx context.Context, event *models.ScheduleEvent) error
	Delete(ctx context.Context, id string) error
}

type studentLister interface {
	List(ctx context.Context, sortField string, limit int) ([]models.Student, error)
}

// AttendeeRequest names one student on an event roster. An empty status keeps
// the student's current mark, or pending for new attendees.
type AttendeeRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"omitempty,oneof=pending present absent excused"`
}

// EventRequest holds the payload for creating or updating a class event.
type EventRequest struct {
	CourseID  string            `json:"course_id" validate:"required"`
	DateTime  time.Time         `json:"date_time" validate:"required"`
	Note      string            `json:"note" validate:"max=2000"`
	Attendees []AttendeeRequest `json:"attendees" validate:"dive"`
}

// AttendanceMarkRequest sets one attendee's status.
type AttendanceMarkRequest struct {
	Status string `json:"status" validate:"required,oneof=pending present absent excused"`
}

// EventFilter narrows event listings. Month (YYYY-MM) and Day (YYYY-MM-DD)
// are evaluated in the service time zone.
type EventFilter struct {
	models.ListFilter
	Month string
	Day   string
}

// ScheduleService handles class events and their attendance rosters.
type ScheduleService struct {
	repo         scheduleEventRepository
	courses      courseFinder
	students     studentLister
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
	location     *time.Location
	defaultLimit int
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(repo scheduleEventRepository, courses courseFinder, students studentLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger, location *time.Location, defaultLimit int) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	if defaultLimit <= 0 {
		defaultLimit = 500
	}
	return &ScheduleService{
		repo:         repo,
		courses:      courses,
		students:     students,
		cache:        cache,
		validator:    validate,
		logger:       logger,
		location:     location,
		defaultLimit: defaultLimit,
	}
}

// List returns events, latest first unless another sort is requested.
func (s *ScheduleService) List(ctx context.Context, filter EventFilter) ([]models.ScheduleEvent, *models.Pagination, error) {
	list := applyListDefaults(filter.ListFilter, "-date_time", s.defaultLimit)

	var (
		from, to time.Time
		ranged   bool
	)
	switch {
	case filter.Day != "":
		day, err := time.ParseInLocation("2006-01-02", filter.Day, s.location)
		if err != nil {
			return nil, nil, validationError(err, "day must be YYYY-MM-DD")
		}
		from, to, ranged = day, day.AddDate(0, 0, 1), true
	case filter.Month != "":
		month, err := time.ParseInLocation("2006-01", filter.Month, s.location)
		if err != nil {
			return nil, nil, validationError(err, "month must be YYYY-MM")
		}
		from, to, ranged = month, month.AddDate(0, 1, 0), true
	}

	fetchLimit := list.Limit
	if ranged {
		fetchLimit = 0
	}
	events, err := s.repo.List(ctx, list.Sort, fetchLimit)
	if err != nil {
		return nil, nil, internalError(err, "failed to list events")
	}
	if ranged {
		filtered := make([]models.ScheduleEvent, 0, len(events))
		for _, event := range events {
			if !event.DateTime.Before(from) && event.DateTime.Before(to) {
				filtered = append(filtered, event)
			}
		}
		events = filtered
		if len(events) > list.Limit {
			events = events[:list.Limit]
		}
	}
	return events, &models.Pagination{Sort: list.Sort, Limit: list.Limit, TotalCount: len(events)}, nil
}

// Get returns one event.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleEvent, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "event not found", "failed to load event")
	}
	return event, nil
}

// Create schedules a class. Course name and colour are copied onto the event
// and every attendee must be enrolled in the course.
func (s *ScheduleService) Create(ctx context.Context, req EventRequest) (*models.ScheduleEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid event payload")
	}
	course, err := s.loadCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.resolveAttendees(ctx, course.ID, req.Attendees, nil)
	if err != nil {
		return nil, err
	}
	event := &models.ScheduleEvent{
		CourseID:    course.ID,
		CourseName:  course.Name,
		CourseColor: course.Color(),
		DateTime:    req.DateTime.UTC(),
		Note:        req.Note,
		Attendees:   attendees,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, internalError(err, "failed to create event")
	}
	s.cache.InvalidateOverview(ctx)
	s.logger.Info("event created",
		zap.String("event_id", event.ID),
		zap.String("course_id", event.CourseID),
		zap.Int("attendees", len(event.Attendees)),
	)
	return event, nil
}

// Update reschedules an event and replaces its roster. Students already on
// the roster keep their mark unless the request sets one.
func (s *ScheduleService) Update(ctx context.Context, id string, req EventRequest) (*models.ScheduleEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid event payload")
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "event not found", "failed to load event")
	}
	course, err := s.loadCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.resolveAttendees(ctx, course.ID, req.Attendees, event.Attendees)
	if err != nil {
		return nil, err
	}
	event.CourseID = course.ID
	event.CourseName = course.Name
	event.CourseColor = course.Color()
	event.DateTime = req.DateTime.UTC()
	event.Note = req.Note
	event.Attendees = attendees
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, loadError(err, "event not found", "failed to update event")
	}
	s.cache.InvalidateOverview(ctx)
	return event, nil
}

// MarkAttendance sets the status of one student on an event roster.
func (s *ScheduleService) MarkAttendance(ctx context.Context, eventID, studentID string, req AttendanceMarkRequest) (*models.ScheduleEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance status")
	}
	status, err := models.ParseAttendanceStatus(req.Status)
	if err != nil {
		return nil, validationError(err, "invalid attendance status")
	}
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, loadError(err, "event not found", "failed to load event")
	}
	found := false
	for i := range event.Attendees {
		if event.Attendees[i].StudentID == studentID {
			event.Attendees[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not on the event roster")
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, loadError(err, "event not found", "failed to update attendance")
	}
	s.cache.InvalidateOverview(ctx)
	s.logger.Debug("attendance marked",
		zap.String("event_id", eventID),
		zap.String("student_id", studentID),
		zap.String("status", string(status)),
	)
	return event, nil
}

// Delete removes an event. Deleting an unknown id succeeds.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "event id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete event")
	}
	s.cache.InvalidateOverview(ctx)
	return nil
}

// EligibleStudents lists students enrolled in the course.
func (s *ScheduleService) EligibleStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, loadError(err, "course not found", "failed to load course")
	}
	students, err := s.students.List(ctx, "name", 0)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return accounting.EligibleStudents(students, courseID), nil
}

func (s *ScheduleService) loadCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course %s", id))
		}
		return nil, internalError(err, "failed to load course")
	}
	return course, nil
}

// resolveAttendees builds a roster from reqs, copying student names and
// keeping statuses from current where the request leaves them blank.
func (s *ScheduleService) resolveAttendees(ctx context.Context, courseID string, reqs []AttendeeRequest, current []models.Attendee) ([]models.Attendee, error) {
	attendees := make([]models.Attendee, 0, len(reqs))
	if len(reqs) == 0 {
		return attendees, nil
	}

	students, err := s.students.List(ctx, "", 0)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	byID := make(map[string]models.Student, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}
	previous := make(map[string]models.AttendanceStatus, len(current))
	for _, a := range current {
		previous[a.StudentID] = a.Status
	}

	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student %s listed twice", req.StudentID))
		}
		seen[req.StudentID] = struct{}{}

		student, ok := byID[req.StudentID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown student %s", req.StudentID))
		}
		if _, enrolled := student.EnrollmentFor(courseID); !enrolled {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not enrolled in course %s", student.ID, courseID))
		}

		status := models.AttendanceStatusPending
		if prev, ok := previous[student.ID]; ok {
			status = prev
		}
		if req.Status != "" {
			parsed, err := models.ParseAttendanceStatus(req.Status)
			if err != nil {
				return nil, validationError(err, "invalid attendance status")
			}
			status = parsed
		}
		attendees = append(attendees, models.Attendee{
			StudentID:   student.ID,
			StudentName: student.Name,
			Status:      status,
		})
	}
	return attendees, nil
}
