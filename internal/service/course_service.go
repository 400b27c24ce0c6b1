package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/internal/models"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, sortField string, limit int) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseRequest holds the payload for creating or updating a course.
type CourseRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	ColorHex    string `json:"color_hex" validate:"omitempty,hexcolor"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo         courseRepository
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
	defaultLimit int
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, defaultLimit int) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger, defaultLimit: defaultLimit}
}

// List returns courses, newest first unless another sort is requested.
func (s *CourseService) List(ctx context.Context, filter models.ListFilter) ([]models.Course, *models.Pagination, error) {
	filter = applyListDefaults(filter, "-created_date", s.defaultLimit)
	courses, err := s.repo.List(ctx, filter.Sort, filter.Limit)
	if err != nil {
		return nil, nil, internalError(err, "failed to list courses")
	}
	return courses, &models.Pagination{Sort: filter.Sort, Limit: filter.Limit, TotalCount: len(courses)}, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "course not found", "failed to load course")
	}
	return course, nil
}

// Create registers a new course. An empty colour falls back to the default.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		ColorHex:    colorOrDefault(req.ColorHex),
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, internalError(err, "failed to create course")
	}
	s.cache.InvalidateOverview(ctx)
	s.logger.Info("course created", zap.String("course_id", course.ID))
	return course, nil
}

// Update changes the display fields of a course. Names already copied into
// enrollments and events are left as recorded.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "course not found", "failed to load course")
	}
	course.Name = req.Name
	course.Description = req.Description
	course.ColorHex = colorOrDefault(req.ColorHex)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, loadError(err, "course not found", "failed to update course")
	}
	s.cache.InvalidateOverview(ctx)
	return course, nil
}

// Delete removes a course. Deleting an unknown id succeeds.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete course")
	}
	s.cache.InvalidateOverview(ctx)
	return nil
}

func colorOrDefault(color string) string {
	if color == "" {
		return models.DefaultCourseColor
	}
	return color
}
