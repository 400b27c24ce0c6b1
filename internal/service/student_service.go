package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/internal/models"
	"github.com/noah-isme/coursebook-api/internal/repository"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, sortField string, limit int) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentRequest is one purchase line of a student payload. A missing
// TotalPurchased defaults to one session.
type EnrollmentRequest struct {
	CourseID       string `json:"course_id" validate:"required"`
	TotalPurchased *int   `json:"total_purchased" validate:"omitempty,min=0"`
}

// StudentRequest holds the payload for creating or updating a student.
type StudentRequest struct {
	Name        string              `json:"name" validate:"required,max=120"`
	Phone       string              `json:"phone" validate:"max=40"`
	Email       string              `json:"email" validate:"omitempty,email"`
	Note        string              `json:"note" validate:"max=2000"`
	Enrollments []EnrollmentRequest `json:"enrollments" validate:"dive"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo         studentRepository
	courses      courseFinder
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
	defaultLimit int
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, courses courseFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger, defaultLimit int) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &StudentService{repo: repo, courses: courses, cache: cache, validator: validate, logger: logger, defaultLimit: defaultLimit}
}

// List returns students, newest first unless another sort is requested.
func (s *StudentService) List(ctx context.Context, filter models.ListFilter) ([]models.Student, *models.Pagination, error) {
	filter = applyListDefaults(filter, "-created_date", s.defaultLimit)
	students, err := s.repo.List(ctx, filter.Sort, filter.Limit)
	if err != nil {
		return nil, nil, internalError(err, "failed to list students")
	}
	return students, &models.Pagination{Sort: filter.Sort, Limit: filter.Limit, TotalCount: len(students)}, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create registers a new student with their enrollments.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	enrollments, err := s.resolveEnrollments(ctx, req.Enrollments)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Note:        req.Note,
		Enrollments: enrollments,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, internalError(err, "failed to create student")
	}
	s.cache.InvalidateOverview(ctx)
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.Int("enrollments", len(enrollments)))
	return student, nil
}

// Update replaces a student's details and enrollments.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "student not found", "failed to load student")
	}
	enrollments, err := s.resolveEnrollments(ctx, req.Enrollments)
	if err != nil {
		return nil, err
	}
	student.Name = req.Name
	student.Phone = req.Phone
	student.Email = req.Email
	student.Note = req.Note
	student.Enrollments = enrollments
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, loadError(err, "student not found", "failed to update student")
	}
	s.cache.InvalidateOverview(ctx)
	return student, nil
}

// Delete removes a student. Deleting an unknown id succeeds.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete student")
	}
	s.cache.InvalidateOverview(ctx)
	return nil
}

// resolveEnrollments checks each course exists, copies its name and rejects
// a second purchase line for the same course.
func (s *StudentService) resolveEnrollments(ctx context.Context, reqs []EnrollmentRequest) ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req.CourseID]; dup {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("duplicate enrollment for course %s", req.CourseID))
		}
		seen[req.CourseID] = struct{}{}

		course, err := s.courses.FindByID(ctx, req.CourseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course %s", req.CourseID))
			}
			return nil, internalError(err, "failed to load course")
		}
		total := 1
		if req.TotalPurchased != nil {
			total = *req.TotalPurchased
		}
		enrollments = append(enrollments, models.Enrollment{
			CourseID:       course.ID,
			CourseName:     course.Name,
			TotalPurchased: total,
		})
	}
	return enrollments, nil
}
