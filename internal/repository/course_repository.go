package repository

import (
	"context"

	"github.com/noah-isme/coursebook-api/internal/models"
)

// CourseRepository persists courses in the document store.
type CourseRepository struct {
	courses collection[models.Course]
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(store *DocumentStore) *CourseRepository {
	return &CourseRepository{courses: collection[models.Course]{store: store, kind: KindCourses}}
}

// List returns courses ordered by sortField.
func (r *CourseRepository) List(ctx context.Context, sortField string, limit int) ([]models.Course, error) {
	return r.courses.list(ctx, sortField, limit)
}

// FindByID returns a course or ErrNotFound.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := r.courses.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Create stores course and fills its generated fields.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	created, err := r.courses.create(ctx, *course)
	if err != nil {
		return err
	}
	*course = created
	return nil
}

// Update overwrites the stored fields of course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	updated, err := r.courses.update(ctx, course.ID, *course)
	if err != nil {
		return err
	}
	*course = updated
	return nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return r.courses.delete(ctx, id)
}
