package repository

import (
	"context"

	"github.com/noah-isme/coursebook-api/internal/models"
)

// StudentRepository persists students and their embedded enrollments.
type StudentRepository struct {
	students collection[models.Student]
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(store *DocumentStore) *StudentRepository {
	return &StudentRepository{students: collection[models.Student]{
		store:     store,
		kind:      KindStudents,
		normalize: models.Student.Normalize,
	}}
}

// List returns students ordered by sortField.
func (r *StudentRepository) List(ctx context.Context, sortField string, limit int) ([]models.Student, error) {
	return r.students.list(ctx, sortField, limit)
}

// FindByID returns a student or ErrNotFound.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, err := r.students.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create stores student and fills its generated fields.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	created, err := r.students.create(ctx, student.Normalize())
	if err != nil {
		return err
	}
	*student = created
	return nil
}

// Update overwrites the stored fields of student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	updated, err := r.students.update(ctx, student.ID, student.Normalize())
	if err != nil {
		return err
	}
	*student = updated
	return nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.students.delete(ctx, id)
}
