package repository

import (
	"context"

	"github.com/noah-isme/coursebook-api/internal/models"
)

// ScheduleEventRepository persists class events with their attendee rosters.
type ScheduleEventRepository struct {
	events collection[models.ScheduleEvent]
}

// NewScheduleEventRepository constructs the repository.
func NewScheduleEventRepository(store *DocumentStore) *ScheduleEventRepository {
	return &ScheduleEventRepository{events: collection[models.ScheduleEvent]{
		store:     store,
		kind:      KindEvents,
		normalize: models.ScheduleEvent.Normalize,
	}}
}

// List returns events ordered by sortField.
func (r *ScheduleEventRepository) List(ctx context.Context, sortField string, limit int) ([]models.ScheduleEvent, error) {
	return r.events.list(ctx, sortField, limit)
}

// FindByID returns an event or ErrNotFound.
func (r *ScheduleEventRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEvent, error) {
	event, err := r.events.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create stores event and fills its generated fields.
func (r *ScheduleEventRepository) Create(ctx context.Context, event *models.ScheduleEvent) error {
	created, err := r.events.create(ctx, event.Normalize())
	if err != nil {
		return err
	}
	*event = created
	return nil
}

// Update overwrites the stored fields of event.
func (r *ScheduleEventRepository) Update(ctx context.Context, event *models.ScheduleEvent) error {
	updated, err := r.events.update(ctx, event.ID, event.Normalize())
	if err != nil {
		return err
	}
	*event = updated
	return nil
}

// Delete removes an event.
func (r *ScheduleEventRepository) Delete(ctx context.Context, id string) error {
	return r.events.delete(ctx, id)
}
