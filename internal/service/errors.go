package service

import (
	"errors"

	"github.com/noah-isme/coursebook-api/internal/models"
	"github.com/noah-isme/coursebook-api/internal/repository"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
)

// loadError maps a repository lookup failure to an API error.
func loadError(err error, notFound, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return internalError(err, action)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// applyListDefaults fills missing sort and limit values.
func applyListDefaults(filter models.ListFilter, sort string, limit int) models.ListFilter {
	if filter.Sort == "" {
		filter.Sort = sort
	}
	if filter.Limit <= 0 {
		filter.Limit = limit
	}
	return filter
}
