package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "course not found"))

	appErr := FromError(wrapped)

	assert.Equal(t, ErrNotFound.Code, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "course not found", appErr.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("disk full")

	appErr := FromError(cause)

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, cause)
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "name is required")

	assert.Equal(t, "name is required", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestErrorsIsMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("redis get: %w", ErrCacheMiss)

	assert.True(t, errors.Is(err, ErrCacheMiss))
}
