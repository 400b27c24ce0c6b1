package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()

	_, err := backend.Get(ctx, "app_courses")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, backend.Set(ctx, "app_courses", []byte(`[{"id":"c1"}]`)))

	value, err := backend.Get(ctx, "app_courses")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"c1"}]`, string(value))
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()
	input := []byte("abc")
	require.NoError(t, backend.Set(ctx, "k", input))
	input[0] = 'z'

	value, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	value[1] = 'z'

	again, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
