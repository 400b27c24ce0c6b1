package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursebook-api/pkg/kvstore"
)

func newTestStore(t *testing.T) (*DocumentStore, *kvstore.MemoryBackend) {
	t.Helper()
	backend := kvstore.NewMemory()
	store := NewDocumentStore(backend, "app_", nil)
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	seq := 0
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	store.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return store, backend
}

type failingBackend struct{ err error }

func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Set(context.Context, string, []byte) error   { return f.err }
func (f failingBackend) Ping(context.Context) error                  { return f.err }

func TestDocumentStoreCreatePrependsAndStamps(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, KindCourses, Document{"name": "Piano", "id": "ignored"})
	require.NoError(t, err)
	second, err := store.Create(ctx, KindCourses, Document{"name": "Violin"})
	require.NoError(t, err)

	assert.Equal(t, "id-1", first.ID())
	assert.Equal(t, "2024-05-01T08:00:01.000Z", first["created_date"])
	assert.Equal(t, "id-2", second.ID())

	docs, err := store.List(ctx, KindCourses, "", 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Violin", docs[0]["name"])
	assert.Equal(t, "Piano", docs[1]["name"])

	raw, err := backend.Get(ctx, "app_courses")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"Violin"`)
}

func TestDocumentStoreListSortsStablyAndLimits(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, fields := range []Document{
		{"name": "a", "rank": 2, "date_time": "2024-05-03T10:00:00.000Z"},
		{"name": "b", "rank": 1, "date_time": "2024-05-01T10:00:00.000Z"},
		{"name": "c", "rank": 2, "date_time": "2024-05-02T10:00:00+08:00"},
		{"name": "d", "rank": 1, "date_time": "2024-05-04T00:00:00.000Z"},
	} {
		_, err := store.Create(ctx, KindEvents, fields)
		require.NoError(t, err)
	}

	names := func(docs []Document) []string {
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			out = append(out, d["name"].(string))
		}
		return out
	}

	docs, err := store.List(ctx, KindEvents, "rank", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "c", "a"}, names(docs))

	docs, err = store.List(ctx, KindEvents, "-rank", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "d", "b"}, names(docs))

	docs, err = store.List(ctx, KindEvents, "-date_time", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a"}, names(docs))

	docs, err = store.List(ctx, KindEvents, "-created_date", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, names(docs))
}

func TestDocumentStoreListSortsDocumentsMissingTheField(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, fields := range []Document{{"name": "b"}, {}, {"name": "a"}} {
		_, err := store.Create(ctx, KindCourses, fields)
		require.NoError(t, err)
	}

	docs, err := store.List(ctx, KindCourses, "name", 0)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Nil(t, docs[0]["name"])
	assert.Equal(t, "a", docs[1]["name"])
	assert.Equal(t, "b", docs[2]["name"])

	docs, err = store.List(ctx, KindCourses, "-name", 0)
	require.NoError(t, err)
	assert.Equal(t, "b", docs[0]["name"])
	assert.Equal(t, "a", docs[1]["name"])
	assert.Nil(t, docs[2]["name"])
}

func TestDocumentStoreListMissingCollectionIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	docs, err := store.List(context.Background(), KindStudents, "-created_date", 10)

	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentStoreUpdateMerges(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, KindCourses, Document{"name": "Piano", "color_hex": "#fff"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, KindCourses, created.ID(), Document{"name": "Grand Piano", "id": "other", "created_date": "x"})
	require.NoError(t, err)

	assert.Equal(t, "Grand Piano", updated["name"])
	assert.Equal(t, "#fff", updated["color_hex"])
	assert.Equal(t, created.ID(), updated.ID())
	assert.Equal(t, created["created_date"], updated["created_date"])

	fetched, err := store.Get(ctx, KindCourses, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "Grand Piano", fetched["name"])
}

func TestDocumentStoreUpdateMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Update(context.Background(), KindCourses, "missing", Document{"name": "x"})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentStoreDeleteIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, KindCourses, Document{"name": "Piano"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, KindCourses, created.ID()))
	require.NoError(t, store.Delete(ctx, KindCourses, created.ID()))
	require.NoError(t, store.Delete(ctx, KindStudents, "never-existed"))

	_, err = store.Get(ctx, KindCourses, created.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentStoreCorruptCollection(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "app_students", []byte("{not json")))

	_, err := store.List(ctx, KindStudents, "", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode students")
}

func TestDocumentStoreObserverAndBackendErrors(t *testing.T) {
	boom := errors.New("boom")
	store := NewDocumentStore(failingBackend{err: boom}, "app_", nil)

	var seen []string
	store.SetObserver(func(kind, operation string, _ time.Duration, err error) {
		seen = append(seen, kind+":"+operation)
		assert.ErrorIs(t, err, boom)
	})

	_, err := store.List(context.Background(), KindCourses, "", 0)
	require.ErrorIs(t, err, boom)
	_, err = store.Create(context.Background(), KindCourses, Document{})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"courses:list", "courses:create"}, seen)
	assert.ErrorIs(t, store.Ping(context.Background()), boom)
}

func TestCompareValues(t *testing.T) {
	assert.Equal(t, -1, compareValues("a", "b"))
	assert.Equal(t, 1, compareValues(2.0, 1.0))
	assert.Equal(t, 1, compareValues("a", 1.0))
	assert.Equal(t, -1, compareValues(false, true))
	assert.Equal(t, -1, compareValues(nil, "a"))
	assert.Equal(t, 1, compareValues("a", nil))
	assert.Equal(t, 0, compareValues(nil, nil))
	assert.Equal(t, -1, compareValues("2024-05-02T03:00:00Z", "a"))
	assert.Equal(t, 1, compareValues("2024-05-02T03:00:00Z", "2024-05-02T10:00:00+08:00"))
}
