package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/pkg/kvstore"
)

// ErrNotFound signals that no record with the requested id exists.
var ErrNotFound = errors.New("record not found")

// CreatedDateLayout is the timestamp format written into created_date.
const CreatedDateLayout = "2006-01-02T15:04:05.000Z"

// Record kinds persisted by the document store.
const (
	KindCourses    = "courses"
	KindStudents   = "students"
	KindEvents     = "events"
	KindReportJobs = "report_jobs"
)

// Document is one stored record as decoded from JSON.
type Document map[string]interface{}

// ID returns the document identifier, or an empty string.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// StoreObserver receives the outcome of every store operation.
type StoreObserver func(kind, operation string, duration time.Duration, err error)

// DocumentStore keeps each record kind as a JSON array under "<prefix><kind>".
// Writes are read-modify-write cycles over the whole array and are serialised
// within the process.
type DocumentStore struct {
	backend  kvstore.Backend
	prefix   string
	logger   *zap.Logger
	observer StoreObserver
	now      func() time.Time
	newID    func() string
	mu       sync.Mutex
}

// NewDocumentStore constructs a store over backend.
func NewDocumentStore(backend kvstore.Backend, prefix string, logger *zap.Logger) *DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentStore{
		backend: backend,
		prefix:  prefix,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetObserver installs a hook invoked after every operation.
func (s *DocumentStore) SetObserver(observer StoreObserver) {
	s.observer = observer
}

// Ping checks the backend.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// List returns records of kind ordered by sortField and capped at limit.
// A leading "-" on sortField sorts descending; limit <= 0 returns everything.
func (s *DocumentStore) List(ctx context.Context, kind, sortField string, limit int) (docs []Document, err error) {
	defer s.observe(kind, "list", time.Now(), &err)

	docs, err = s.load(ctx, kind)
	if err != nil {
		return nil, err
	}
	sortDocuments(docs, sortField)
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Get returns the record of kind with id, or ErrNotFound.
func (s *DocumentStore) Get(ctx context.Context, kind, id string) (doc Document, err error) {
	defer s.observe(kind, "get", time.Now(), &err)

	docs, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID() == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

// Create stores fields as a new record with a generated id and created_date.
// The record is placed at the head of the collection.
func (s *DocumentStore) Create(ctx context.Context, kind string, fields Document) (doc Document, err error) {
	defer s.observe(kind, "create", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}

	doc = make(Document, len(fields)+2)
	for k, v := range fields {
		doc[k] = v
	}
	doc["id"] = s.newID()
	doc["created_date"] = s.now().UTC().Format(CreatedDateLayout)

	docs = append([]Document{doc}, docs...)
	if err := s.save(ctx, kind, docs); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update shallow-merges fields into the record with id. The id and
// created_date of the record never change.
func (s *DocumentStore) Update(ctx context.Context, kind, id string, fields Document) (doc Document, err error) {
	defer s.observe(kind, "update", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}

	for i, existing := range docs {
		if existing.ID() != id {
			continue
		}
		merged := make(Document, len(existing)+len(fields))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range fields {
			if k == "id" || k == "created_date" {
				continue
			}
			merged[k] = v
		}
		docs[i] = merged
		if err := s.save(ctx, kind, docs); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, ErrNotFound
}

// Delete removes the record with id. Deleting a missing record succeeds.
func (s *DocumentStore) Delete(ctx context.Context, kind, id string) (err error) {
	defer s.observe(kind, "delete", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(ctx, kind)
	if err != nil {
		return err
	}

	kept := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.ID() != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(docs) {
		return nil
	}
	return s.save(ctx, kind, kept)
}

func (s *DocumentStore) key(kind string) string {
	return s.prefix + kind
}

func (s *DocumentStore) load(ctx context.Context, kind string) ([]Document, error) {
	raw, err := s.backend.Get(ctx, s.key(kind))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []Document{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}

	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func (s *DocumentStore) save(ctx context.Context, kind string, docs []Document) error {
	payload, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := s.backend.Set(ctx, s.key(kind), payload); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	return nil
}

func (s *DocumentStore) observe(kind, operation string, started time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn("document store operation failed",
			zap.String("kind", kind),
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	if s.observer != nil {
		s.observer(kind, operation, time.Since(started), err)
	}
}

func sortDocuments(docs []Document, sortField string) {
	if sortField == "" {
		return
	}
	desc := strings.HasPrefix(sortField, "-")
	field := strings.TrimPrefix(sortField, "-")
	if field == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		cmp := compareValues(docs[i][field], docs[j][field])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// Value classes in ascending order. Missing and null values sort before
// everything else so the ordering stays total over mixed documents.
const (
	classNull = iota
	classBool
	classNumber
	classTime
	classString
	classOther
)

func valueClass(v interface{}) int {
	switch tv := v.(type) {
	case nil:
		return classNull
	case bool:
		return classBool
	case float64:
		return classNumber
	case string:
		if _, err := time.Parse(time.RFC3339Nano, tv); err == nil {
			return classTime
		}
		return classString
	default:
		return classOther
	}
}

// compareValues orders two decoded JSON values. Values of different classes
// compare by class; RFC 3339 timestamps compare chronologically.
func compareValues(a, b interface{}) int {
	ca, cb := valueClass(a), valueClass(b)
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}
	switch ca {
	case classBool:
		av, bv := a.(bool), b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case classNumber:
		av, bv := a.(float64), b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case classTime:
		at, _ := time.Parse(time.RFC3339Nano, a.(string))
		bt, _ := time.Parse(time.RFC3339Nano, b.(string))
		return at.Compare(bt)
	case classString:
		return strings.Compare(a.(string), b.(string))
	default:
		return 0
	}
}
