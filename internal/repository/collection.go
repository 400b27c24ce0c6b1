package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// collection decodes documents of one kind into T.
type collection[T any] struct {
	store     *DocumentStore
	kind      string
	normalize func(T) T
}

func (c collection[T]) list(ctx context.Context, sortField string, limit int) ([]T, error) {
	docs, err := c.store.List(ctx, c.kind, sortField, limit)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (c collection[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.store.Get(ctx, c.kind, id)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

func (c collection[T]) create(ctx context.Context, item T) (T, error) {
	var zero T
	fields, err := encodeFields(item)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", c.kind, err)
	}
	doc, err := c.store.Create(ctx, c.kind, fields)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

func (c collection[T]) update(ctx context.Context, id string, item T) (T, error) {
	var zero T
	fields, err := encodeFields(item)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", c.kind, err)
	}
	doc, err := c.store.Update(ctx, c.kind, id, fields)
	if err != nil {
		return zero, err
	}
	return c.decode(doc)
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.kind, id)
}

func (c collection[T]) decode(doc Document) (T, error) {
	var item T
	raw, err := json.Marshal(doc)
	if err != nil {
		return item, fmt.Errorf("encode %s %s: %w", c.kind, doc.ID(), err)
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("decode %s %s: %w", c.kind, doc.ID(), err)
	}
	if c.normalize != nil {
		item = c.normalize(item)
	}
	return item, nil
}

// encodeFields turns a model into a document without its store-managed keys.
func encodeFields(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields Document
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "id")
	delete(fields, "created_date")
	return fields, nil
}
