package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gbnam453/nalbom-admin/internal/model"
)

// Resource is one REST collection of the remote API
type Resource[T model.Record] struct {
	c    *Client
	path string
}

func (r *Resource[T]) Path() string {
	return "/" + r.path
}

// List fetches every record, newest first
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := r.c.doJSON(ctx, http.MethodGet, r.path, nil, &records); err != nil {
		return nil, err
	}
	model.SortNewestFirst(records)
	return records, nil
}

// Find fetches the list and picks one record. The API has no single-record
// endpoint.
func (r *Resource[T]) Find(ctx context.Context, id int64) (T, error) {
	var zero T
	records, err := r.List(ctx)
	if err != nil {
		return zero, err
	}
	rec, ok := model.FindByID(records, id)
	if !ok {
		return zero, fmt.Errorf("%s/%d: %w", r.path, id, ErrNotFound)
	}
	return rec, nil
}

// Create validates rec and posts it. The id field must be zero.
func (r *Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T
	if rec.GetID() != 0 {
		return created, fmt.Errorf("create %s: record already has id %d", r.path, rec.GetID())
	}
	if err := rec.Validate(); err != nil {
		return created, err
	}
	if err := r.c.doJSON(ctx, http.MethodPost, r.path, rec, &created); err != nil {
		return created, err
	}
	return created, nil
}

// Update replaces the record with the given id. rec should carry the
// same id so the full record is sent.
func (r *Resource[T]) Update(ctx context.Context, id int64, rec T) (T, error) {
	var updated T
	if rec.GetID() != 0 && rec.GetID() != id {
		return updated, fmt.Errorf("update %s/%d: body carries id %d", r.path, id, rec.GetID())
	}
	if err := rec.Validate(); err != nil {
		return updated, err
	}
	if err := r.c.doJSON(ctx, http.MethodPut, r.path+"/"+itoa(id), rec, &updated); err != nil {
		return updated, err
	}
	return updated, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.c.doJSON(ctx, http.MethodDelete, r.path+"/"+itoa(id), nil, nil)
}
