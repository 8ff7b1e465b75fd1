// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"lensfolio/internal/models"
	"lensfolio/internal/slug"
)

// categoryStore is the subset of store.CategoryStore the repository uses.
type categoryStore interface {
	List() ([]models.Category, error)
	FindByID(id uuid.UUID) (*models.Category, error)
	Create(name, slug string) (*models.Category, error)
	Rename(id uuid.UUID, name, slug string) (*models.Category, error)
	Delete(id uuid.UUID) error
}

// CategoryRepository maintains the category cache ordered by creation
// time ascending and enforces slug derivation and uniqueness at the
// application layer.
type CategoryRepository struct {
	store categoryStore

	mu         sync.RWMutex
	categories []models.Category
	loading    bool
	lastErr    string
	subs       []func()
}

// NewCategoryRepository creates a category repository over the given store.
func NewCategoryRepository(store categoryStore) *CategoryRepository {
	return &CategoryRepository{store: store, loading: true}
}

// Subscribe registers a callback invoked after every successful cache
// mutation.
func (r *CategoryRepository) Subscribe(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

func (r *CategoryRepository) notify() {
	r.mu.RLock()
	subs := make([]func(), len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// Categories returns a copy of the cached categories, oldest first.
func (r *CategoryRepository) Categories() []models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// BySlug returns the cached category with the given slug, or nil.
func (r *CategoryRepository) BySlug(s string) *models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.categories {
		if r.categories[i].Slug == s {
			c := r.categories[i]
			return &c
		}
	}
	return nil
}

// Get returns the category with the given ID, preferring the cache and
// falling back to the store so lookups work before the initial List has
// settled. Returns nil when the category does not exist.
func (r *CategoryRepository) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.RLock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			c := r.categories[i]
			r.mu.RUnlock()
			return &c, nil
		}
	}
	r.mu.RUnlock()

	c, err := r.store.FindByID(id)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	return c, nil
}

// Loading reports whether the initial List has not yet settled.
func (r *CategoryRepository) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Err returns the message of the most recent failed operation, or the
// empty string. It persists until ClearErr is called.
func (r *CategoryRepository) Err() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// ClearErr resets the error string.
func (r *CategoryRepository) ClearErr() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = ""
}

func (r *CategoryRepository) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err.Error()
}

// List fetches all categories oldest-first and replaces the cache. On
// failure the previous cache contents stay intact and a *FetchError is
// returned.
func (r *CategoryRepository) List(ctx context.Context) error {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	items, err := r.store.List()

	r.mu.Lock()
	r.loading = false
	if err != nil {
		ferr := &FetchError{Err: err}
		r.lastErr = ferr.Error()
		r.mu.Unlock()
		return ferr
	}
	r.categories = items
	r.mu.Unlock()

	r.notify()
	return nil
}

// Add derives the slug from name, rejects collisions against the cached
// categories, creates the record, and appends it to the cache (ascending
// creation order). The uniqueness check runs against the local cache
// only, so two concurrent admins can still race a duplicate in.
func (r *CategoryRepository) Add(ctx context.Context, name string) (*models.Category, error) {
	s := slug.Derive(name)

	r.mu.RLock()
	for i := range r.categories {
		if r.categories[i].Slug == s {
			r.mu.RUnlock()
			derr := &DuplicateCategoryError{Slug: s}
			r.setErr(derr)
			return nil, derr
		}
	}
	r.mu.RUnlock()

	created, err := r.store.Create(name, s)
	if err != nil {
		cerr := &CreateError{Err: err}
		r.setErr(cerr)
		return nil, cerr
	}

	r.mu.Lock()
	r.categories = append(r.categories, *created)
	r.mu.Unlock()

	r.notify()
	return created, nil
}

// Rename re-derives the slug from newName and updates both fields on the
// record and in the cache. It does NOT check the new slug for collisions
// (asymmetry with Add, kept pending a product decision) and does NOT
// cascade the slug change to photos referencing the old slug.
func (r *CategoryRepository) Rename(ctx context.Context, id uuid.UUID, newName string) (*models.Category, error) {
	s := slug.Derive(newName)

	renamed, err := r.store.Rename(id, newName, s)
	if err != nil {
		uerr := &UpdateError{Err: err}
		r.setErr(uerr)
		return nil, uerr
	}
	if renamed == nil {
		uerr := &UpdateError{Err: fmt.Errorf("category %s not found", id)}
		r.setErr(uerr)
		return nil, uerr
	}

	r.mu.Lock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories[i] = *renamed
			break
		}
	}
	r.mu.Unlock()

	r.notify()
	return renamed, nil
}

// Delete removes the category record and drops it from the cache. The
// repository performs no referencing-photo guard; that check belongs to
// the admin workflow, which blocks deletion with a user-visible count.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.Delete(id); err != nil {
		derr := &DeleteError{Err: err}
		r.setErr(derr)
		return derr
	}

	r.mu.Lock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notify()
	return nil
}
