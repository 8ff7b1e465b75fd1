// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package repo implements the data layer between the HTTP handlers and
// the remote persistence services. Each repository owns an ordered
// in-memory cache of its records plus the remote stores; every mutating
// operation performs the remote call first and applies the local mutation
// only on success, so the cache always reflects the most recent completed
// write. Concurrent writers to the same record race with last-write-wins
// semantics decided by whichever remote write lands last.
package repo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lensfolio/internal/models"
)

// FeaturedLimit caps the curated subset shown on the landing page, no
// matter how many photos carry the featured flag.
const FeaturedLimit = 6

// photoStore is the subset of store.PhotoStore the repository uses.
type photoStore interface {
	List() ([]models.Photo, error)
	FindByID(id uuid.UUID) (*models.Photo, error)
	Create(p *models.Photo) (*models.Photo, error)
	Update(id uuid.UUID, upd *models.PhotoUpdate) (*models.Photo, error)
	Delete(id uuid.UUID) (*models.Photo, error)
}

// BlobStore is the subset of storage.Client the repository uses.
// Exported so main can substitute a disabled implementation when object
// storage is not configured.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// accessDeniedFunc classifies a blob error as an authorization failure.
// Injected so unit tests don't need real S3 error values.
type accessDeniedFunc func(error) bool

// UploadInput carries everything needed to store one photo: the raw
// bytes, an optional pre-generated thumbnail, and the user metadata. The
// caller validates MIME type and size before invoking Upload.
type UploadInput struct {
	Data         []byte
	Thumb        []byte // optional JPEG thumbnail; uploaded best-effort
	ContentType  string
	OriginalName string

	Title       string
	Description string
	Category    string // category slug, not display name
}

// PhotoRepository maintains the photo cache ordered by creation time
// descending and mediates all CRUD against the record store and the blob
// store.
type PhotoRepository struct {
	store        photoStore
	blobs        BlobStore
	accessDenied accessDeniedFunc
	now          func() time.Time

	mu      sync.RWMutex
	photos  []models.Photo
	loading bool
	lastErr string
	subs    []func()
}

// NewPhotoRepository creates a photo repository over the given stores.
// accessDenied may be nil, in which case no error is treated as an
// authorization failure.
func NewPhotoRepository(store photoStore, blobs BlobStore, accessDenied accessDeniedFunc) *PhotoRepository {
	if accessDenied == nil {
		accessDenied = func(error) bool { return false }
	}
	return &PhotoRepository{
		store:        store,
		blobs:        blobs,
		accessDenied: accessDenied,
		now:          time.Now,
		loading:      true,
	}
}

// Subscribe registers a callback invoked after every successful cache
// mutation. Used to invalidate rendered-page caches.
func (r *PhotoRepository) Subscribe(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// notify runs outside the lock so subscribers may call back into the repo.
func (r *PhotoRepository) notify() {
	r.mu.RLock()
	subs := make([]func(), len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// Photos returns a copy of the cached photos, newest first.
func (r *PhotoRepository) Photos() []models.Photo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Photo, len(r.photos))
	copy(out, r.photos)
	return out
}

// Featured returns the curated landing-page subset: cached photos with
// the featured flag, in cache order, capped at FeaturedLimit.
func (r *PhotoRepository) Featured() []models.Photo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Photo
	for _, p := range r.photos {
		if p.Featured {
			out = append(out, p)
			if len(out) == FeaturedLimit {
				break
			}
		}
	}
	return out
}

// ByCategory returns cached photos whose category equals the given slug,
// or all photos when slug is empty.
func (r *PhotoRepository) ByCategory(slug string) []models.Photo {
	if slug == "" {
		return r.Photos()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Photo
	for _, p := range r.photos {
		if p.Category == slug {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the photo with the given ID, preferring the cache and
// falling back to the store so lookups work before the initial List has
// settled. Returns nil when the photo does not exist.
func (r *PhotoRepository) Get(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	r.mu.RLock()
	for i := range r.photos {
		if r.photos[i].ID == id {
			p := r.photos[i]
			r.mu.RUnlock()
			return &p, nil
		}
	}
	r.mu.RUnlock()

	p, err := r.store.FindByID(id)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	return p, nil
}

// Loading reports whether the initial List has not yet settled.
func (r *PhotoRepository) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Err returns the message of the most recent failed operation, or the
// empty string. It persists until ClearErr is called.
func (r *PhotoRepository) Err() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// ClearErr resets the error string.
func (r *PhotoRepository) ClearErr() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = ""
}

func (r *PhotoRepository) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err.Error()
}

// List fetches all photos ordered newest-first and replaces the cache.
// On failure the previous cache contents stay intact and a *FetchError
// is returned.
func (r *PhotoRepository) List(ctx context.Context) error {
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
	r.photos = items
	r.mu.Unlock()

	r.notify()
	return nil
}

// Upload stores the photo blob, resolves its public URL, creates the
// record, and prepends it to the cache. The blob key derives from the
// upload time and the original file name. A blob write that succeeds
// followed by a record write that fails leaves an orphaned blob with no
// automatic cleanup; the cache is never touched on failure.
func (r *PhotoRepository) Upload(ctx context.Context, in UploadInput) (*models.Photo, error) {
	key := fmt.Sprintf("photos/%d_%s", r.now().UnixMilli(), sanitizeFileName(in.OriginalName))

	if err := r.blobs.Upload(ctx, key, in.ContentType, bytes.NewReader(in.Data), int64(len(in.Data))); err != nil {
		uerr := &UploadError{Unauthorized: r.accessDenied(err), Err: err}
		r.setErr(uerr)
		return nil, uerr
	}

	// Thumbnail upload is best-effort; the original is already durable.
	var thumbKey *string
	if len(in.Thumb) > 0 {
		tk := thumbKeyFor(key)
		if err := r.blobs.Upload(ctx, tk, "image/jpeg", bytes.NewReader(in.Thumb), int64(len(in.Thumb))); err != nil {
			slog.Warn("thumbnail upload failed", "key", tk, "error", err)
		} else {
			thumbKey = &tk
		}
	}

	created, err := r.store.Create(&models.Photo{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    r.blobs.FileURL(key),
		FileName:    key,
		ThumbKey:    thumbKey,
		SizeBytes:   int64(len(in.Data)),
		ContentType: in.ContentType,
	})
	if err != nil {
		// The blob is already written: an orphan, accepted as a known gap.
		uerr := &UploadError{Err: err}
		r.setErr(uerr)
		return nil, uerr
	}

	r.mu.Lock()
	r.photos = append([]models.Photo{*created}, r.photos...)
	r.mu.Unlock()

	r.notify()
	return created, nil
}

// Update merges the given fields into the remote record and, on success,
// into the cached entry. A record missing remotely yields *UpdateError.
func (r *PhotoRepository) Update(ctx context.Context, id uuid.UUID, upd *models.PhotoUpdate) (*models.Photo, error) {
	updated, err := r.store.Update(id, upd)
	if err != nil {
		uerr := &UpdateError{Err: err}
		r.setErr(uerr)
		return nil, uerr
	}
	if updated == nil {
		uerr := &UpdateError{Err: fmt.Errorf("photo %s not found", id)}
		r.setErr(uerr)
		return nil, uerr
	}

	r.mu.Lock()
	for i := range r.photos {
		if r.photos[i].ID == id {
			r.photos[i] = *updated
			break
		}
	}
	r.mu.Unlock()

	r.notify()
	return updated, nil
}

// SetFeatured toggles the curated-subset flag. A convenience wrapper
// over Update restricted to the featured field.
func (r *PhotoRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Photo, error) {
	return r.Update(ctx, id, &models.PhotoUpdate{Featured: &featured})
}

// Delete removes the record, drops it from the cache, then deletes the
// blob if a file name is present. A blob delete failure after a
// successful record delete still returns *DeleteError, but the cache has
// already dropped the entry and the blob is orphaned.
func (r *PhotoRepository) Delete(ctx context.Context, photo models.Photo) error {
	deleted, err := r.store.Delete(photo.ID)
	if err != nil {
		derr := &DeleteError{Err: err}
		r.setErr(derr)
		return derr
	}
	if deleted == nil {
		derr := &DeleteError{Err: fmt.Errorf("photo %s not found", photo.ID)}
		r.setErr(derr)
		return derr
	}

	r.mu.Lock()
	for i := range r.photos {
		if r.photos[i].ID == photo.ID {
			r.photos = append(r.photos[:i], r.photos[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	r.notify()

	if deleted.ThumbKey != nil {
		if err := r.blobs.Delete(ctx, *deleted.ThumbKey); err != nil {
			slog.Warn("thumbnail blob delete failed", "key", *deleted.ThumbKey, "error", err)
		}
	}
	if deleted.FileName != "" {
		if err := r.blobs.Delete(ctx, deleted.FileName); err != nil {
			derr := &DeleteError{Err: err}
			r.setErr(derr)
			return derr
		}
	}

	return nil
}

// sanitizeFileName strips path separators and whitespace from an
// uploaded file name before it becomes part of a blob key.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

// thumbKeyFor derives the thumbnail key from the original blob key.
func thumbKeyFor(key string) string {
	ext := filepath.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb.jpg"
}
