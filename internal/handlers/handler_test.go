// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Most handler tests run against in-memory stores; the auth flow tests
// need PostgreSQL and Valkey and are skipped when either is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"lensfolio/internal/database"
	"lensfolio/internal/middleware"
	"lensfolio/internal/models"
	"lensfolio/internal/render"
	"lensfolio/internal/repo"
	"lensfolio/internal/session"
)

// memPhotoStore is an in-memory photo record store.
type memPhotoStore struct {
	mu     sync.Mutex
	photos []models.Photo

	createErr error
	deleteErr error
}

func (s *memPhotoStore) List() ([]models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Photo, len(s.photos))
	copy(out, s.photos)
	return out, nil
}

func (s *memPhotoStore) FindByID(id uuid.UUID) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.photos {
		if s.photos[i].ID == id {
			out := s.photos[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memPhotoStore) Create(p *models.Photo) (*models.Photo, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *p
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	s.photos = append([]models.Photo{stored}, s.photos...)
	return &stored, nil
}

func (s *memPhotoStore) Update(id uuid.UUID, upd *models.PhotoUpdate) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.photos {
		if s.photos[i].ID == id {
			upd.Apply(&s.photos[i])
			out := s.photos[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memPhotoStore) Delete(id uuid.UUID) (*models.Photo, error) {
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.photos {
		if s.photos[i].ID == id {
			out := s.photos[i]
			s.photos = append(s.photos[:i], s.photos[i+1:]...)
			return &out, nil
		}
	}
	return nil, nil
}

// memBlobStore is an in-memory object store.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	uploadErr error
}

func (s *memBlobStore) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = data
	return nil
}

func (s *memBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memBlobStore) FileURL(key string) string {
	return "https://blobs.test/" + key
}

// memCategoryStore is an in-memory category record store.
type memCategoryStore struct {
	mu   sync.Mutex
	cats []models.Category

	createErr error
	deleteErr error
}

func (s *memCategoryStore) List() ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.cats))
	copy(out, s.cats)
	return out, nil
}

func (s *memCategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cats {
		if s.cats[i].ID == id {
			out := s.cats[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memCategoryStore) Create(name, slug string) (*models.Category, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Category{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: time.Now()}
	s.cats = append(s.cats, c)
	return &c, nil
}

func (s *memCategoryStore) Rename(id uuid.UUID, name, slug string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cats {
		if s.cats[i].ID == id {
			s.cats[i].Name = name
			s.cats[i].Slug = slug
			out := s.cats[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memCategoryStore) Delete(id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cats {
		if s.cats[i].ID == id {
			s.cats = append(s.cats[:i], s.cats[i+1:]...)
			return nil
		}
	}
	return nil
}

// testEnv wires handlers over in-memory stores.
type testEnv struct {
	PhotoStore    *memPhotoStore
	BlobStore     *memBlobStore
	CategoryStore *memCategoryStore
	Photos        *repo.PhotoRepository
	Categories    *repo.CategoryRepository
	Renderer      *render.Renderer
	Admin         *Admin
	Public        *Public
}

// newTestEnv builds the full handler wiring with no external services.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	ps := &memPhotoStore{}
	bs := &memBlobStore{}
	cs := &memCategoryStore{}

	photos := repo.NewPhotoRepository(ps, bs, nil)
	categories := repo.NewCategoryRepository(cs)

	ctx := context.Background()
	if err := photos.List(ctx); err != nil {
		t.Fatalf("photos.List: %v", err)
	}
	if err := categories.List(ctx); err != nil {
		t.Fatalf("categories.List: %v", err)
	}

	return &testEnv{
		PhotoStore:    ps,
		BlobStore:     bs,
		CategoryStore: cs,
		Photos:        photos,
		Categories:    categories,
		Renderer:      renderer,
		Admin:         NewAdmin(renderer, nil, photos, categories),
		Public:        NewPublic(renderer, photos, categories, nil),
	}
}

// addCategory seeds a category through the repository.
func addCategory(t *testing.T, env *testEnv, name string) models.Category {
	t.Helper()
	c, err := env.Categories.Add(context.Background(), name)
	if err != nil {
		t.Fatalf("add category %q: %v", name, err)
	}
	return *c
}

// addPhoto seeds a photo through the repository with tiny fake bytes.
func addPhoto(t *testing.T, env *testEnv, title, category string, featured bool) models.Photo {
	t.Helper()
	p, err := env.Photos.Upload(context.Background(), repo.UploadInput{
		Data:         []byte("not-really-a-jpeg"),
		ContentType:  "image/jpeg",
		OriginalName: title + ".jpg",
		Title:        title,
		Description:  "seeded by test",
		Category:     category,
	})
	if err != nil {
		t.Fatalf("add photo %q: %v", title, err)
	}
	if featured {
		if _, err := env.Photos.SetFeatured(context.Background(), p.ID, true); err != nil {
			t.Fatalf("feature photo %q: %v", title, err)
		}
		p.Featured = true
	}
	return *p
}

// uploadInputForTest builds a minimal upload input without going
// through the multipart form path.
func uploadInputForTest(title string) repo.UploadInput {
	return repo.UploadInput{
		Data:         []byte("not-really-a-jpeg"),
		ContentType:  "image/jpeg",
		OriginalName: title + ".jpg",
		Title:        title,
		Category:     "misc",
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@lensfolio.local",
		DisplayName: "Test User",
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "lensfolio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "lensfolio")
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}
