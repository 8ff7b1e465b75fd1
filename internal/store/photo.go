// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lensfolio/internal/models"
)

// PhotoStore handles all photo-related database operations.
type PhotoStore struct {
	db *sql.DB
}

// NewPhotoStore creates a new PhotoStore with the given database connection.
func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

// photoColumns lists the columns selected in photo queries.
const photoColumns = `id, title, description, image_url, category, file_name,
	thumb_key, featured, size_bytes, content_type, created_at`

// scanPhoto scans a photo row from the result set.
func scanPhoto(scanner interface{ Scan(...any) error }) (*models.Photo, error) {
	var p models.Photo
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Category, &p.FileName,
		&p.ThumbKey, &p.Featured, &p.SizeBytes, &p.ContentType, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all photos ordered by creation time, newest first.
func (s *PhotoStore) List() ([]models.Photo, error) {
	rows, err := s.db.Query(`
		SELECT ` + photoColumns + `
		FROM photos
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var items []models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a single photo by its UUID. Returns nil if not found.
func (s *PhotoStore) FindByID(id uuid.UUID) (*models.Photo, error) {
	row := s.db.QueryRow(`SELECT `+photoColumns+` FROM photos WHERE id = $1`, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find photo by id: %w", err)
	}
	return p, nil
}

// Create inserts a new photo record. The timestamp is assigned by the
// database; the returned photo carries it.
func (s *PhotoStore) Create(p *models.Photo) (*models.Photo, error) {
	row := s.db.QueryRow(`
		INSERT INTO photos (title, description, image_url, category, file_name,
			thumb_key, featured, size_bytes, content_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+photoColumns,
		p.Title, p.Description, p.ImageURL, p.Category, p.FileName,
		p.ThumbKey, p.Featured, p.SizeBytes, p.ContentType,
	)
	created, err := scanPhoto(row)
	if err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return created, nil
}

// Update merges the set fields of upd into the photo row. NULL parameters
// keep the existing column value. Returns the updated row, or nil if the
// photo does not exist.
func (s *PhotoStore) Update(id uuid.UUID, upd *models.PhotoUpdate) (*models.Photo, error) {
	row := s.db.QueryRow(`
		UPDATE photos SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			category = COALESCE($3, category),
			featured = COALESCE($4, featured)
		WHERE id = $5
		RETURNING `+photoColumns,
		upd.Title, upd.Description, upd.Category, upd.Featured, id,
	)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update photo: %w", err)
	}
	return p, nil
}

// Delete removes a photo record and returns it so the caller can clean
// up the corresponding blob. Returns nil if the photo does not exist.
func (s *PhotoStore) Delete(id uuid.UUID) (*models.Photo, error) {
	row := s.db.QueryRow(`
		DELETE FROM photos WHERE id = $1
		RETURNING `+photoColumns, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete photo: %w", err)
	}
	return p, nil
}

// Count returns the total number of photos.
func (s *PhotoStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return count, nil
}
