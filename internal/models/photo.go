// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Photo represents an uploaded portfolio image. The file itself lives in
// S3-compatible object storage; this record holds its metadata and the
// resolved public URL.
type Photo struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	// Category holds the slug of the owning category, not its ID. Renaming
	// a category rewrites only the category's own slug, so stale references
	// are possible here.
	Category string `json:"category"`
	// FileName is the object storage key, kept so the blob can be deleted
	// together with the record. Never displayed.
	FileName    string    `json:"file_name,omitempty"`
	ThumbKey    *string   `json:"thumb_key,omitempty"`
	Featured    bool      `json:"featured"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsImage returns true if the stored content type is an image type.
func (p Photo) IsImage() bool {
	return strings.HasPrefix(p.ContentType, "image/")
}

// HumanSize returns a human-readable file size string.
func (p Photo) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case p.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(p.SizeBytes)/float64(mb))
	case p.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(p.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", p.SizeBytes)
	}
}

// PhotoUpdate holds the optional fields of a partial photo update. Nil
// fields are left untouched by the store and the repository cache.
type PhotoUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Featured    *bool
}

// Apply merges the set fields into the given photo.
func (u *PhotoUpdate) Apply(p *Photo) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
}
