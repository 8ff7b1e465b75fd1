// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups portfolio photos. Photos reference a category by its
// slug, which stays stable across display-name edits unless the rename
// changes the derived slug itself.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`

	// PhotoCount is a virtual field populated by store queries that join
	// against photos. Zero when not requested.
	PhotoCount int `json:"photo_count,omitempty"`
}
