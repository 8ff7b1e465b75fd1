// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"lensfolio/internal/slug"
)

// Validation limits for photo and category form fields.
const (
	maxPhotoTitleLen   = 200
	maxDescriptionLen  = 2_000
	maxCategoryNameLen = 100
)

// validatePhotoTitle checks the photo title and returns the first error found.
func validatePhotoTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxPhotoTitleLen {
		return "Title is too long (max 200 characters)."
	}
	return ""
}

// validateDescription checks the optional photo description.
func validateDescription(description string) string {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	return ""
}

// validateCategoryName checks a category display name. The derived slug
// must be non-empty, so names made entirely of stripped characters are
// rejected too.
func validateCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "Category name is too long (max 100 characters)."
	}
	if slug.Derive(name) == "" {
		return "Category name must contain at least one letter or digit."
	}
	return ""
}
