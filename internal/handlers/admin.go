// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Lensfolio site.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"net/http"

	"lensfolio/internal/render"
	"lensfolio/internal/repo"
	"lensfolio/internal/session"
)

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer   *render.Renderer
	sessions   *session.Store
	photos     *repo.PhotoRepository
	categories *repo.CategoryRepository
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, photos *repo.PhotoRepository, categories *repo.CategoryRepository) *Admin {
	return &Admin{
		renderer:   renderer,
		sessions:   sessions,
		photos:     photos,
		categories: categories,
	}
}

// Dashboard renders the admin dashboard page with live counts from the
// repository caches.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	photos := a.photos.Photos()

	var featured int
	for _, p := range photos {
		if p.Featured {
			featured++
		}
	}

	recent := photos
	if len(recent) > 5 {
		recent = recent[:5]
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"PhotoCount":    len(photos),
			"CategoryCount": len(a.categories.Categories()),
			"FeaturedCount": featured,
			"Recent":        recent,
			"RepoError":     a.repoError(),
		},
	})
}

// ErrorsClear resets the persistent repository error strings and sends
// the user back where they came from.
func (a *Admin) ErrorsClear(w http.ResponseWriter, r *http.Request) {
	a.photos.ClearErr()
	a.categories.ClearErr()

	ref := r.Referer()
	if ref == "" {
		ref = "/admin"
	}
	http.Redirect(w, r, ref, http.StatusSeeOther)
}

// repoError returns the most recent repository error message, photos
// taking precedence, or the empty string.
func (a *Admin) repoError() string {
	if msg := a.photos.Err(); msg != "" {
		return msg
	}
	return a.categories.Err()
}
