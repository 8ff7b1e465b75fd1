// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lensfolio/internal/render"
	"lensfolio/internal/repo"
)

// CategoriesPage renders the category management page.
func (a *Admin) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	a.renderCategories(w, r, nil)
}

// CategoryCreate adds a new category from the form's display name. The
// slug is derived automatically; a derived slug that collides with an
// existing category is rejected.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if msg := validateCategoryName(name); msg != "" {
		a.renderCategories(w, r, &render.Flash{Type: "error", Message: msg})
		return
	}

	if _, err := a.categories.Add(r.Context(), name); err != nil {
		var derr *repo.DuplicateCategoryError
		if errors.As(err, &derr) {
			a.renderCategories(w, r, &render.Flash{
				Type:    "error",
				Message: fmt.Sprintf("A category with the slug %q already exists.", derr.Slug),
			})
			return
		}
		slog.Error("category create failed", "error", err, "name", name)
		a.renderCategories(w, r, &render.Flash{Type: "error", Message: "Failed to add category."})
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryRename changes a category's display name and re-derives its
// slug. Photos filed under the old slug keep pointing at it; the rename
// does not cascade.
func (a *Admin) CategoryRename(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	if msg := validateCategoryName(name); msg != "" {
		a.renderCategories(w, r, &render.Flash{Type: "error", Message: msg})
		return
	}

	if _, err := a.categories.Rename(r.Context(), id, name); err != nil {
		slog.Error("category rename failed", "error", err, "id", id)
		a.renderCategories(w, r, &render.Flash{Type: "error", Message: "Failed to rename category."})
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category unless photos still reference its
// slug. The guard counts against the photo cache and reports how many
// photos block the deletion.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	cat, err := a.categories.Get(r.Context(), id)
	if err != nil {
		slog.Error("category lookup failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if n := a.categoryPhotoCount(cat.Slug); n > 0 {
		a.renderCategories(w, r, &render.Flash{
			Type:    "error",
			Message: fmt.Sprintf("Cannot delete %q: %d photo(s) still use this category.", cat.Name, n),
		})
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		slog.Error("category delete failed", "error", err, "id", id)
		a.renderCategories(w, r, &render.Flash{Type: "error", Message: "Failed to delete category."})
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// categoryPhotoCount counts photos filed under the given slug. An empty
// slug means "no category" on a photo, not a category of its own, so it
// never counts anything here even though ByCategory("") lists all photos.
func (a *Admin) categoryPhotoCount(slug string) int {
	if slug == "" {
		return 0
	}
	return len(a.photos.ByCategory(slug))
}

// renderCategories renders the categories page, optionally with a flash.
func (a *Admin) renderCategories(w http.ResponseWriter, r *http.Request, flash *render.Flash) {
	// Fill the virtual photo count from the photo cache.
	views := a.categories.Categories()
	for i := range views {
		views[i].PhotoCount = a.categoryPhotoCount(views[i].Slug)
	}

	data := &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data: map[string]any{
			"Categories": views,
			"RepoError":  a.repoError(),
		},
	}
	if flash != nil {
		data.Flashes = []render.Flash{*flash}
	}

	a.renderer.Page(w, r, "categories", data)
}
