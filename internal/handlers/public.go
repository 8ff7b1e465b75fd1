// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"lensfolio/internal/cache"
	"lensfolio/internal/render"
	"lensfolio/internal/repo"
)

// Public groups handlers for the public-facing site. It checks the
// Valkey page cache before rendering, and stores rendered results on
// miss. Repository mutations clear the cache through Subscribe.
type Public struct {
	renderer   *render.Renderer
	photos     *repo.PhotoRepository
	categories *repo.CategoryRepository
	pageCache  *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, photos *repo.PhotoRepository, categories *repo.CategoryRepository, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:   renderer,
		photos:     photos,
		categories: categories,
		pageCache:  pageCache,
	}
}

// Home renders the landing page with the curated featured subset.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.servePage(w, r, cache.HomeKey(), "home", &render.SiteData{
		Title: "Home",
		Data: map[string]any{
			"Featured": p.photos.Featured(),
		},
	})
}

// Portfolio renders the photo grid, optionally filtered by the category
// query parameter (a slug). An unknown slug yields an empty grid.
func (p *Public) Portfolio(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("category")

	p.servePage(w, r, cache.PortfolioKey(slug), "portfolio", &render.SiteData{
		Title: "Portfolio",
		Data: map[string]any{
			"Active":     slug,
			"Categories": p.categories.Categories(),
			"Photos":     p.photos.ByCategory(slug),
		},
	})
}

// About renders the static about page.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	p.servePage(w, r, cache.StaticKey("about"), "about", &render.SiteData{
		Title: "About",
		Data:  map[string]any{},
	})
}

// Contact renders the contact page with an empty enquiry form.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	p.servePage(w, r, cache.StaticKey("contact"), "contact", &render.SiteData{
		Title: "Contact",
		Data:  contactFormData("", "", ""),
	})
}

// ContactSubmit accepts the enquiry form. There is no mailer; the
// message is logged and the visitor sees a confirmation. Responses are
// never cached.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))

	data := contactFormData(name, email, message)
	if name == "" || email == "" || message == "" {
		data["Error"] = "Please fill in your name, email and message."
	} else {
		slog.Info("contact message received", "name", name, "email", email, "length", len(message))
		data = contactFormData("", "", "")
		data["Sent"] = true
	}

	html, err := p.renderer.Public("contact", &render.SiteData{Title: "Contact", Data: data})
	if err != nil {
		slog.Error("public page render failed", "template", "contact", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// contactFormData pre-fills every key the contact template reads.
func contactFormData(name, email, message string) map[string]any {
	return map[string]any{
		"Name":    name,
		"Email":   email,
		"Message": message,
	}
}

// servePage writes the cached HTML for key if present, otherwise renders
// the template, caches the result, and writes it.
func (p *Public) servePage(w http.ResponseWriter, r *http.Request, key, template string, data *render.SiteData) {
	ctx := r.Context()

	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	html, err := p.renderer.Public(template, data)
	if err != nil {
		slog.Error("public page render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, html)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}
