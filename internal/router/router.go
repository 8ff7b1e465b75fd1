// Package router sets up all HTTP routes and middleware chains for the
// Lensfolio site. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lensfolio/internal/handlers"
	"lensfolio/internal/middleware"
	"lensfolio/internal/session"
	"lensfolio/web"
)

// loginRateLimit allows a handful of login attempts per IP per minute.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. secure toggles the Secure attribute on the
// CSRF cookie; pass true when serving over TLS.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, secure bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Admin routes — require authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secure))

		// Auth pages — accessible without a session. Login submissions
		// are rate limited per IP to slow down credential stuffing.
		loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)
		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Dashboard
			r.Get("/", admin.Dashboard)
			r.Post("/errors/clear", admin.ErrorsClear)

			// Photos
			r.Route("/photos", func(r chi.Router) {
				r.Get("/", admin.PhotosPage)
				r.Post("/", admin.PhotoUpload)
				r.Get("/{id}/edit", admin.PhotoEditPage)
				r.Post("/{id}", admin.PhotoUpdate)
				r.Post("/{id}/feature", admin.PhotoFeature)
				r.Post("/{id}/delete", admin.PhotoDelete)
			})

			// Categories
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesPage)
				r.Post("/", admin.CategoryCreate)
				r.Post("/{id}", admin.CategoryRename)
				r.Post("/{id}/delete", admin.CategoryDelete)
			})
		})
	})

	// Static assets — compiled CSS and vendored JS embedded in the binary.
	r.Handle("/static/*", http.FileServerFS(web.StaticFS))

	// Public routes.
	r.Get("/", public.Home)
	r.Get("/portfolio", public.Portfolio)
	r.Get("/about", public.About)
	r.Get("/contact", public.Contact)
	r.Post("/contact", public.ContactSubmit)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
