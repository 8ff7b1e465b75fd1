// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"lensfolio/internal/models"
	"lensfolio/internal/render"
	"lensfolio/internal/repo"
)

const (
	// maxUploadSize is the maximum allowed photo upload size (5 MB).
	maxUploadSize = 5 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	maxImagePixels = 100_000_000

	// uploadFormOverhead is extra request-body allowance beyond the photo
	// itself: title (200 runes), description (2,000 runes, up to 4 bytes
	// each), CSRF token and multipart boundaries.
	uploadFormOverhead = 64 << 10
)

// allowedPhotoTypes defines MIME types accepted for photo upload.
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// PhotosPage renders the photo management page with the upload form.
func (a *Admin) PhotosPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "photos", &render.PageData{
		Title:   "Photos",
		Section: "photos",
		Data: map[string]any{
			"Photos":     a.photos.Photos(),
			"Categories": a.categories.Categories(),
			"RepoError":  a.repoError(),
		},
	})
}

// PhotoUpload handles the multipart photo upload form.
func (a *Admin) PhotoUpload(w http.ResponseWriter, r *http.Request) {
	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+uploadFormOverhead)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.photoFormError(w, r, "File too large. Maximum size is 5 MB.")
		return
	}

	title := r.FormValue("title")
	if msg := validatePhotoTitle(title); msg != "" {
		a.photoFormError(w, r, msg)
		return
	}
	if msg := validateDescription(r.FormValue("description")); msg != "" {
		a.photoFormError(w, r, msg)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		a.photoFormError(w, r, "No image provided.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		a.photoFormError(w, r, "File too large. Maximum size is 5 MB.")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		a.photoFormError(w, r, "Failed to read file.")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	if !allowedPhotoTypes[contentType] {
		a.photoFormError(w, r, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}

	// Seek back to start after sniffing.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		a.photoFormError(w, r, "Failed to process file.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.photoFormError(w, r, "Failed to read file.")
		return
	}

	// Thumbnail generation is best-effort; a failure only costs the thumb.
	var thumb []byte
	if thumbableTypes[contentType] {
		thumb, err = generateThumbnail(bytes.NewReader(data), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "file", header.Filename)
			thumb = nil
		}
	}

	_, err = a.photos.Upload(r.Context(), repo.UploadInput{
		Data:         data,
		Thumb:        thumb,
		ContentType:  contentType,
		OriginalName: header.Filename,
		Title:        title,
		Description:  r.FormValue("description"),
		Category:     r.FormValue("category"),
	})
	if err != nil {
		slog.Error("photo upload failed", "error", err, "file", header.Filename)
		a.photoFormError(w, r, uploadErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/admin/photos", http.StatusSeeOther)
}

// PhotoEditPage renders the edit form for a single photo.
func (a *Admin) PhotoEditPage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	photo, err := a.photos.Get(r.Context(), id)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if photo == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.renderer.Page(w, r, "photo_edit", &render.PageData{
		Title:   "Edit Photo",
		Section: "photos",
		Data: map[string]any{
			"Photo":      photo,
			"Categories": a.categories.Categories(),
			"RepoError":  a.repoError(),
		},
	})
}

// PhotoUpdate applies the edit form to a photo's metadata.
func (a *Admin) PhotoUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	if msg := validatePhotoTitle(title); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	description := r.FormValue("description")
	if msg := validateDescription(description); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	category := r.FormValue("category")
	featured := r.FormValue("featured") == "true"

	_, err = a.photos.Update(r.Context(), id, &models.PhotoUpdate{
		Title:       &title,
		Description: &description,
		Category:    &category,
		Featured:    &featured,
	})
	if err != nil {
		slog.Error("photo update failed", "error", err, "id", id)
	}

	http.Redirect(w, r, "/admin/photos", http.StatusSeeOther)
}

// PhotoFeature toggles a photo's featured flag.
func (a *Admin) PhotoFeature(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	featured := r.FormValue("featured") == "true"
	if _, err := a.photos.SetFeatured(r.Context(), id, featured); err != nil {
		slog.Error("photo feature toggle failed", "error", err, "id", id)
	}

	http.Redirect(w, r, "/admin/photos", http.StatusSeeOther)
}

// PhotoDelete removes a photo record and its blobs.
func (a *Admin) PhotoDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	photo, err := a.photos.Get(r.Context(), id)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if photo == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.photos.Delete(r.Context(), *photo); err != nil {
		slog.Error("photo delete failed", "error", err, "id", id)
	}

	http.Redirect(w, r, "/admin/photos", http.StatusSeeOther)
}

// photoFormError re-renders the photos page with an error banner.
func (a *Admin) photoFormError(w http.ResponseWriter, r *http.Request, msg string) {
	a.renderer.Page(w, r, "photos", &render.PageData{
		Title:   "Photos",
		Section: "photos",
		Flashes: []render.Flash{{Type: "error", Message: msg}},
		Data: map[string]any{
			"Photos":     a.photos.Photos(),
			"Categories": a.categories.Categories(),
			"RepoError":  a.repoError(),
		},
	})
}

// uploadErrorMessage maps repository errors to user-visible messages.
func uploadErrorMessage(err error) string {
	var uerr *repo.UploadError
	if errors.As(err, &uerr) && uerr.Unauthorized {
		return "Storage is not properly configured: check bucket credentials and permissions."
	}
	return "Upload failed. Please try again."
}

// generateThumbnail creates a JPEG thumbnail from an image, constrained
// to maxWidth while preserving aspect ratio. Returns nil if the image is
// already smaller than maxWidth.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without full decode.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Check for image bombs.
	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	// Skip thumbnail if image is already small enough.
	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	// Seek back to start for full decode.
	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
	} else {
		return nil, fmt.Errorf("source does not support seeking")
	}

	// Full decode.
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Calculate thumbnail dimensions preserving aspect ratio.
	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	// Resize using CatmullRom (high quality).
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	// Encode to JPEG.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
