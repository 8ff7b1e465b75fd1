// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repo

import "fmt"

// The repository error types mirror the operations that can fail. Every
// failing operation returns one of these AND records its message in the
// repository's error string for passive display; callers are expected to
// catch and show a contextual message as well. No operation retries.

// FetchError reports a failed listing. The previous cache contents stay
// intact when it occurs.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch failed: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// UploadError reports a failed blob or record write during photo upload.
// Unauthorized marks a storage authorization failure, which gets a
// specific user-facing message instead of the generic one.
type UploadError struct {
	Unauthorized bool
	Err          error
}

func (e *UploadError) Error() string {
	if e.Unauthorized {
		return "storage not properly configured: check bucket credentials and permissions"
	}
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// CreateError reports a failed record insert outside the photo upload
// path, which has its own UploadError.
type CreateError struct {
	Err error
}

func (e *CreateError) Error() string { return fmt.Sprintf("create failed: %v", e.Err) }
func (e *CreateError) Unwrap() error { return e.Err }

// UpdateError reports a failed record update, including updates against
// records that no longer exist remotely.
type UpdateError struct {
	Err error
}

func (e *UpdateError) Error() string { return fmt.Sprintf("update failed: %v", e.Err) }
func (e *UpdateError) Unwrap() error { return e.Err }

// DeleteError reports a failed record or blob delete. When the record
// delete succeeded but the blob delete failed, the cache has already
// dropped the entry and the blob is orphaned.
type DeleteError struct {
	Err error
}

func (e *DeleteError) Error() string { return fmt.Sprintf("delete failed: %v", e.Err) }
func (e *DeleteError) Unwrap() error { return e.Err }

// DuplicateCategoryError reports a slug collision on category add. The
// check runs against the local cache only, not the remote store.
type DuplicateCategoryError struct {
	Slug string
}

func (e *DuplicateCategoryError) Error() string {
	return fmt.Sprintf("category %q already exists", e.Slug)
}
