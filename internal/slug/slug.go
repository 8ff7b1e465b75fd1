// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-safe identifiers from category display names.
// The slug is the stable foreign key stored on photo records, so the
// derivation must be deterministic.
package slug

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRun matches one or more consecutive whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// disallowed matches anything outside the slug alphabet.
	disallowed = regexp.MustCompile(`[^a-z0-9-]`)
	// hyphenRun collapses consecutive hyphens into one.
	hyphenRun = regexp.MustCompile(`-{2,}`)
)

// Derive creates a slug from the given display name: lower-cased,
// whitespace runs replaced with a single hyphen, everything outside
// [a-z0-9-] stripped. Example: "Mom & Dad's!!" → "mom-dads".
// Applying Derive to its own output is a no-op.
func Derive(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
