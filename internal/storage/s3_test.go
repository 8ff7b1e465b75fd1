// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func TestNewWithoutCredentials(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		accessKey string
		secretKey string
	}{
		{"no endpoint", "", "key", "secret"},
		{"no access key", "https://s3.example.com", "", "secret"},
		{"no secret key", "https://s3.example.com", "key", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, "us-east-1", tt.accessKey, tt.secretKey, "photos", "")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if c != nil {
				t.Error("incomplete configuration should yield a nil client")
			}
		})
	}
}

func TestFileURL(t *testing.T) {
	t.Run("path-style from endpoint", func(t *testing.T) {
		c, err := New("https://s3.example.com/", "us-east-1", "key", "secret", "photos", "")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		got := c.FileURL("photos/123_cat.jpg")
		want := "https://s3.example.com/photos/photos/123_cat.jpg"
		if got != want {
			t.Errorf("FileURL = %q, want %q", got, want)
		}
	})

	t.Run("public URL override", func(t *testing.T) {
		c, err := New("https://s3.example.com", "us-east-1", "key", "secret", "photos", "https://cdn.example.com/")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		got := c.FileURL("photos/123_cat.jpg")
		want := "https://cdn.example.com/photos/123_cat.jpg"
		if got != want {
			t.Errorf("FileURL = %q, want %q", got, want)
		}
	})
}

func TestIsAccessDenied(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, true},
		{"bad key id", &smithy.GenericAPIError{Code: "InvalidAccessKeyId"}, true},
		{"bad signature", &smithy.GenericAPIError{Code: "SignatureDoesNotMatch"}, true},
		{"wrapped", fmt.Errorf("s3 upload: %w", &smithy.GenericAPIError{Code: "AccessDenied"}), true},
		{"other api error", &smithy.GenericAPIError{Code: "NoSuchBucket"}, false},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAccessDenied(tt.err); got != tt.want {
				t.Errorf("IsAccessDenied = %v, want %v", got, tt.want)
			}
		})
	}
}
