// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import "testing"

func TestNewWithoutConfig(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "images", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when storage is not configured")
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("https://s3.example.com", "us-east-1", "key", "secret", "", ""); err == nil {
		t.Error("expected error for empty bucket")
	}
}

func TestFileURLAndExtractKey(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		wantURL   string
	}{
		{"path style", "", "https://s3.example.com/images/posts/a.png"},
		{"cdn", "https://cdn.example.com/", "https://cdn.example.com/posts/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("https://s3.example.com/", "us-east-1", "key", "secret", "images", tt.publicURL)
			if err != nil {
				t.Fatal(err)
			}
			got := c.FileURL("posts/a.png")
			if got != tt.wantURL {
				t.Errorf("FileURL() = %q, want %q", got, tt.wantURL)
			}
			key, ok := c.ExtractKey(got)
			if !ok || key != "posts/a.png" {
				t.Errorf("ExtractKey(%q) = %q, %v", got, key, ok)
			}
			if _, ok := c.ExtractKey("https://elsewhere.example.com/x.png"); ok {
				t.Error("foreign URL should not match")
			}
		})
	}
}

func TestDeleteImageIgnoresForeignURLs(t *testing.T) {
	c, err := New("https://s3.example.com", "us-east-1", "key", "secret", "images", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteImage(t.Context(), "https://elsewhere.example.com/x.png"); err != nil {
		t.Errorf("DeleteImage() on foreign URL = %v, want nil", err)
	}
}
