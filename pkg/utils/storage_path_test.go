package utils

import (
	"regexp"
	"strings"
	"testing"
)

func TestImageExtension(t *testing.T) {
	testCases := []struct {
		name        string
		filename    string
		contentType string
		expected    string
	}{
		{"filename extension wins", "sunset.png", "image/jpeg", "png"},
		{"filename extension lowercased", "IMG_0042.JPG", "image/png", "jpg"},
		{"mime fallback jpeg", "photo", "image/jpeg", "jpg"},
		{"mime fallback png", "photo", "image/png", "png"},
		{"mime fallback webp", "photo", "image/webp", "webp"},
		{"default when nothing known", "photo", "application/octet-stream", "jpg"},
		{"empty inputs", "", "", "jpg"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ImageExtension(tc.filename, tc.contentType)
			if got != tc.expected {
				t.Errorf("ImageExtension(%q, %q) = %q, expected %q", tc.filename, tc.contentType, got, tc.expected)
			}
		})
	}
}

func TestBuildStoragePath(t *testing.T) {
	path := BuildStoragePath("owner-1", "look-1", "inspo", "sunset.png", "image/png")

	pattern := regexp.MustCompile(`^owner-1/look-1/inspo/inspo-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.png$`)
	if !pattern.MatchString(path) {
		t.Errorf("Unexpected path shape: %q", path)
	}

	parts := strings.Split(path, "/")
	if len(parts) != 4 {
		t.Fatalf("Expected 4 path segments, got %d: %q", len(parts), path)
	}
}

func TestBuildStoragePathFreshTokens(t *testing.T) {
	// Replacing an image must never reuse the previous key.
	first := BuildStoragePath("owner-1", "look-1", "me", "a.jpg", "image/jpeg")
	second := BuildStoragePath("owner-1", "look-1", "me", "a.jpg", "image/jpeg")
	if first == second {
		t.Errorf("Consecutive paths collided: %q", first)
	}
}

func TestBuildStoragePathKindSegment(t *testing.T) {
	for _, kind := range []string{"inspo", "me"} {
		path := BuildStoragePath("u", "l", kind, "p.webp", "image/webp")
		prefix := "u/l/" + kind + "/" + kind + "-"
		if !strings.HasPrefix(path, prefix) {
			t.Errorf("Path %q missing prefix %q", path, prefix)
		}
		if !strings.HasSuffix(path, ".webp") {
			t.Errorf("Path %q missing .webp suffix", path)
		}
	}
}
