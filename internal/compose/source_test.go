package compose

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(32, 16, color.NRGBA{R: 0xff, A: 0xff})); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	img, err := FetchImage(context.Background(), nil, server.URL)
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Errorf("Unexpected decoded size: %v", img.Bounds())
	}
}

func TestFetchImageFailures(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer garbage.Close()

	testCases := []struct {
		name string
		url  string
	}{
		{"non-2xx response", notFound.URL},
		{"undecodable body", garbage.URL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FetchImage(context.Background(), nil, tc.url)
			if !errors.Is(err, ErrImageLoad) {
				t.Errorf("Expected ErrImageLoad, got %v", err)
			}
		})
	}
}

func TestFetchImageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchImage(ctx, nil, "http://127.0.0.1:0/never")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
