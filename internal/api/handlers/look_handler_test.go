package handlers

import (
	"errors"
	"testing"

	"lookbook-service/internal/service"
	"lookbook-service/pkg/utils"

	"github.com/gofiber/fiber/v3"
)

func TestLookErrorStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"look not found", service.ErrLookNotFound, fiber.StatusNotFound},
		{"not owner", service.ErrNotOwner, fiber.StatusForbidden},
		{"bad image type", utils.ErrImageType, fiber.StatusBadRequest},
		{"image too large", utils.ErrImageSize, fiber.StatusBadRequest},
		// Store outages are server-side failures, not bad requests.
		{"blob store outage", errors.New("minio down"), fiber.StatusInternalServerError},
		{"record store outage", errors.New("error creating look: connection refused"), fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := lookErrorStatus(tc.err)
			if got != tc.expected {
				t.Errorf("lookErrorStatus(%v) = %d, expected %d", tc.err, got, tc.expected)
			}
		})
	}
}

func TestExportErrorStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"no photos", service.ErrNoExportImages, fiber.StatusBadRequest},
		{"already running", service.ErrExportInFlight, fiber.StatusConflict},
		{"look not found", service.ErrLookNotFound, fiber.StatusNotFound},
		{"not owner", service.ErrNotOwner, fiber.StatusForbidden},
		{"fetch failure", errors.New("image load failed"), fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := exportErrorStatus(tc.err)
			if got != tc.expected {
				t.Errorf("exportErrorStatus(%v) = %d, expected %d", tc.err, got, tc.expected)
			}
		})
	}
}
