package utils

import (
	"testing"
)

func TestValidateImageFile(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		size        int64
		expectedErr error
	}{
		{"jpeg accepted", "image/jpeg", 1024, nil},
		{"png accepted", "image/png", 1024, nil},
		{"webp accepted", "image/webp", 1024, nil},
		{"gif rejected", "image/gif", 1024, ErrImageType},
		{"svg rejected", "image/svg+xml", 1024, ErrImageType},
		{"pdf rejected", "application/pdf", 1024, ErrImageType},
		{"empty type rejected", "", 1024, ErrImageType},
		{"exactly at limit", "image/png", MaxImageBytes, nil},
		{"one byte over limit", "image/png", MaxImageBytes + 1, ErrImageSize},
		{"zero size accepted", "image/jpeg", 0, nil},
		// Type is checked before size: a wrong type over the cap reports the type error.
		{"wrong type over limit", "image/gif", MaxImageBytes + 1, ErrImageType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImageFile(tc.contentType, tc.size)
			if err != tc.expectedErr {
				t.Errorf("ValidateImageFile(%q, %d) = %v, expected %v", tc.contentType, tc.size, err, tc.expectedErr)
			}
		})
	}
}

func TestValidationErrorMessages(t *testing.T) {
	if ErrImageType.Error() != "JPG, PNG, or WEBP only." {
		t.Errorf("Unexpected type error message: %q", ErrImageType.Error())
	}
	if ErrImageSize.Error() != "Max 10MB." {
		t.Errorf("Unexpected size error message: %q", ErrImageSize.Error())
	}
}

func TestMaxImageBytes(t *testing.T) {
	if MaxImageBytes != 10*1024*1024 {
		t.Errorf("Expected 10 MiB cap, got %d", MaxImageBytes)
	}
}

func TestAcceptedImageTypes(t *testing.T) {
	types := AcceptedImageTypes()
	if len(types) != 3 {
		t.Fatalf("Expected 3 accepted types, got %d", len(types))
	}
	for _, ct := range types {
		if err := ValidateImageFile(ct, 1); err != nil {
			t.Errorf("Accepted type %q failed validation: %v", ct, err)
		}
	}
}
