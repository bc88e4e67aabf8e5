package utils

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var mimeExtension = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageExtension picks the stored file extension: the original filename's
// extension when present, else one mapped from the MIME type, else jpg.
func ImageExtension(filename, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "" {
		return ext
	}
	if mapped, ok := mimeExtension[contentType]; ok {
		return mapped
	}
	return "jpg"
}

// BuildStoragePath derives the object key for an upload:
// {ownerId}/{lookId}/{kind}/{kind}-{token}.{ext}. The token is fresh on every
// call so a replaced photo never reuses the old key and stale cached content
// cannot be served.
func BuildStoragePath(ownerID, lookID, kind, filename, contentType string) string {
	token := uploadToken()
	ext := ImageExtension(filename, contentType)
	return fmt.Sprintf("%s/%s/%s/%s-%s.%s", ownerID, lookID, kind, kind, token, ext)
}

func uploadToken() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	// The UUID source reads crypto/rand and can fail; fall back to a
	// timestamp plus a short random suffix.
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = chars[rand.Intn(len(chars))]
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), suffix)
}
