package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"lookbook-service/internal/events"
	"lookbook-service/internal/models"
	"lookbook-service/pkg/utils"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrLookNotFound = errors.New("Look not found.")
	ErrNotOwner     = errors.New("You don't have permission to modify this look.")
)

// BlobStore is the slice of object storage the pipeline needs. Upload must
// fail, not overwrite, when the path is already taken.
type BlobStore interface {
	Upload(ctx context.Context, path string, content io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, paths []string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	SignedURLs(ctx context.Context, paths []string, ttl time.Duration) (map[string]string, error)
	Bucket() string
}

// LookStore is the record-store surface for looks, ordered newest first on
// owner queries.
type LookStore interface {
	Create(ctx context.Context, look *models.Look) (*models.Look, error)
	GetByID(ctx context.Context, id string) (*models.Look, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Look, error)
	Update(ctx context.Context, id, title, notes string) error
	Delete(ctx context.Context, id string) error
}

// LookImageStore is the record-store surface for look images, keyed
// (lookId, kind).
type LookImageStore interface {
	Upsert(ctx context.Context, image *models.LookImage) error
	GetByLookID(ctx context.Context, lookID string) ([]*models.LookImage, error)
	GetByLookIDs(ctx context.Context, lookIDs []string) ([]*models.LookImage, error)
	DeleteByLookID(ctx context.Context, lookID string) error
}

// URLCache keeps resolved signed URLs and the per-look export lock.
type URLCache interface {
	SaveSignedURLs(ctx context.Context, lookID string, urls map[string]string, ttl time.Duration) error
	GetSignedURLs(ctx context.Context, lookID string) (map[string]string, error)
	DropSignedURLs(ctx context.Context, lookID string) error
	AcquireExportLock(ctx context.Context, lookID string, ttl time.Duration) (bool, error)
	ReleaseExportLock(ctx context.Context, lookID string) error
}

// ImageUpload is one incoming file. Validated before any I/O, never persisted.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadProgress reports byte-weighted progress during a multi-file create.
type UploadProgress struct {
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

type CreateLookInput struct {
	OwnerID    string
	Title      string
	Notes      string
	Inspo      *ImageUpload
	Me         *ImageUpload
	OnProgress func(UploadProgress)
}

type UpsertImageResult struct {
	StoragePath string `json:"storagePath"`
	SignedURL   string `json:"signedUrl"`
}

type LookService struct {
	lookStore      LookStore
	imageStore     LookImageStore
	blobStore      BlobStore
	urlCache       URLCache
	eventPublisher events.Publisher
	signedURLTTL   time.Duration
}

// NewLookService creates a new look service
func NewLookService(lookStore LookStore, imageStore LookImageStore, blobStore BlobStore, urlCache URLCache, eventPublisher events.Publisher, signedURLTTL time.Duration) *LookService {
	return &LookService{
		lookStore:      lookStore,
		imageStore:     imageStore,
		blobStore:      blobStore,
		urlCache:       urlCache,
		eventPublisher: eventPublisher,
		signedURLTTL:   signedURLTTL,
	}
}

// UpsertLookImage runs the upload pipeline for one (look, kind) slot:
// validate, derive a fresh storage path, write the blob, upsert the record
// pointer, resolve a signed URL for immediate display. The steps do not roll
// back each other; a failure surfaces the collaborator's error and leaves
// earlier effects in place. The blob at the slot's previous path is not
// removed here; the deferred sweep on look deletion collects it.
func (s *LookService) UpsertLookImage(ctx context.Context, ownerID, lookID string, kind models.ImageKind, upload *ImageUpload) (*UpsertImageResult, error) {
	if err := utils.ValidateImageFile(upload.ContentType, upload.Size); err != nil {
		return nil, err
	}

	look, err := s.lookStore.GetByID(ctx, lookID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving look: %w", err)
	}
	if look == nil {
		return nil, ErrLookNotFound
	}
	if look.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	// Whether this replaces an existing photo decides the event published.
	replacing := false
	existing, err := s.imageStore.GetByLookID(ctx, lookID)
	if err == nil {
		for _, img := range existing {
			if img.Kind == kind {
				replacing = true
				break
			}
		}
	}

	storagePath := utils.BuildStoragePath(ownerID, lookID, string(kind), upload.FileName, upload.ContentType)

	if err := s.blobStore.Upload(ctx, storagePath, upload.Content, upload.Size, upload.ContentType); err != nil {
		return nil, err
	}

	if err := s.upsertImageRecord(ctx, lookID, kind, storagePath, upload); err != nil {
		return nil, err
	}

	signedURL, err := s.blobStore.SignedURL(ctx, storagePath, s.signedURLTTL)
	if err != nil {
		return nil, err
	}

	if s.urlCache != nil {
		if err := s.urlCache.DropSignedURLs(ctx, lookID); err != nil {
			log.Printf("Error evicting cached urls for look %s: %v", lookID, err)
		}
	}

	if s.eventPublisher != nil {
		if replacing {
			err = s.eventPublisher.PublishImageReplaced(ctx, lookID, ownerID, string(kind), storagePath)
		} else {
			err = s.eventPublisher.PublishImageUploaded(ctx, lookID, ownerID, string(kind), storagePath)
		}
		if err != nil {
			log.Printf("Error publishing image event: %v", err)
		}
	}

	return &UpsertImageResult{StoragePath: storagePath, SignedURL: signedURL}, nil
}

func (s *LookService) upsertImageRecord(ctx context.Context, lookID string, kind models.ImageKind, storagePath string, upload *ImageUpload) error {
	lookOID, err := bson.ObjectIDFromHex(lookID)
	if err != nil {
		return err
	}

	return s.imageStore.Upsert(ctx, &models.LookImage{
		LookID:      lookOID,
		Kind:        kind,
		FileName:    upload.FileName,
		Size:        upload.Size,
		ContentType: upload.ContentType,
		StoragePath: storagePath,
		BucketName:  s.blobStore.Bucket(),
	})
}

// CreateLookWithImages validates every file before any I/O, creates the look
// record, then uploads the files one at a time so the byte-weighted progress
// stays monotonic. A failure stops the sequence where it is: the look and any
// photos already uploaded in this call remain, and the caller may retry.
func (s *LookService) CreateLookWithImages(ctx context.Context, input CreateLookInput) (string, error) {
	type entry struct {
		kind   models.ImageKind
		upload *ImageUpload
		label  string
	}

	var files []entry
	if input.Inspo != nil {
		files = append(files, entry{models.ImageKindInspo, input.Inspo, "Uploading inspo"})
	}
	if input.Me != nil {
		files = append(files, entry{models.ImageKindMe, input.Me, "Uploading my photo"})
	}

	// All-or-nothing validation gate before a single byte moves.
	for _, f := range files {
		if err := utils.ValidateImageFile(f.upload.ContentType, f.upload.Size); err != nil {
			return "", err
		}
	}

	report := func(percent int, label string) {
		if input.OnProgress != nil {
			input.OnProgress(UploadProgress{Percent: percent, Label: label})
		}
	}

	report(0, "Making look")

	look, err := s.lookStore.Create(ctx, &models.Look{
		OwnerID: input.OwnerID,
		Title:   input.Title,
		Notes:   input.Notes,
	})
	if err != nil {
		return "", fmt.Errorf("error creating look: %w", err)
	}
	lookID := look.ID.Hex()

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.upload.Size
	}

	var uploadedBytes int64
	for _, f := range files {
		report(weightedPercent(uploadedBytes, totalBytes), f.label)

		storagePath := utils.BuildStoragePath(input.OwnerID, lookID, string(f.kind), f.upload.FileName, f.upload.ContentType)
		if err := s.blobStore.Upload(ctx, storagePath, f.upload.Content, f.upload.Size, f.upload.ContentType); err != nil {
			return "", err
		}
		if err := s.upsertImageRecord(ctx, lookID, f.kind, storagePath, f.upload); err != nil {
			return "", err
		}

		uploadedBytes += f.upload.Size
		report(weightedPercent(uploadedBytes, totalBytes), "Upload done")
	}

	if len(files) == 0 {
		report(100, "Saved")
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.PublishLookCreated(ctx, lookID, input.OwnerID); err != nil {
			log.Printf("Error publishing look created event: %v", err)
		}
	}

	return lookID, nil
}

func weightedPercent(done, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// FetchLookWithImages returns a look and per-kind signed display URLs. URLs
// come from the cache when present and are re-resolved otherwise; they are
// short-lived by contract and never stored on the records.
func (s *LookService) FetchLookWithImages(ctx context.Context, lookID string) (*models.LookWithImages, error) {
	look, err := s.lookStore.GetByID(ctx, lookID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving look: %w", err)
	}
	if look == nil {
		return nil, ErrLookNotFound
	}

	images, err := s.imageStore.GetByLookID(ctx, lookID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving look images: %w", err)
	}

	urls, err := s.resolveImageURLs(ctx, lookID, images)
	if err != nil {
		return nil, err
	}

	result := &models.LookWithImages{Look: look}
	for _, img := range images {
		url := urls[img.StoragePath]
		if img.Kind == models.ImageKindInspo && result.InspoURL == "" {
			result.InspoURL = url
		}
		if img.Kind == models.ImageKindMe && result.MyURL == "" {
			result.MyURL = url
		}
	}

	return result, nil
}

func (s *LookService) resolveImageURLs(ctx context.Context, lookID string, images []*models.LookImage) (map[string]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	if s.urlCache != nil {
		cached, err := s.urlCache.GetSignedURLs(ctx, lookID)
		if err != nil {
			log.Printf("Error reading cached urls for look %s: %v", lookID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, img.StoragePath)
	}

	urls, err := s.blobStore.SignedURLs(ctx, paths, s.signedURLTTL)
	if err != nil {
		return nil, err
	}

	if s.urlCache != nil {
		// Cached strictly shorter than the URL lifetime so hits stay valid.
		if err := s.urlCache.SaveSignedURLs(ctx, lookID, urls, s.signedURLTTL/2); err != nil {
			log.Printf("Error caching urls for look %s: %v", lookID, err)
		}
	}

	return urls, nil
}

// ListLooks returns the owner's looks, newest first, each with its signed
// display URLs.
func (s *LookService) ListLooks(ctx context.Context, ownerID string) ([]*models.LookWithImages, error) {
	looks, err := s.lookStore.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving looks: %w", err)
	}
	if len(looks) == 0 {
		return []*models.LookWithImages{}, nil
	}

	lookIDs := make([]string, 0, len(looks))
	for _, look := range looks {
		lookIDs = append(lookIDs, look.ID.Hex())
	}

	images, err := s.imageStore.GetByLookIDs(ctx, lookIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving look images: %w", err)
	}

	var paths []string
	for _, img := range images {
		paths = append(paths, img.StoragePath)
	}

	urls := map[string]string{}
	if len(paths) > 0 {
		urls, err = s.blobStore.SignedURLs(ctx, paths, s.signedURLTTL)
		if err != nil {
			return nil, err
		}
	}

	byLook := make(map[string]*models.LookWithImages, len(looks))
	result := make([]*models.LookWithImages, 0, len(looks))
	for _, look := range looks {
		card := &models.LookWithImages{Look: look}
		byLook[look.ID.Hex()] = card
		result = append(result, card)
	}
	for _, img := range images {
		card, ok := byLook[img.LookID.Hex()]
		if !ok {
			continue
		}
		url := urls[img.StoragePath]
		if img.Kind == models.ImageKindInspo && card.InspoURL == "" {
			card.InspoURL = url
		}
		if img.Kind == models.ImageKindMe && card.MyURL == "" {
			card.MyURL = url
		}
	}

	return result, nil
}

// UpdateLook sets a look's title and notes.
func (s *LookService) UpdateLook(ctx context.Context, ownerID, lookID, title, notes string) error {
	look, err := s.lookStore.GetByID(ctx, lookID)
	if err != nil {
		return fmt.Errorf("error retrieving look: %w", err)
	}
	if look == nil {
		return ErrLookNotFound
	}
	if look.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.lookStore.Update(ctx, lookID, title, notes); err != nil {
		return fmt.Errorf("error updating look: %w", err)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.PublishLookUpdated(ctx, lookID, ownerID); err != nil {
			log.Printf("Error publishing look updated event: %v", err)
		}
	}

	return nil
}

// DeleteLookWithAssets removes a look's blobs first and its records after.
// A failed blob removal aborts before any record is touched, so a record
// never points at nothing; the reverse orphan (blobs gone, records left) is
// possible only if the process dies between the two steps. Blobs orphaned by
// earlier replacements are caught by the deletion sweep the look.deleted
// event triggers.
func (s *LookService) DeleteLookWithAssets(ctx context.Context, ownerID, lookID string) error {
	look, err := s.lookStore.GetByID(ctx, lookID)
	if err != nil {
		return fmt.Errorf("error retrieving look: %w", err)
	}
	if look == nil {
		return ErrLookNotFound
	}
	if look.OwnerID != ownerID {
		return ErrNotOwner
	}

	images, err := s.imageStore.GetByLookID(ctx, lookID)
	if err != nil {
		return fmt.Errorf("error retrieving look images: %w", err)
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, img.StoragePath)
	}
	if len(paths) > 0 {
		if err := s.blobStore.Remove(ctx, paths); err != nil {
			return err
		}
	}

	if err := s.imageStore.DeleteByLookID(ctx, lookID); err != nil {
		return fmt.Errorf("error deleting look images: %w", err)
	}
	if err := s.lookStore.Delete(ctx, lookID); err != nil {
		return fmt.Errorf("error deleting look: %w", err)
	}

	if s.urlCache != nil {
		if err := s.urlCache.DropSignedURLs(ctx, lookID); err != nil {
			log.Printf("Error evicting cached urls for look %s: %v", lookID, err)
		}
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.PublishLookDeleted(ctx, lookID, ownerID); err != nil {
			log.Printf("Error publishing look deleted event: %v", err)
		}
	}

	return nil
}
