package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"lookbook-service/internal/compose"
	"lookbook-service/internal/events"
	"lookbook-service/internal/models"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	ErrNoExportImages = errors.New("Add a photo to export.")
	ErrExportInFlight = errors.New("Export already in progress.")
)

const exportLockTTL = 30 * time.Second

type ExportResult struct {
	FileName string
	PNG      []byte
}

// ExportService renders the side-by-side PNG for a look. Each export resolves
// the look's signed URLs, fetches both photos concurrently, and composes them
// on the fixed canvas.
type ExportService struct {
	looks          *LookService
	urlCache       URLCache
	httpClient     *http.Client
	eventPublisher events.Publisher
}

// NewExportService creates a new export service
func NewExportService(looks *LookService, urlCache URLCache, eventPublisher events.Publisher) *ExportService {
	return &ExportService{
		looks:          looks,
		urlCache:       urlCache,
		httpClient:     http.DefaultClient,
		eventPublisher: eventPublisher,
	}
}

// ExportLook produces the composed 1600x800 PNG for a look, named
// look-{lookId}.png. At least one photo must exist; the per-look lock keeps a
// second trigger from piling onto an export already in flight.
func (s *ExportService) ExportLook(ctx context.Context, ownerID, lookID string) (*ExportResult, error) {
	if s.urlCache != nil {
		acquired, err := s.urlCache.AcquireExportLock(ctx, lookID, exportLockTTL)
		if err != nil {
			log.Printf("Error acquiring export lock for look %s: %v", lookID, err)
		} else if !acquired {
			return nil, ErrExportInFlight
		} else {
			defer func() {
				if err := s.urlCache.ReleaseExportLock(ctx, lookID); err != nil {
					log.Printf("Error releasing export lock for look %s: %v", lookID, err)
				}
			}()
		}
	}

	fetched, err := s.looks.FetchLookWithImages(ctx, lookID)
	if err != nil {
		return nil, err
	}
	if fetched.Look.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if fetched.InspoURL == "" && fetched.MyURL == "" {
		return nil, ErrNoExportImages
	}

	inspo, me, err := s.fetchSources(ctx, fetched.InspoURL, fetched.MyURL)
	if err != nil {
		return nil, err
	}

	canvas := compose.Render(inspo, me, exportCaption(fetched.Look))
	png, err := compose.EncodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.PublishLookExported(ctx, lookID, ownerID); err != nil {
			log.Printf("Error publishing look exported event: %v", err)
		}
	}

	return &ExportResult{
		FileName: fmt.Sprintf("look-%s.png", lookID),
		PNG:      png,
	}, nil
}

// fetchSources downloads both photos at once and waits for both; the first
// failure cancels the other fetch.
func (s *ExportService) fetchSources(ctx context.Context, inspoURL, myURL string) (inspo, me image.Image, err error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var inspoErr, myErr error

	if inspoURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inspo, inspoErr = compose.FetchImage(fetchCtx, s.httpClient, inspoURL)
			if inspoErr != nil {
				cancel()
			}
		}()
	}
	if myURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			me, myErr = compose.FetchImage(fetchCtx, s.httpClient, myURL)
			if myErr != nil {
				cancel()
			}
		}()
	}
	wg.Wait()

	// One failure cancels the other fetch; report the real error, not the
	// cancellation it caused.
	for _, fetchErr := range []error{inspoErr, myErr} {
		if fetchErr != nil && !errors.Is(fetchErr, context.Canceled) {
			return nil, nil, fetchErr
		}
	}
	if inspoErr != nil {
		return nil, nil, inspoErr
	}
	if myErr != nil {
		return nil, nil, myErr
	}
	return inspo, me, nil
}

// exportCaption builds the footer text: "{title} - {date}" or just the date
// when the look is untitled.
func exportCaption(look *models.Look) string {
	date := look.CreatedAt.Format("1/2/2006")
	title := strings.TrimSpace(look.Title)
	if title == "" {
		return date
	}
	return title + " - " + date
}
