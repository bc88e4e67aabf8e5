package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"

	// Decoders for the accepted upload formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var ErrImageLoad = errors.New("Image load failed.")

// FetchImage downloads an image from a signed URL and decodes it. Non-2xx
// responses fail with ErrImageLoad; the decoder is chosen by the registered
// format sniffers, so every accepted upload type round-trips.
func FetchImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s", ErrImageLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrImageLoad
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageLoad, err)
	}

	return img, nil
}
