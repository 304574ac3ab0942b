package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

const fetchTimeout = 60 * time.Second

// HTTPFetcher скачивает изображения источника по URL.
type HTTPFetcher struct {
	httpClient *http.Client
	logger     logger.Logger
}

func NewHTTPFetcher(logger logger.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
	}
}

// Fetch скачивает изображение, отклоняя файлы сверх лимита размера.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, sizeLimit int64) (*usecase.FetchedImage, error) {
	const op = "HTTPFetcher.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.Wrap(op, fmt.Errorf("source returned %d for %s", resp.StatusCode, url))
	}

	if resp.ContentLength > sizeLimit {
		return nil, e.Wrap(op, e.ErrImageTooLarge)
	}

	// Content-Length может отсутствовать, поэтому лимит проверяется и по факту
	data, err := io.ReadAll(io.LimitReader(resp.Body, sizeLimit+1))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if int64(len(data)) > sizeLimit {
		return nil, e.Wrap(op, e.ErrImageTooLarge)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &usecase.FetchedImage{
		Data:     data,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}
