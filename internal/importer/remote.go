package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=remote.go -destination=../mocks/importer/mock_fetcher.go -package=mock_importer Fetcher

// Fetcher downloads a question file from a remote location.
type Fetcher interface {
	Fetch(ctx context.Context, fileURL string) ([]byte, string, error)
}

// HTTPFetcher fetches question files over HTTP with retries on transient
// failures (5xx, 429, network errors).
type HTTPFetcher struct {
	client      *resty.Client
	maxAttempts uint
}

// NewHTTPFetcher creates a fetcher. attempts is the total number of tries
// per URL; 0 means a single try.
func NewHTTPFetcher(attempts uint) *HTTPFetcher {
	if attempts == 0 {
		attempts = 1
	}
	return &HTTPFetcher{
		client:      resty.New(),
		maxAttempts: attempts,
	}
}

// Fetch downloads fileURL and returns the body together with the filename
// derived from the URL path (the extension selects the parse format).
func (f *HTTPFetcher) Fetch(ctx context.Context, fileURL string) ([]byte, string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return nil, "", fmt.Errorf("url.Parse(%s) > %w", fileURL, err)
	}
	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" {
		return nil, "", fmt.Errorf("importer: cannot derive a filename from %s", fileURL)
	}

	var body []byte
	if err := retry.Do(
		func() error {
			res, err := f.client.R().SetContext(ctx).Get(fileURL)
			if err != nil {
				return fmt.Errorf("client.R().Get(%s) > %w", fileURL, err)
			}
			if res.StatusCode() != http.StatusOK {
				err := fmt.Errorf("status code: %d, body: %s", res.StatusCode(), strings.TrimSpace(string(res.Body())))
				if !isRetryableStatus(res.StatusCode()) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = res.Body()
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.maxAttempts),
	); err != nil {
		return nil, "", err
	}
	return body, filename, nil
}

func isRetryableStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}
