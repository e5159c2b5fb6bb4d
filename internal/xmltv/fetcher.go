package xmltv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/lolitemaultes/NRTV/internal/logger"
)

const (
	maxGuideSize  = 64 << 20 // 64 MiB
	fetchAttempts = 2
)

// Fetcher retrieves an XMLTV document from one of the configured guide URLs
// and parses it. URLs are tried in order; the first document that parses
// wins.
type Fetcher struct {
	urls      []string
	userAgent string
	client    *http.Client
}

// NewFetcher creates a guide fetcher with a bounded per-request timeout.
func NewFetcher(urls []string, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		urls:      urls,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and parses the guide. Transport failures and malformed
// documents both move on to the next URL; when every source fails the last
// error is returned (wrapped ErrMalformedGuide when parsing was the
// problem).
func (f *Fetcher) Fetch(ctx context.Context) (*Guide, error) {
	if len(f.urls) == 0 {
		return nil, errors.New("no guide sources configured")
	}

	var lastErr error
	for _, rawURL := range f.urls {
		guide, err := f.fetchOne(ctx, rawURL)
		if err != nil {
			logger.Log.Warn().
				Str("url", rawURL).
				Err(err).
				Msg("Guide source failed, trying next")
			lastErr = err
			continue
		}
		return guide, nil
	}
	return nil, fmt.Errorf("all guide sources failed: %w", lastErr)
}

func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) (*Guide, error) {
	body, err := retry.DoWithData(
		func() ([]byte, error) { return f.download(ctx, rawURL) },
		retry.Context(ctx),
		retry.Attempts(fetchAttempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(body))
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxGuideSize))
}
