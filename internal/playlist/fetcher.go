// Package playlist fetches the upstream channel list and turns it into
// validated channel records. Supported formats are extended M3U and a JSON
// channel map; both are treated as untrusted input.
package playlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/lolitemaultes/NRTV/internal/logger"
	"github.com/lolitemaultes/NRTV/internal/models"
)

const (
	maxPlaylistSize = 32 << 20 // 32 MiB
	fetchAttempts   = 2
)

// Fetcher retrieves the channel lineup from one of the configured upstream
// playlist URLs. With no URLs configured it serves the built-in Northern NSW
// lineup, so the service works out of the box.
type Fetcher struct {
	urls      []string
	userAgent string
	client    *http.Client
}

// NewFetcher creates a playlist fetcher. timeout bounds each upstream
// request; treat a timeout as a normal fetch failure.
func NewFetcher(urls []string, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		urls:      urls,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves and parses the channel list. URLs are tried in order with
// a bounded per-URL retry; the first playlist that yields usable channels
// wins. All failures together produce ErrPlaylistUnavailable.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.Channel, time.Time, error) {
	if len(f.urls) == 0 {
		channels := BuiltinLineup()
		logger.Log.Debug().
			Int("channels", len(channels)).
			Msg("No playlist URL configured, using built-in lineup")
		return channels, time.Now().UTC(), nil
	}

	var lastErr error
	for _, rawURL := range f.urls {
		channels, err := f.fetchOne(ctx, rawURL)
		if err != nil {
			logger.Log.Warn().
				Str("url", rawURL).
				Err(err).
				Msg("Playlist source failed, trying next")
			lastErr = err
			continue
		}
		return channels, time.Now().UTC(), nil
	}
	return nil, time.Time{}, fmt.Errorf("%w: %v", ErrPlaylistUnavailable, lastErr)
}

// fetchOne downloads and parses a single playlist URL with retry on
// transport errors.
func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) ([]models.Channel, error) {
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

	var channels []models.Channel
	if looksLikeM3U(body) {
		channels, err = parseM3U(bytes.NewReader(body))
	} else {
		channels, err = parseJSON(bytes.NewReader(body))
	}
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, ErrNoUsableChannels
	}
	return channels, nil
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
	return io.ReadAll(io.LimitReader(resp.Body, maxPlaylistSize))
}

// looksLikeM3U sniffs the playlist format from the document header.
func looksLikeM3U(body []byte) bool {
	head := strings.TrimSpace(string(body[:min(len(body), 64)]))
	return strings.HasPrefix(head, "#EXTM3U") || strings.HasPrefix(head, "#EXTINF")
}

// validateChannel checks the fields of a parsed channel before acceptance.
// The stream reference must be an absolute http(s) URI.
func validateChannel(ch *models.Channel) error {
	if ch.Name == "" {
		return errors.New("missing display name")
	}
	if ch.ID == "" {
		return errors.New("missing channel id")
	}
	u, err := url.Parse(ch.StreamURL)
	if err != nil {
		return fmt.Errorf("invalid stream URI: %w", err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid stream URI scheme %q", u.Scheme)
	}
	if ch.LCN < 0 {
		return errors.New("negative logical channel number")
	}
	return nil
}
