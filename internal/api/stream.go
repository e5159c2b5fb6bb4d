package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lolitemaultes/NRTV/internal/guide"
	"github.com/lolitemaultes/NRTV/internal/logger"
)

// proxyHeaderTimeout bounds the wait for upstream response headers; the body
// copy itself runs for the lifetime of the listening client.
const proxyHeaderTimeout = 30 * time.Second

// StreamResponse represents a resolved stream reference
type StreamResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Stream string `json:"stream"`
	Kind   string `json:"kind"`
	// Proxy is the local pass-through path, set for radio channels whose
	// upstream streams are CORS-blocked in browsers.
	Proxy string `json:"proxy,omitempty"`
}

// StreamHandler resolves channel ids to playable stream references for
// playback handoff, and proxies radio streams that browsers cannot fetch
// directly.
type StreamHandler struct {
	store     *guide.Store
	userAgent string
	client    *http.Client
}

// NewStreamHandler creates a new stream handler instance
func NewStreamHandler(store *guide.Store, userAgent string) *StreamHandler {
	return &StreamHandler{
		store:     store,
		userAgent: userAgent,
		client: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: proxyHeaderTimeout},
		},
	}
}

// proxyPath returns the local pass-through path for a radio channel id.
func proxyPath(channelID string) string {
	return "/api/channels/" + channelID + "/proxy"
}

// ResolveStream handles GET /api/channels/:id/stream
// Redirects to the upstream stream by default; ?format=json returns the
// reference as JSON for players that manage their own fetch.
func (h *StreamHandler) ResolveStream(c *gin.Context) {
	snap := h.store.Current()
	channelID := c.Param("id")

	ch, ok := snap.ChannelByID(channelID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "channel_not_found",
			Message: "No channel with id " + channelID,
		})
		return
	}

	if c.Query("format") == "json" {
		resp := StreamResponse{
			ID:     ch.ID,
			Name:   ch.Name,
			Stream: ch.StreamURL,
			Kind:   string(ch.Kind),
		}
		if ch.IsRadio() {
			resp.Proxy = proxyPath(ch.ID)
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	c.Redirect(http.StatusFound, ch.StreamURL)
}

// ProxyStream handles GET /api/channels/:id/proxy
// Pass-through proxy for radio streams: the upstream audio sources reject
// cross-origin browser requests, so the body is relayed through this origin
// with permissive CORS headers. Video channels are never proxied.
func (h *StreamHandler) ProxyStream(c *gin.Context) {
	snap := h.store.Current()
	channelID := c.Param("id")

	ch, ok := snap.ChannelByID(channelID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "channel_not_found",
			Message: "No channel with id " + channelID,
		})
		return
	}
	if !ch.IsRadio() {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_audio_channel",
			Message: "Channel " + channelID + " is not an audio channel",
		})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, ch.StreamURL, nil)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "stream_unavailable",
			Message: "Upstream stream is not reachable",
		})
		return
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "audio/*,*/*")

	resp, err := h.client.Do(req)
	if err != nil {
		logger.Log.Warn().
			Str("channel", ch.ID).
			Err(err).
			Msg("Audio proxy upstream request failed")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "stream_unavailable",
			Message: "Upstream stream is not reachable",
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Warn().
			Str("channel", ch.ID).
			Int("status", resp.StatusCode).
			Msg("Audio proxy upstream returned error status")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "stream_unavailable",
			Message: "Upstream stream is not reachable",
		})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Range, Content-Type, Accept")
	c.Status(http.StatusOK)

	// Client disconnect cancels the request context, which ends the copy.
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		logger.Log.Debug().
			Str("channel", ch.ID).
			Err(err).
			Msg("Audio proxy stream ended")
	}
}

// SetupStreamRoutes registers stream resolution and proxy routes
func SetupStreamRoutes(apiGroup *gin.RouterGroup, store *guide.Store, userAgent string) {
	handler := NewStreamHandler(store, userAgent)
	apiGroup.GET("/channels/:id/stream", handler.ResolveStream)
	apiGroup.GET("/channels/:id/proxy", handler.ProxyStream)
}
