package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lolitemaultes/NRTV/internal/guide"
	"github.com/lolitemaultes/NRTV/internal/models"
)

// Request/Response DTOs

// ProgrammeResponse represents a guide entry in API responses
type ProgrammeResponse struct {
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	Start         time.Time `json:"start"`
	Stop          time.Time `json:"stop"`
	DurationMins  int       `json:"durationMins"`
	IsLive        bool      `json:"isLive"`
	Progress      float64   `json:"progress"`
	RemainingMins int       `json:"remainingMins"`
}

// NowNextResponse represents the now/next view for one channel
type NowNextResponse struct {
	Current *ProgrammeResponse `json:"current,omitempty"`
	Next    *ProgrammeResponse `json:"next,omitempty"`
	// HasGuideData is false when the channel exists in the playlist but the
	// EPG has nothing for it.
	HasGuideData bool `json:"hasGuideData"`
}

// ChannelResponse represents a channel in API responses
type ChannelResponse struct {
	ID      string          `json:"id"`
	LCN     int             `json:"lcn"`
	Name    string          `json:"name"`
	Logo    string          `json:"logo,omitempty"`
	Kind    string          `json:"kind"`
	NowNext NowNextResponse `json:"nowNext"`
}

// ChannelListResponse represents the channel list with sync metadata
type ChannelListResponse struct {
	Channels []ChannelResponse `json:"channels"`
	SyncedAt *time.Time        `json:"synced_at,omitempty"`
}

// ChannelHandler answers channel list and now/next queries against the
// latest published snapshot. Queries are evaluated at server wall-clock
// time; client-supplied instants are never trusted.
type ChannelHandler struct {
	store *guide.Store
	now   func() time.Time
}

// NewChannelHandler creates a new channel handler instance
func NewChannelHandler(store *guide.Store) *ChannelHandler {
	return &ChannelHandler{
		store: store,
		now:   time.Now,
	}
}

// toProgrammeResponse converts a programme to API response format,
// evaluating live state and progress at the given instant.
func toProgrammeResponse(p *models.Programme, at time.Time) *ProgrammeResponse {
	if p == nil {
		return nil
	}
	resp := &ProgrammeResponse{
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		Start:        p.Start,
		Stop:         p.Stop,
		DurationMins: int(p.Duration().Minutes()),
	}
	if p.Airing(at) {
		resp.IsLive = true
		resp.Progress = p.Progress(at)
		remaining := p.Stop.Sub(at).Minutes()
		if remaining > 0 {
			resp.RemainingMins = int(remaining)
		}
	}
	return resp
}

// toNowNextResponse converts a now/next result to API response format
func toNowNextResponse(nn models.NowNext, at time.Time) NowNextResponse {
	return NowNextResponse{
		Current:      toProgrammeResponse(nn.Current, at),
		Next:         toProgrammeResponse(nn.Next, at),
		HasGuideData: nn.HasGuideData(),
	}
}

// ListChannels handles GET /api/channels
// Channels come back in display order (LCN ascending, name tie-break) with
// now/next evaluated at server time.
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	snap := h.store.Current()
	at := h.now().UTC()

	channels := make([]ChannelResponse, 0, len(snap.Channels))
	for i := range snap.Channels {
		ch := &snap.Channels[i]
		nn, err := guide.NowNext(snap, ch.ID, at)
		if err != nil {
			// Channel ids in the snapshot are always known to it
			nn = models.NowNext{}
		}
		channels = append(channels, ChannelResponse{
			ID:      ch.ID,
			LCN:     ch.LCN,
			Name:    ch.Name,
			Logo:    ch.Logo,
			Kind:    string(ch.Kind),
			NowNext: toNowNextResponse(nn, at),
		})
	}

	resp := ChannelListResponse{Channels: channels}
	if !snap.SyncedAt.IsZero() {
		t := snap.SyncedAt
		resp.SyncedAt = &t
	}
	c.JSON(http.StatusOK, resp)
}

// GetNowNext handles GET /api/channels/:id/now
// A channel present in the playlist but absent from the EPG yields a valid
// empty result, not an error; only ids missing from the playlist get a 404.
func (h *ChannelHandler) GetNowNext(c *gin.Context) {
	snap := h.store.Current()
	at := h.now().UTC()
	channelID := c.Param("id")

	nn, err := guide.NowNext(snap, channelID, at)
	if err != nil {
		if guide.IsUnknownChannel(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "channel_not_found",
				Message: "No channel with id " + channelID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to evaluate now/next",
		})
		return
	}

	c.JSON(http.StatusOK, toNowNextResponse(nn, at))
}

// SetupChannelRoutes registers channel query routes
func SetupChannelRoutes(apiGroup *gin.RouterGroup, store *guide.Store) {
	handler := NewChannelHandler(store)
	apiGroup.GET("/channels", handler.ListChannels)
	apiGroup.GET("/channels/:id/now", handler.GetNowNext)
}
