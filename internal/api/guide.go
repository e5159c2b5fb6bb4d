package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lolitemaultes/NRTV/internal/guide"
)

// GuideChannelResponse is one channel's schedule in the guide dump
type GuideChannelResponse struct {
	LCN        int                  `json:"lcn"`
	Name       string               `json:"name"`
	Programmes []*ProgrammeResponse `json:"programmes"`
}

// GuideHandler serves the full guide dump used by the grid UI's guide
// overlay: programme lists keyed by channel id (LCNs may be duplicated
// across channels), live state evaluated server-side.
type GuideHandler struct {
	store *guide.Store
	now   func() time.Time
}

// NewGuideHandler creates a new guide handler instance
func NewGuideHandler(store *guide.Store) *GuideHandler {
	return &GuideHandler{
		store: store,
		now:   time.Now,
	}
}

// GetGuide handles GET /api/guide
func (h *GuideHandler) GetGuide(c *gin.Context) {
	snap := h.store.Current()
	at := h.now().UTC()

	out := make(map[string]GuideChannelResponse, len(snap.Channels))
	for i := range snap.Channels {
		ch := &snap.Channels[i]
		progs := snap.Programmes[ch.ID]
		if len(progs) == 0 {
			continue
		}
		views := make([]*ProgrammeResponse, 0, len(progs))
		for j := range progs {
			views = append(views, toProgrammeResponse(&progs[j], at))
		}
		out[ch.ID] = GuideChannelResponse{
			LCN:        ch.LCN,
			Name:       ch.Name,
			Programmes: views,
		}
	}

	c.JSON(http.StatusOK, out)
}

// SetupGuideRoutes registers guide dump routes
func SetupGuideRoutes(apiGroup *gin.RouterGroup, store *guide.Store) {
	handler := NewGuideHandler(store)
	apiGroup.GET("/guide", handler.GetGuide)
}
