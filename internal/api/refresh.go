package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/lolitemaultes/NRTV/internal/syncer"
)

// RefreshResponse reports what happened to a manual resync request
type RefreshResponse struct {
	Status string `json:"status"`
}

// Manual refreshes are throttled so a misbehaving client cannot hammer the
// upstream feeds: one every 30 seconds with a burst of 2.
const (
	refreshRate  = rate.Limit(1.0 / 30.0)
	refreshBurst = 2
)

// RefreshHandler exposes the manual resync trigger
type RefreshHandler struct {
	syncer  *syncer.Syncer
	limiter *rate.Limiter
}

// NewRefreshHandler creates a new refresh handler instance
func NewRefreshHandler(s *syncer.Syncer) *RefreshHandler {
	return &RefreshHandler{
		syncer:  s,
		limiter: rate.NewLimiter(refreshRate, refreshBurst),
	}
}

// TriggerRefresh handles POST /api/refresh
// A trigger arriving while a sync is already in flight is coalesced into
// that cycle, which still counts as accepted.
func (h *RefreshHandler) TriggerRefresh(c *gin.Context) {
	if !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error:   "rate_limited",
			Message: "Refresh requested too frequently",
		})
		return
	}

	status := "accepted"
	if !h.syncer.TriggerSync() {
		status = "coalesced"
	}
	c.JSON(http.StatusAccepted, RefreshResponse{Status: status})
}

// SetupRefreshRoutes registers manual resync routes
func SetupRefreshRoutes(apiGroup *gin.RouterGroup, s *syncer.Syncer) {
	handler := NewRefreshHandler(s)
	apiGroup.POST("/refresh", handler.TriggerRefresh)
}
