package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lolitemaultes/NRTV/internal/db"
	"github.com/lolitemaultes/NRTV/internal/guide"
	"github.com/lolitemaultes/NRTV/internal/syncer"
)

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status     string        `json:"status"`
	Time       string        `json:"time"`
	Sync       syncer.Status `json:"sync"`
	Channels   int           `json:"channels"`
	Programmes int           `json:"programmes"`
	Database   string        `json:"database,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	store  *guide.Store
	syncer *syncer.Syncer
	db     *db.DB // may be nil when the snapshot cache is disabled
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(store *guide.Store, s *syncer.Syncer, database *db.DB) *HealthHandler {
	return &HealthHandler{store: store, syncer: s, db: database}
}

// Check handles the health check endpoint. Sync failures degrade the status
// but the service stays healthy as long as a snapshot is being served.
func (h *HealthHandler) Check(c *gin.Context) {
	snap := h.store.Current()

	response := HealthResponse{
		Status:     "ok",
		Time:       time.Now().UTC().Format(time.RFC3339),
		Sync:       h.syncer.Status(),
		Channels:   len(snap.Channels),
		Programmes: snap.ProgrammeCount(),
	}
	if response.Sync.LastError != "" {
		response.Status = "degraded"
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Health(ctx); err != nil {
			response.Database = "unhealthy"
			response.Status = "degraded"
		} else {
			response.Database = "healthy"
		}
	}

	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, store *guide.Store, s *syncer.Syncer, database *db.DB) {
	handler := NewHealthHandler(store, s, database)
	apiGroup.GET("/health", handler.Check)
}
