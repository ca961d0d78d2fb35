package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shelfmirror/inventory-service/internal/mirror"
	"github.com/shelfmirror/inventory-service/internal/syncer"
)

// syncTimeout bounds a background full sync. Large catalogs page at 1000
// items per request, so even tens of thousands of items finish well inside.
const syncTimeout = 30 * time.Minute

// SyncHandler exposes full-sync trigger and status endpoints.
type SyncHandler struct {
	orchestrator *syncer.Orchestrator
	store        *mirror.Store
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(orchestrator *syncer.Orchestrator, store *mirror.Store) *SyncHandler {
	return &SyncHandler{orchestrator: orchestrator, store: store}
}

// TriggerSyncResponse represents the accepted-sync response
type TriggerSyncResponse struct {
	Status string `json:"status" jsonschema:"required"`
}

// TriggerSync starts a full catalog sync in the background
// @Summary Trigger full sync
// @Description Starts a background full sync of the remote catalog into the local mirror. Returns 409 if a sync is already running.
// @Tags sync
// @Accept json
// @Produce json
// @Success 202 {object} TriggerSyncResponse
// @Failure 409 {object} map[string]string "Sync already in progress"
// @Router /internal/sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	if h.orchestrator.Running() {
		c.JSON(http.StatusConflict, gin.H{"error": syncer.ErrSyncInProgress.Error()})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		if _, err := h.orchestrator.Run(ctx); err != nil && !errors.Is(err, syncer.ErrSyncInProgress) {
			log.Error().Err(err).Msg("Background sync failed")
		}
	}()

	c.JSON(http.StatusAccepted, TriggerSyncResponse{Status: "started"})
}

// LatestSyncResponse represents the latest sync run
type LatestSyncResponse struct {
	Run     *mirror.SyncRun `json:"run"`
	Running bool            `json:"running" jsonschema:"required"`
}

// GetLatestSync returns the most recent sync run
// @Summary Get latest sync run
// @Description Returns the most recent full-sync run, which represents the mirror's freshness.
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} LatestSyncResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/sync/latest [get]
func (h *SyncHandler) GetLatestSync(c *gin.Context) {
	run, err := h.store.LatestSyncRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest sync run"})
		return
	}

	c.JSON(http.StatusOK, LatestSyncResponse{
		Run:     run,
		Running: h.orchestrator.Running(),
	})
}
