package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/infrastructure/scheduler"
)

// SyncScheduler is the trigger surface the sync endpoints need
type SyncScheduler interface {
	TriggerSync(ctx context.Context) error
	IsRunning() bool
	History(limit int) []scheduler.SyncRun
}

// MarketplaceSyncer runs a synchronous pass over one marketplace
type MarketplaceSyncer interface {
	SyncMarketplace(ctx context.Context, marketplace integration.Marketplace) (integration.SourceSyncReport, error)
}

// SyncHandler exposes manual sync runs and run history
type SyncHandler struct {
	BaseHandler
	trigger SyncScheduler
	syncer  MarketplaceSyncer
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(trigger SyncScheduler, syncer MarketplaceSyncer) *SyncHandler {
	return &SyncHandler{trigger: trigger, syncer: syncer}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	syncGroup := rg.Group("/sync")
	{
		syncGroup.POST("/run", h.Run)
		syncGroup.GET("/status", h.Status)
	}
}

// RunSyncRequest selects what to sync. An empty marketplace runs the
// full pass over every configured channel in the background.
type RunSyncRequest struct {
	Marketplace string `json:"marketplace" binding:"omitempty,oneof=woocommerce amazon flipkart"`
}

// Run starts a sync pass. A single marketplace runs synchronously and
// returns its report; a full pass is handed to the background trigger.
func (h *SyncHandler) Run(c *gin.Context) {
	var req RunSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	if req.Marketplace == "" {
		if err := h.trigger.TriggerSync(c.Request.Context()); err != nil {
			h.HandleError(c, err)
			return
		}
		h.Accepted(c, gin.H{"message": "full sync started"})
		return
	}

	report, err := h.syncer.SyncMarketplace(c.Request.Context(), integration.Marketplace(req.Marketplace))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// SyncStatusResponse reports trigger state and recent runs
type SyncStatusResponse struct {
	Running bool                `json:"running"`
	History []scheduler.SyncRun `json:"history"`
}

// Status returns whether the trigger is running and its recent run history
func (h *SyncHandler) Status(c *gin.Context) {
	limit := 20
	history := h.trigger.History(limit)
	if history == nil {
		history = []scheduler.SyncRun{}
	}
	h.Success(c, SyncStatusResponse{
		Running: h.trigger.IsRunning(),
		History: history,
	})
}
