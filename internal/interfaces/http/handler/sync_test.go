package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/infrastructure/scheduler"
)

func newSyncRouter(trigger *stubTrigger, syncer *stubSyncer) *gin.Engine {
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSyncHandler(trigger, syncer).RegisterRoutes(api)
	return engine
}

func TestSyncHandler_Run_FullPass(t *testing.T) {
	trigger := &stubTrigger{running: true}
	router := newSyncRouter(trigger, &stubSyncer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync/run", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, trigger.triggered)
}

func TestSyncHandler_Run_SingleMarketplace(t *testing.T) {
	syncer := &stubSyncer{
		report: integration.SourceSyncReport{Marketplace: integration.MarketplaceAmazon},
	}
	router := newSyncRouter(&stubTrigger{}, syncer)

	body := strings.NewReader(`{"marketplace":"amazon"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/run", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, integration.MarketplaceAmazon, syncer.got)

	var resp struct {
		Data integration.SourceSyncReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, integration.MarketplaceAmazon, resp.Data.Marketplace)
}

func TestSyncHandler_Run_RejectsUnknownMarketplace(t *testing.T) {
	router := newSyncRouter(&stubTrigger{}, &stubSyncer{})

	body := strings.NewReader(`{"marketplace":"ebay"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/run", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandler_Run_TriggerFailure(t *testing.T) {
	trigger := &stubTrigger{triggerErr: scheduler.ErrTriggerNotRunning}
	router := newSyncRouter(trigger, &stubSyncer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync/run", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSyncHandler_Status(t *testing.T) {
	trigger := &stubTrigger{
		running: true,
		history: []scheduler.SyncRun{
			{Kind: "startup", StartedAt: time.Now().Add(-time.Minute), CompletedAt: time.Now()},
		},
	}
	router := newSyncRouter(trigger, &stubSyncer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data SyncStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Running)
	require.Len(t, resp.Data.History, 1)
	assert.Equal(t, "startup", resp.Data.History[0].Kind)
}

func TestSyncHandler_Status_EmptyHistory(t *testing.T) {
	router := newSyncRouter(&stubTrigger{}, &stubSyncer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"history":[]`)
}
