package handler

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/interfaces/http/dto"
)

// maxUploadBytes bounds one uploaded export file
const maxUploadBytes = 20 << 20

// FlipkartIngestor processes uploaded Flipkart CSV exports
type FlipkartIngestor interface {
	IngestProducts(ctx context.Context, fileName string, r io.Reader) (*integration.UploadLog, error)
	IngestOrders(ctx context.Context, fileName string, r io.Reader) (*integration.UploadLog, error)
}

// UploadHandler accepts marketplace export files over HTTP
type UploadHandler struct {
	BaseHandler
	ingestor FlipkartIngestor
	uploads  integration.UploadLogRepository
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(ingestor FlipkartIngestor, uploads integration.UploadLogRepository) *UploadHandler {
	return &UploadHandler{ingestor: ingestor, uploads: uploads}
}

// RegisterRoutes registers upload routes
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	{
		uploads.POST("/flipkart/products", h.UploadProducts)
		uploads.POST("/flipkart/orders", h.UploadOrders)
		uploads.GET("", h.List)
	}
}

// UploadProducts ingests a Flipkart product export
func (h *UploadHandler) UploadProducts(c *gin.Context) {
	h.ingest(c, h.ingestor.IngestProducts)
}

// UploadOrders ingests a Flipkart order export
func (h *UploadHandler) UploadOrders(c *gin.Context) {
	h.ingest(c, h.ingestor.IngestOrders)
}

func (h *UploadHandler) ingest(c *gin.Context, run func(ctx context.Context, fileName string, r io.Reader) (*integration.UploadLog, error)) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "missing file upload field \"file\"")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		h.BadRequest(c, "uploaded file is too large")
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		h.BadRequest(c, "only .csv exports are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	log, err := run(c.Request.Context(), filepath.Base(fileHeader.Filename), file)
	if err != nil {
		// The audit row still describes the failure.
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidInput, err.Error())
		return
	}
	h.Success(c, toUploadResponse(log))
}

// UploadLogResponse is the wire shape of one upload audit record
type UploadLogResponse struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	Marketplace string `json:"marketplace"`
	RecordType  string `json:"record_type"`
	TotalRows   int    `json:"total_rows"`
	Success     int    `json:"success_count"`
	Failed      int    `json:"failed_count"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toUploadResponse(log *integration.UploadLog) UploadLogResponse {
	return UploadLogResponse{
		ID:          log.ID.String(),
		FileName:    log.FileName,
		Marketplace: log.Marketplace.String(),
		RecordType:  string(log.RecordType),
		TotalRows:   log.TotalRows,
		Success:     log.SuccessCount,
		Failed:      log.FailedCount,
		Status:      string(log.Status),
		Error:       log.Error,
		CreatedAt:   log.CreatedAt.Format(time.RFC3339),
	}
}

// List returns the most recent upload audit records
func (h *UploadHandler) List(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	logs, err := h.uploads.FindRecent(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]UploadLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, toUploadResponse(&logs[i]))
	}
	h.Success(c, responses)
}
