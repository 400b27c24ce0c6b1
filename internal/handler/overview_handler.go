package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursebook-api/internal/middleware"
	"github.com/noah-isme/coursebook-api/internal/models"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
	"github.com/noah-isme/coursebook-api/pkg/response"
)

type overviewService interface {
	Get(ctx context.Context) (*models.Overview, bool, error)
}

// OverviewHandler serves the dashboard landing page.
type OverviewHandler struct {
	service overviewService
}

// NewOverviewHandler constructs the handler.
func NewOverviewHandler(service overviewService) *OverviewHandler {
	return &OverviewHandler{service: service}
}

// Get godoc
// @Summary Dashboard overview
// @Description Counts, recent records and the next upcoming events for the current month.
// @Tags Overview
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /overview [get]
func (h *OverviewHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	overview, cacheHit, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, overview, nil, meta)
}
