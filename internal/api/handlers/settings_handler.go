package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/service"
)

type SettingsHandler struct {
	forecast *service.ForecastService
}

func NewSettingsHandler(forecast *service.ForecastService) *SettingsHandler {
	return &SettingsHandler{forecast: forecast}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	leadTimeDays, bufferDays, err := h.forecast.ResolveSettings(c.Request.Context(), org)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.OrgSettings{
		OrgID:              org,
		LeadTimeDays:       leadTimeDays,
		LowStockBufferDays: bufferDays,
	})
}

type updateSettingsRequest struct {
	LeadTimeDays       int `json:"lead_time_days"`
	LowStockBufferDays int `json:"low_stock_buffer_days"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	settings := &domain.OrgSettings{
		OrgID:              org,
		LeadTimeDays:       req.LeadTimeDays,
		LowStockBufferDays: req.LowStockBufferDays,
	}
	if err := h.forecast.UpdateSettings(c.Request.Context(), settings); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
