package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stocksense/backend-go/internal/report"
	"github.com/stocksense/backend-go/internal/service"
	"github.com/stocksense/backend-go/internal/storage"
)

type ForecastHandler struct {
	forecast *service.ForecastService
	advisor  *service.AdvisorService
	archive  storage.ObjectStorage
}

func NewForecastHandler(forecast *service.ForecastService, advisor *service.AdvisorService, archive storage.ObjectStorage) *ForecastHandler {
	return &ForecastHandler{forecast: forecast, advisor: advisor, archive: archive}
}

// resolveForecastParams loads the org's stored settings and applies any
// per-request query overrides.
func (h *ForecastHandler) resolveForecastParams(c *gin.Context, org int64) (leadTimeDays, bufferDays int, ok bool) {
	leadTimeDays, bufferDays, err := h.forecast.ResolveSettings(c.Request.Context(), org)
	if err != nil {
		writeError(c, err)
		return 0, 0, false
	}

	if raw := c.Query("lead_time_days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_time_days"})
			return 0, 0, false
		}
		leadTimeDays = v
	}
	if raw := c.Query("low_stock_buffer_days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid low_stock_buffer_days"})
			return 0, 0, false
		}
		bufferDays = v
	}
	return leadTimeDays, bufferDays, true
}

func (h *ForecastHandler) Stockouts(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	leadTimeDays, bufferDays, ok := h.resolveForecastParams(c, org)
	if !ok {
		return
	}

	forecast, err := h.forecast.PredictStockouts(c.Request.Context(), org, leadTimeDays, bufferDays)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions":    forecast.Predictions,
		"summary":        forecast.Summary,
		"lead_time_days": leadTimeDays,
		"buffer_days":    bufferDays,
	})
}

func (h *ForecastHandler) Reorder(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	leadTimeDays, bufferDays, ok := h.resolveForecastParams(c, org)
	if !ok {
		return
	}

	suggestions, err := h.advisor.ReorderSuggestions(c.Request.Context(), org, leadTimeDays, bufferDays)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "total": len(suggestions)})
}

// ExportReorder streams the reorder suggestions as CSV. With
// ?archive=true the report is also uploaded to object storage.
func (h *ForecastHandler) ExportReorder(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	leadTimeDays, bufferDays, ok := h.resolveForecastParams(c, org)
	if !ok {
		return
	}

	suggestions, err := h.advisor.ReorderSuggestions(c.Request.Context(), org, leadTimeDays, bufferDays)
	if err != nil {
		writeError(c, err)
		return
	}

	data, err := report.RenderReorderCSV(suggestions)
	if err != nil {
		writeError(c, err)
		return
	}

	if c.Query("archive") == "true" {
		if h.archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archival is not configured"})
			return
		}
		key := report.ObjectKey(org, time.Now().UTC())
		if err := h.archive.UploadObject(c.Request.Context(), key, "text/csv", data); err != nil {
			writeError(c, err)
			return
		}
		log.Info().Int64("org_id", org).Str("key", key).Msg("reorder report archived")
		c.Header("X-Archive-Key", key)
	}

	filename := fmt.Sprintf("reorder-%d-%s.csv", org, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// ListArchivedReports enumerates previously archived reorder reports for
// the org.
func (h *ForecastHandler) ListArchivedReports(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archival is not configured"})
		return
	}

	objects, err := h.archive.ListObjects(c.Request.Context(), fmt.Sprintf("reorder/%d/", org))
	if err != nil {
		writeError(c, err)
		return
	}

	reports := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		reports = append(reports, gin.H{"key": obj.Key, "size": obj.Size})
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": len(reports)})
}
