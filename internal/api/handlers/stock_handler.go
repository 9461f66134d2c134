package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/service"
)

type StockHandler struct {
	consumption *service.ConsumptionService
	catalog     *service.CatalogService
}

func NewStockHandler(consumption *service.ConsumptionService, catalog *service.CatalogService) *StockHandler {
	return &StockHandler{consumption: consumption, catalog: catalog}
}

type consumeRequest struct {
	DishID   int64           `json:"dish_id" binding:"required"`
	Servings decimal.Decimal `json:"servings"`
}

func (h *StockHandler) Consume(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	var req consumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.consumption.Consume(c.Request.Context(), org, req.DishID, req.Servings)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type createBatchRequest struct {
	IngredientTypeID int64           `json:"ingredient_type_id" binding:"required"`
	Expiry           *string         `json:"expiry,omitempty"`
	LotNumber        *string         `json:"lot_number,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit" binding:"required"`
}

func (h *StockHandler) CreateBatch(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	batch := &domain.Batch{
		OrgID:            org,
		IngredientTypeID: req.IngredientTypeID,
		LotNumber:        req.LotNumber,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
	}
	if req.Expiry != nil {
		expiry, err := time.Parse("2006-01-02", *req.Expiry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry date, expected YYYY-MM-DD"})
			return
		}
		batch.Expiry = &expiry
	}

	if err := h.catalog.CreateBatch(c.Request.Context(), batch); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, batch)
}

func (h *StockHandler) ListBatches(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	batches, err := h.catalog.ListBatches(c.Request.Context(), org)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": batches, "total": len(batches)})
}

func (h *StockHandler) StockTotals(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	totals, err := h.catalog.StockTotals(c.Request.Context(), org)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
