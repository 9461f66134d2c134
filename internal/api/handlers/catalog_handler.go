package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stocksense/backend-go/internal/domain"
	"github.com/stocksense/backend-go/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type createIngredientTypeRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

func (h *CatalogHandler) CreateIngredientType(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	var req createIngredientTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t := &domain.IngredientType{OrgID: org, Name: req.Name, Category: req.Category}
	if err := h.catalog.CreateIngredientType(c.Request.Context(), t); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *CatalogHandler) ListIngredientTypes(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	types, err := h.catalog.ListIngredientTypes(c.Request.Context(), org)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredient_types": types})
}

func (h *CatalogHandler) DeleteIngredientType(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	typeID, err := parseID(c.Param("type_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient type id"})
		return
	}

	if err := h.catalog.DeleteIngredientType(c.Request.Context(), org, typeID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type createDishRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CatalogHandler) CreateDish(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	var req createDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	d := &domain.Dish{OrgID: org, Name: req.Name}
	if err := h.catalog.CreateDish(c.Request.Context(), d); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

func (h *CatalogHandler) ListDishes(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}

	dishes, err := h.catalog.ListDishes(c.Request.Context(), org)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

func (h *CatalogHandler) DeleteDish(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	dishID, err := parseID(c.Param("dish_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}

	if err := h.catalog.DeleteDish(c.Request.Context(), org, dishID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type recipeLineRequest struct {
	IngredientTypeID int64            `json:"ingredient_type_id" binding:"required"`
	Quantity         *decimal.Decimal `json:"quantity"`
	Unit             *string          `json:"unit"`
}

// SetRecipe replaces the dish's whole recipe (replace-all semantics).
func (h *CatalogHandler) SetRecipe(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	dishID, err := parseID(c.Param("dish_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}

	var req []recipeLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	lines := make([]domain.RecipeLine, 0, len(req))
	for _, r := range req {
		line := domain.RecipeLine{IngredientTypeID: r.IngredientTypeID, Unit: r.Unit}
		if r.Quantity != nil {
			line.Quantity = decimal.NewNullDecimal(*r.Quantity)
		}
		lines = append(lines, line)
	}

	if err := h.catalog.SetRecipe(c.Request.Context(), org, dishID, lines); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) GetRecipe(c *gin.Context) {
	org, ok := orgID(c)
	if !ok {
		return
	}
	dishID, err := parseID(c.Param("dish_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}

	lines, err := h.catalog.GetRecipe(c.Request.Context(), org, dishID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": lines})
}
