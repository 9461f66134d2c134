package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stocksense/backend-go/internal/domain"
)

// writeError maps domain failures to HTTP responses. Everything in the
// core error taxonomy is a structured, recoverable failure; anything
// unrecognized is a 500.
func writeError(c *gin.Context, err error) {
	var incomplete *domain.IncompleteRecipeError
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrDishNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrBatchIdentity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  incomplete.Error(),
			"dish":   incomplete.Dish,
			"reason": incomplete.Reason,
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":      insufficient.Error(),
			"ingredient": insufficient.Ingredient,
			"required":   insufficient.Required.StringFixed(2),
			"available":  insufficient.Available.StringFixed(2),
			"unit":       insufficient.Unit,
		})
	case errors.Is(err, domain.ErrNoStockAvailable),
		errors.Is(err, domain.ErrIngredientTypeInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

func orgID(c *gin.Context) (int64, bool) {
	id, err := parseID(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid org id"})
		return 0, false
	}
	return id, true
}
