package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stocksense/backend-go/internal/api/handlers"
	"github.com/stocksense/backend-go/internal/api/middleware"
	"github.com/stocksense/backend-go/internal/service"
	"github.com/stocksense/backend-go/internal/storage"
)

type Services struct {
	Catalog     *service.CatalogService
	Consumption *service.ConsumptionService
	Forecast    *service.ForecastService
	Advisor     *service.AdvisorService
	Archive     storage.ObjectStorage
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Archive-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		orgGroup := apiGroup.Group("/orgs/:org_id")

		if services.Catalog != nil {
			catalogHandler := handlers.NewCatalogHandler(services.Catalog)
			{
				orgGroup.POST("/ingredient_types", catalogHandler.CreateIngredientType)
				orgGroup.GET("/ingredient_types", catalogHandler.ListIngredientTypes)
				orgGroup.DELETE("/ingredient_types/:type_id", catalogHandler.DeleteIngredientType)

				orgGroup.POST("/dishes", catalogHandler.CreateDish)
				orgGroup.GET("/dishes", catalogHandler.ListDishes)
				orgGroup.DELETE("/dishes/:dish_id", catalogHandler.DeleteDish)
				orgGroup.GET("/dishes/:dish_id/recipe", catalogHandler.GetRecipe)
				orgGroup.PUT("/dishes/:dish_id/recipe", catalogHandler.SetRecipe)
			}
		}

		if services.Consumption != nil && services.Catalog != nil {
			stockHandler := handlers.NewStockHandler(services.Consumption, services.Catalog)
			stockGroup := orgGroup.Group("/stock")
			{
				stockGroup.POST("/consume", stockHandler.Consume)
				stockGroup.POST("/batches", stockHandler.CreateBatch)
				stockGroup.GET("/batches", stockHandler.ListBatches)
				stockGroup.GET("/totals", stockHandler.StockTotals)
			}
		}

		if services.Forecast != nil {
			settingsHandler := handlers.NewSettingsHandler(services.Forecast)
			orgGroup.GET("/settings", settingsHandler.Get)
			orgGroup.PUT("/settings", settingsHandler.Update)

			if services.Advisor != nil {
				forecastHandler := handlers.NewForecastHandler(services.Forecast, services.Advisor, services.Archive)
				analyticsGroup := orgGroup.Group("/analytics")
				{
					analyticsGroup.GET("/stockouts", forecastHandler.Stockouts)
					analyticsGroup.GET("/reorder", forecastHandler.Reorder)
					analyticsGroup.GET("/reorder/export", forecastHandler.ExportReorder)
					analyticsGroup.GET("/reorder/archives", forecastHandler.ListArchivedReports)
				}
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
