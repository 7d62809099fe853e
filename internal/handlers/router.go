package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tunebridge/internal/catalog"
	"tunebridge/internal/models"
)

// HealthHandler reports service and catalog health
type HealthHandler struct {
	db       *models.Database
	catalogs *catalog.Registry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *models.Database, catalogs *catalog.Registry) *HealthHandler {
	return &HealthHandler{db: db, catalogs: catalogs}
}

// Health handles GET /health. The database must be reachable for the
// service to report healthy; catalog outages are reported but do not flip
// the overall status, conversions degrade per-catalog instead.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	response := gin.H{"status": "ok"}

	if h.db != nil {
		if err := h.db.Client.Ping(ctx, nil); err != nil {
			status = http.StatusServiceUnavailable
			response["status"] = "degraded"
			response["database"] = err.Error()
		}
	}

	catalogs := gin.H{}
	for _, name := range h.catalogs.Catalogs() {
		if err := h.catalogs.Get(name).Health(ctx); err != nil {
			catalogs[name] = err.Error()
		} else {
			catalogs[name] = "ok"
		}
	}
	response["catalogs"] = catalogs

	c.JSON(status, response)
}

// RegisterRoutes wires all HTTP routes onto the router
func RegisterRoutes(router *gin.Engine, conversions *ConversionHandler, recommendations *RecommendationHandler, health *HealthHandler) {
	router.GET("/health", health.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/conversions", conversions.StartConversion)
		v1.GET("/conversions/:id", conversions.GetConversion)
		v1.GET("/playlists/:id/compatibility/:catalog", conversions.CheckCompatibility)

		v1.POST("/recommendations", recommendations.Recommend)
		v1.GET("/recommendations/moods", recommendations.ListMoods)
	}
}
