package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/pkg/cache"
)

// HealthController reports dependency health.
type HealthController struct {
	database *db.PostgresDB
	cache    *cache.TokenCache
}

func NewHealthController(database *db.PostgresDB, tokenCache *cache.TokenCache) *HealthController {
	return &HealthController{database: database, cache: tokenCache}
}

// Health godoc
// @Summary Liveness and dependency health
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{"status": "ok", "database": "ok", "cache": "ok"}

	if err := ctrl.database.Pool.Ping(c.Request.Context()); err != nil {
		checks["status"] = "degraded"
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := ctrl.cache.Healthy(c.Request.Context()); err != nil {
		checks["status"] = "degraded"
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, checks)
}
