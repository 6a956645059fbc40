package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theodore333/vayne-study-sub002/internal/services"
)

type HealthHandler struct {
	cache *services.PlanCache
}

func NewHealthHandler(cache *services.PlanCache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusServiceUnavailable, "cache unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}
