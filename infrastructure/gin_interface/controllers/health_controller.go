package controllers

import (
	"ad-agent-api/infrastructure/gin_interface/dto"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController interface {
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type healthController struct {
	features dto.HealthResponse
}

// NewHealthController reports which optional integrations this instance was started with.
func NewHealthController(voice bool, video bool, assetStore bool) HealthController {
	return &healthController{
		features: dto.HealthResponse{
			Status:     "ok",
			Voice:      voice,
			Video:      video,
			AssetStore: assetStore,
		},
	}
}

func (h *healthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.features)
}

func (h *healthController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", h.Health)
}
