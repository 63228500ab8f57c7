package mock_generator

import (
	"ad-agent-api/infrastructure/gin_interface/controllers"
	"ad-agent-api/middleware"

	"github.com/gin-gonic/gin"
)

type MockAdController interface {
	RegisterRoutes(g *gin.Engine)
}

// mockAdController serves the regular handlers under /api/mock, backed by a replayed script.
type mockAdController struct {
	controller controllers.AdGenerationController
}

func NewMockAdController(controller controllers.AdGenerationController) MockAdController {
	return &mockAdController{
		controller: controller,
	}
}

func (m *mockAdController) RegisterRoutes(g *gin.Engine) {
	g.POST("/api/mock/generate", m.controller.Generate)
	g.POST("/api/mock/generate/stream", middleware.SSEMiddleware(), m.controller.Stream)
}
