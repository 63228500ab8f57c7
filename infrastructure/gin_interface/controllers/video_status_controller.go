package controllers

import (
	"ad-agent-api/application/ports/inbound"
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/domain"
	"ad-agent-api/infrastructure/gin_interface/dto"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VideoStatusController interface {
	GetVideoStatus(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type videoStatusController struct {
	logger       outbound.LoggerPort
	statusReader inbound.VideoStatusPort
}

func NewVideoStatusController(logger outbound.LoggerPort, statusReader inbound.VideoStatusPort) VideoStatusController {
	return &videoStatusController{
		logger:       logger,
		statusReader: statusReader,
	}
}

func (v *videoStatusController) GetVideoStatus(c *gin.Context) {
	jobID := c.Param("jobId")

	status, err := v.statusReader.Check(c.Request.Context(), jobID)
	switch {
	case errors.Is(err, domain.ErrVideoJobNotFound):
		c.JSON(http.StatusNotFound, dto.VideoStatusResponse{Ok: false, Error: domain.VideoJobNotFoundMessage})
		return
	case errors.Is(err, domain.ErrVideoGenerationDisabled):
		c.JSON(http.StatusServiceUnavailable, dto.VideoStatusResponse{Ok: false, Error: "Video generation is not configured."})
		return
	case err != nil:
		v.logger.ErrorWithFields(err, "Failed to read video status", map[string]interface{}{
			"jobId": jobID,
		})
		c.JSON(http.StatusBadGateway, dto.VideoStatusResponse{Ok: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.VideoStatusResponse{
		Ok:      true,
		JobID:   status.JobID,
		SceneID: status.SceneID,
		Asset:   status.Asset,
	})
}

func (v *videoStatusController) RegisterRoutes(g *gin.Engine) {
	g.GET("/api/videos/:jobId", v.GetVideoStatus)
}
