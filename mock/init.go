package mock_generator

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/application/services"
	"ad-agent-api/config"
	"ad-agent-api/infrastructure/gin_interface/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

// Init exposes the offline pipeline when a mock script file is configured.
func Init(g *gin.Engine, workerPool outbound.TaskDispatcher, providers services.MediaProviders,
	pipelineConfig *config.PipelineConfig, keepAliveInterval time.Duration, logger outbound.LoggerPort) {
	if pipelineConfig.MockScriptFile == "" {
		return
	}

	replayer := NewScriptReplayer(workerPool, NewFileSceneReader(logger), pipelineConfig.MockScriptFile, logger)
	sceneGenerator := services.NewSceneScriptGenerator(logger, replayer, pipelineConfig.ScriptTimeout)
	mediaEnhancer := services.NewSceneMediaEnhancer(logger, providers, workerPool, pipelineConfig)
	pipeline := services.NewAdPipeline(logger, sceneGenerator, mediaEnhancer)

	mockController := NewMockAdController(controllers.NewAdGenerationController(logger, pipeline, keepAliveInterval))
	mockController.RegisterRoutes(g)

	logger.InfoWithFields("Mock ad routes enabled", map[string]interface{}{
		"file": pipelineConfig.MockScriptFile,
	})
}
