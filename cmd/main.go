package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/application/services"
	"ad-agent-api/config"
	"ad-agent-api/infrastructure/adapters"
	"ad-agent-api/infrastructure/gin_interface/controllers"
	"ad-agent-api/middleware"
	mockgenerator "ad-agent-api/mock"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

const sseKeepAliveInterval = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Err(err).Msg("Failed to load .env file")
	}

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	zeroLogger := adapters.NewZerologWrapper(serverConfig.LogLevel)

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	gptConfig, err := optional(config.GetGptConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get gpt config")
	}
	if gptConfig == nil && pipelineConfig.MockScriptFile == "" {
		log.Fatal().Msg("GPT_API_KEY must be set unless MOCK_SCRIPT_FILE is provided")
	}

	elevenLabsConfig, err := optional(config.GetElevenLabsConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	runwayConfig, err := optional(config.GetRunwayConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get runway config")
	}

	s3Config, err := optional(config.GetS3Config())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	dynamoConfig, err := optional(config.GetDynamoConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dynamo config")
	}

	authConfig, err := optional(config.GetAuthConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get auth config")
	}

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(pipelineConfig.WorkerPoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	contentFetcher := adapters.NewContentFetcher(zeroLogger, nil)

	var providers services.MediaProviders
	if elevenLabsConfig != nil {
		providers.Voice = adapters.NewVoiceGenerator(contentFetcher, elevenLabsConfig, zeroLogger)
	}
	if runwayConfig != nil {
		providers.Video = adapters.NewVideoGenerator(contentFetcher, runwayConfig, zeroLogger)
	}

	if s3Config != nil || dynamoConfig != nil {
		awsConfig := aws.NewConfig()
		if s3Config != nil {
			awsConfig = awsConfig.WithRegion(s3Config.Region)
		}
		sess, err := session.NewSessionWithOptions(session.Options{
			Config:            *awsConfig,
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create aws session")
		}
		if s3Config != nil {
			providers.AssetStore = adapters.NewS3AssetStore(zeroLogger, s3.New(sess), s3Config)
		}
		if dynamoConfig != nil {
			providers.JobRegistry = adapters.NewDynamoVideoJobRegistry(zeroLogger, dynamodb.New(sess), dynamoConfig)
		}
	}

	var scriptGenerator outbound.AdScriptGeneratorPort
	if gptConfig != nil {
		scriptGenerator = adapters.NewAdScriptGenerator(gptConfig, workerPool, zeroLogger)
	} else {
		zeroLogger.Warn("GPT_API_KEY is not set, /api/generate replays " + pipelineConfig.MockScriptFile)
		scriptGenerator = mockgenerator.NewScriptReplayer(workerPool, mockgenerator.NewFileSceneReader(zeroLogger),
			pipelineConfig.MockScriptFile, zeroLogger)
	}

	sceneScriptGenerator := services.NewSceneScriptGenerator(zeroLogger, scriptGenerator, pipelineConfig.ScriptTimeout)

	sceneMediaEnhancer := services.NewSceneMediaEnhancer(zeroLogger, providers, workerPool, pipelineConfig)

	adPipeline := services.NewAdPipeline(zeroLogger, sceneScriptGenerator, sceneMediaEnhancer)

	videoStatusChecker := services.NewVideoStatusChecker(zeroLogger, providers.Video, providers.JobRegistry, pipelineConfig.AssetCallTimeout)

	adGenerationController := controllers.NewAdGenerationController(zeroLogger, adPipeline, sseKeepAliveInterval)
	videoStatusController := controllers.NewVideoStatusController(zeroLogger, videoStatusChecker)
	healthController := controllers.NewHealthController(providers.Voice != nil, providers.Video != nil, providers.AssetStore != nil)

	if serverConfig.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zeroLogger))

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	if authConfig != nil {
		authHandler, err := middleware.NewAuthHandler(authConfig.JwksURL, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		router.Use(authHandler.AuthMiddleware())
	} else {
		zeroLogger.Warn("JWKS_URL is not set, requests are not authenticated")
	}

	healthController.RegisterRoutes(router)
	adGenerationController.RegisterRoutes(router)
	videoStatusController.RegisterRoutes(router)

	mockgenerator.Init(router, workerPool, providers, pipelineConfig, sseKeepAliveInterval, zeroLogger)

	zeroLogger.InfoWithFields("Ad Agent API starting", map[string]interface{}{
		"port":       serverConfig.Port,
		"voice":      providers.Voice != nil,
		"video":      providers.Video != nil,
		"assetStore": providers.AssetStore != nil,
		"jobs":       providers.JobRegistry != nil,
	})

	err = router.Run(":" + strconv.Itoa(serverConfig.Port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

// optional turns a missing optional integration into a nil config.
func optional[T any](cfg *T, err error) (*T, error) {
	if errors.Is(err, config.ErrNotConfigured) {
		return nil, nil
	}
	return cfg, err
}
