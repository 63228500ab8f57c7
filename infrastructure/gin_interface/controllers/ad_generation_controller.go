package controllers

import (
	"ad-agent-api/application/ports/inbound"
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/domain"
	"ad-agent-api/infrastructure/gin_interface/dto"
	"ad-agent-api/middleware"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxRequestBodyBytes = 64 << 10

type AdGenerationController interface {
	Generate(c *gin.Context)
	Stream(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type adGenerationController struct {
	logger            outbound.LoggerPort
	pipeline          inbound.AdPipelinePort
	keepAliveInterval time.Duration
}

func NewAdGenerationController(logger outbound.LoggerPort, pipeline inbound.AdPipelinePort, keepAliveInterval time.Duration) AdGenerationController {
	return &adGenerationController{
		logger:            logger,
		pipeline:          pipeline,
		keepAliveInterval: keepAliveInterval,
	}
}

// panicError carries a recovered panic value that was not an error.
type panicError struct {
	value interface{}
}

func (p *panicError) Error() string {
	return fmt.Sprintf("pipeline panicked: %v", p.value)
}

func (a *adGenerationController) Generate(c *gin.Context) {
	product, ok := a.bindProduct(c)
	if !ok {
		return
	}

	runID := uuid.NewString()
	result, err := a.runPipeline(c.Request.Context(), inbound.RunPipelineParams{RunID: runID, Product: product})
	if err != nil {
		a.logger.ErrorWithFields(err, "Ad Agent pipeline failed", map[string]interface{}{
			"runId":   runID,
			"product": product,
		})
		c.JSON(http.StatusInternalServerError, dto.NewPipelineFailure(failureMessage(err)))
		return
	}

	c.JSON(http.StatusOK, dto.NewPipelineSuccess(result))
}

func (a *adGenerationController) Stream(c *gin.Context) {
	product, ok := a.bindProduct(c)
	if !ok {
		return
	}

	newCtx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	runID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			err := recoveredError(r)
			a.logger.ErrorWithFields(err, "Ad Agent stream failed", map[string]interface{}{
				"runId": runID,
			})
			c.SSEvent("error", dto.NewPipelineFailure(failureMessage(err)))
			c.Writer.Flush()
		}
	}()

	resultCh, errCh := a.pipeline.Stream(newCtx, inbound.RunPipelineParams{RunID: runID, Product: product})

	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(a.keepAliveInterval)
	defer ticker.Stop()

	results := make([]domain.SceneResult, 0, domain.SceneCount)
	for resultCh != nil || errCh != nil {
		select {
		case <-newCtx.Done():
			a.logger.InfoWithFields("Client left the ad stream", map[string]interface{}{
				"runId": runID,
			})
			return
		case <-ticker.C:
			if !middleware.WriteKeepAlive(c) {
				return
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				a.logger.ErrorWithFields(err, "Ad Agent stream failed", map[string]interface{}{
					"runId":   runID,
					"product": product,
				})
				c.SSEvent("error", dto.NewPipelineFailure(failureMessage(err)))
				c.Writer.Flush()
				return
			}
		case result, ok := <-resultCh:
			if !ok {
				resultCh = nil
				continue
			}
			results = append(results, result)
			c.SSEvent("scene", result)
			c.Writer.Flush()
		}
	}

	c.SSEvent("storyboard", a.pipeline.Summarize(product, results))
	c.Writer.Flush()
}

func (a *adGenerationController) RegisterRoutes(g *gin.Engine) {
	g.POST("/api/generate", a.Generate)
	g.POST("/api/generate/stream", middleware.SSEMiddleware(), a.Stream)
}

// bindProduct answers validation failures itself and reports whether the handler should go on.
func (a *adGenerationController) bindProduct(c *gin.Context) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBodyBytes))
	if err != nil {
		a.logger.Warn("Failed to read request body, treating it as empty")
		body = nil
	}

	product, validationErr := dto.ParseGenerateAdRequest(body).ProductName()
	if validationErr != nil {
		c.Header("Content-Type", "application/json; charset=utf-8")
		c.AbortWithStatusJSON(validationErr.Status, dto.NewPipelineFailure(validationErr.Message))
		return "", false
	}
	return product, true
}

func (a *adGenerationController) runPipeline(ctx context.Context, params inbound.RunPipelineParams) (result *domain.PipelineResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = recoveredError(r)
		}
	}()
	return a.pipeline.Run(ctx, params)
}

func recoveredError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicError{value: r}
}

func failureMessage(err error) string {
	var p *panicError
	if err == nil || errors.As(err, &p) || err.Error() == "" {
		return domain.UnexpectedErrorMessage
	}
	return err.Error()
}
