package services

import (
	"ad-agent-api/application/ports/inbound"
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/channel_utils"
	"ad-agent-api/domain"
	"context"
	"fmt"
	"sort"
	"time"
)

const pipelineStage = "pipeline"

type adPipeline struct {
	logger         outbound.LoggerPort
	sceneGenerator inbound.SceneScriptGeneratorPort
	mediaEnhancer  inbound.SceneMediaEnhancerPort
}

func NewAdPipeline(logger outbound.LoggerPort, sceneGenerator inbound.SceneScriptGeneratorPort,
	mediaEnhancer inbound.SceneMediaEnhancerPort) inbound.AdPipelinePort {
	return &adPipeline{
		logger:         logger,
		sceneGenerator: sceneGenerator,
		mediaEnhancer:  mediaEnhancer,
	}
}

func (p *adPipeline) Run(ctx context.Context, params inbound.RunPipelineParams) (*domain.PipelineResult, error) {
	start := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh, errCh := p.Stream(runCtx, params)

	results, err := p.collectSceneResults(resultCh, errCh)
	if err != nil {
		p.logger.DebugWithFields("Ad pipeline stopped", map[string]interface{}{
			"runId": params.RunID,
			"error": err.Error(),
		})
		return nil, err
	}

	result := p.Summarize(params.Product, results)
	p.logger.InfoWithFields("Ad pipeline finished", map[string]interface{}{
		"runId":    params.RunID,
		"product":  params.Product,
		"warnings": len(result.Errors),
		"duration": time.Since(start).String(),
	})
	return result, nil
}

func (p *adPipeline) Stream(ctx context.Context, params inbound.RunPipelineParams) (<-chan domain.SceneResult, <-chan error) {
	out := make(chan domain.SceneResult)
	errCh := make(chan error, 1)

	newCtx, cancel := context.WithCancel(ctx)

	sceneCh, scriptErrCh := p.sceneGenerator.Generate(newCtx, inbound.GenerateScenesParams{
		RunID:   params.RunID,
		Product: params.Product,
	})
	sceneResultCh, mediaErrCh := p.mediaEnhancer.Enhance(newCtx, sceneCh, inbound.EnhanceScenesParams{
		RunID:   params.RunID,
		Product: params.Product,
	})

	mergedErrCh := channel_utils.MergeChannels(newCtx, scriptErrCh, mediaErrCh)

	// The coordinator only waits on channels, so it runs outside the worker pool.
	go func() {
		defer close(out)
		defer close(errCh)
		defer cancel()

		emitted := 0
		for sceneResultCh != nil || mergedErrCh != nil {
			select {
			case err, ok := <-mergedErrCh:
				if !ok {
					mergedErrCh = nil
					continue
				}
				if err != nil {
					errCh <- domain.NewOrchestrationError(pipelineStage, err)
					return
				}
			case result, ok := <-sceneResultCh:
				if !ok {
					sceneResultCh = nil
					continue
				}
				select {
				case out <- result:
					emitted++
				case <-newCtx.Done():
					errCh <- domain.NewOrchestrationError(pipelineStage, newCtx.Err())
					return
				}
			case <-newCtx.Done():
				errCh <- domain.NewOrchestrationError(pipelineStage, newCtx.Err())
				return
			}
		}

		if ctx.Err() != nil {
			errCh <- domain.NewOrchestrationError(pipelineStage, ctx.Err())
			return
		}
		if emitted != domain.SceneCount {
			errCh <- domain.NewOrchestrationError(pipelineStage,
				fmt.Errorf("pipeline produced %d of %d scenes", emitted, domain.SceneCount))
		}
	}()

	return out, errCh
}

func (p *adPipeline) Summarize(product string, results []domain.SceneResult) *domain.PipelineResult {
	ordered := make([]domain.SceneResult, len(results))
	copy(ordered, results)
	sort.Sort(domain.ScenesAscByOrdinal(ordered))

	scenes := make([]domain.Scene, 0, len(ordered))
	var warnings []string
	for _, result := range ordered {
		scenes = append(scenes, result.Scene)
		warnings = append(warnings, result.Warnings...)
	}

	return &domain.PipelineResult{
		Product:         product,
		Scenes:          scenes,
		TimelineSummary: BuildTimelineSummary(scenes),
		Errors:          warnings,
	}
}

func (p *adPipeline) collectSceneResults(resultCh <-chan domain.SceneResult, errCh <-chan error) ([]domain.SceneResult, error) {
	results := make([]domain.SceneResult, 0, domain.SceneCount)
	for resultCh != nil || errCh != nil {
		select {
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return nil, err
			}
		case result, ok := <-resultCh:
			if !ok {
				resultCh = nil
				continue
			}
			results = append(results, result)
		}
	}
	return results, nil
}
