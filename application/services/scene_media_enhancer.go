package services

import (
	"ad-agent-api/application/ports/inbound"
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	VideoMimeType = "video/mp4"

	voiceDisabledMessage = "Voice generation is not configured."
	videoDisabledMessage = "Video generation is not configured."
)

// MediaProviders groups the media integrations. A nil provider disables its feature.
type MediaProviders struct {
	Voice       outbound.VoiceGeneratorPort
	Video       outbound.VideoGeneratorPort
	AssetStore  outbound.AssetStorePort
	JobRegistry outbound.VideoJobRegistryPort
}

type sceneMediaEnhancer struct {
	logger         outbound.LoggerPort
	providers      MediaProviders
	workerPool     outbound.TaskDispatcher
	pipelineConfig *config.PipelineConfig
}

func NewSceneMediaEnhancer(logger outbound.LoggerPort, providers MediaProviders, workerPool outbound.TaskDispatcher,
	pipelineConfig *config.PipelineConfig) inbound.SceneMediaEnhancerPort {
	return &sceneMediaEnhancer{
		logger:         logger,
		providers:      providers,
		workerPool:     workerPool,
		pipelineConfig: pipelineConfig,
	}
}

func (s *sceneMediaEnhancer) Enhance(ctx context.Context, sceneCh <-chan domain.Scene, params inbound.EnhanceScenesParams) (<-chan domain.SceneResult, <-chan error) {
	out := make(chan domain.SceneResult)
	errCh := make(chan error, 1)

	newCtx, cancel := context.WithCancel(ctx)

	// Scene loops only wait on channels and timers. Provider calls are the only work
	// handed to the pool, so a pool worker never waits for another one.
	go func() {
		defer close(out)
		defer close(errCh)
		defer cancel()

		var wg sync.WaitGroup
		defer wg.Wait()

		for {
			var scene domain.Scene
			var ok bool
			select {
			case <-newCtx.Done():
				return
			case scene, ok = <-sceneCh:
				if !ok {
					return
				}
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				result := s.enhanceScene(newCtx, scene, params)
				select {
				case out <- result:
				case <-newCtx.Done():
				}
			}()
		}
	}()

	return out, errCh
}

func (s *sceneMediaEnhancer) enhanceScene(ctx context.Context, scene domain.Scene, params inbound.EnhanceScenesParams) domain.SceneResult {
	var videoAsset *domain.GeneratedAsset
	var videoWarnings []string

	done := make(chan struct{})
	go func() {
		defer close(done)
		videoAsset, videoWarnings = s.resolveVideo(ctx, scene, params)
	}()

	audioAsset, warnings := s.resolveVoice(ctx, scene, params)
	<-done

	scene.Audio = audioAsset
	scene.Video = videoAsset
	warnings = append(warnings, videoWarnings...)

	s.logger.DebugWithFields("Scene media resolved", map[string]interface{}{
		"runId":   params.RunID,
		"sceneId": scene.ID,
		"audio":   audioAsset.Status,
		"video":   videoAsset.Status,
	})

	return domain.SceneResult{Scene: scene, Warnings: warnings}
}

// callProvider runs one provider call on the worker pool under its own timeout and
// waits for it. The timeout starts once a worker picks the call up.
func callProvider[T any](ctx context.Context, workerPool outbound.TaskDispatcher, timeout time.Duration,
	call func(ctx context.Context) (T, error)) (T, error) {
	var result T
	var callErr error

	done := make(chan struct{})
	err := workerPool.Submit(func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("provider call panicked: %v", r)
			}
		}()

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		result, callErr = call(callCtx)
	})
	if err != nil {
		return result, err
	}
	<-done
	return result, callErr
}

func (s *sceneMediaEnhancer) resolveVoice(ctx context.Context, scene domain.Scene, params inbound.EnhanceScenesParams) (*domain.GeneratedAsset, []string) {
	if s.providers.Voice == nil {
		return domain.NewSkippedAsset(voiceDisabledMessage), nil
	}

	clip, err := callProvider(ctx, s.workerPool, s.pipelineConfig.AssetCallTimeout, func(callCtx context.Context) (*domain.AudioClip, error) {
		return s.providers.Voice.Generate(callCtx, outbound.GenerateVoiceRequest{Text: scene.Dialogue})
	})
	if err != nil {
		return s.assetFailure(scene.ID, domain.AudioAssetKind, s.describeCallError(err, "voice generation"))
	}

	if s.providers.AssetStore == nil {
		return domain.NewInlineAsset(clip.Content, clip.MimeType), nil
	}

	url, err := callProvider(ctx, s.workerPool, s.pipelineConfig.AssetCallTimeout, func(callCtx context.Context) (string, error) {
		return s.providers.AssetStore.Save(callCtx, outbound.SaveAssetRequest{
			RunID:    params.RunID,
			SceneID:  scene.ID,
			Kind:     domain.AudioAssetKind,
			Content:  clip.Content,
			MimeType: clip.MimeType,
		})
	})
	if err != nil {
		warning := &domain.AssetError{
			SceneID: scene.ID,
			Kind:    domain.AudioAssetKind,
			Err:     fmt.Errorf("upload failed, audio returned inline: %w", s.describeCallError(err, "audio upload")),
		}
		s.logger.Warn(warning.Error())
		return domain.NewInlineAsset(clip.Content, clip.MimeType), []string{warning.Error()}
	}

	return domain.NewRemoteAsset(url, clip.MimeType), nil
}

func (s *sceneMediaEnhancer) resolveVideo(ctx context.Context, scene domain.Scene, params inbound.EnhanceScenesParams) (*domain.GeneratedAsset, []string) {
	if s.providers.Video == nil {
		return domain.NewSkippedAsset(videoDisabledMessage), nil
	}

	job, err := callProvider(ctx, s.workerPool, s.pipelineConfig.AssetCallTimeout, func(callCtx context.Context) (*domain.VideoJob, error) {
		return s.providers.Video.Submit(callCtx, outbound.SubmitVideoRequest{PromptText: videoPrompt(scene)})
	})
	if err != nil {
		return s.assetFailure(scene.ID, domain.VideoAssetKind, s.describeCallError(err, "video submission"))
	}

	job, err = s.pollVideoJob(ctx, job)
	if err != nil {
		return s.assetFailure(scene.ID, domain.VideoAssetKind, err)
	}

	asset, assetErr := VideoJobAsset(job)
	if assetErr != nil {
		return s.assetFailure(scene.ID, domain.VideoAssetKind, assetErr)
	}
	if asset.Status != domain.AssetStatusPending {
		return asset, nil
	}

	if s.providers.JobRegistry == nil {
		return asset, nil
	}
	_, err = callProvider(ctx, s.workerPool, s.pipelineConfig.AssetCallTimeout, func(callCtx context.Context) (struct{}, error) {
		return struct{}{}, s.providers.JobRegistry.Register(callCtx, domain.VideoJobRecord{
			JobID:     job.ID,
			RunID:     params.RunID,
			SceneID:   scene.ID,
			Product:   params.Product,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		warning := &domain.AssetError{
			SceneID: scene.ID,
			Kind:    domain.VideoAssetKind,
			Err:     fmt.Errorf("job %s could not be registered for polling: %w", job.ID, err),
		}
		s.logger.Warn(warning.Error())
		return asset, []string{warning.Error()}
	}
	return asset, nil
}

// pollVideoJob checks the job until it finishes or the poll budget runs out. Failed
// status checks are retried on the next tick; the last known state is returned.
func (s *sceneMediaEnhancer) pollVideoJob(ctx context.Context, job *domain.VideoJob) (*domain.VideoJob, error) {
	pollCtx, cancel := context.WithTimeout(ctx, s.pipelineConfig.VideoPollTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pipelineConfig.VideoPollInterval)
	defer ticker.Stop()

	for !job.Status.Finished() {
		select {
		case <-pollCtx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}

		current, err := callProvider(pollCtx, s.workerPool, s.pipelineConfig.AssetCallTimeout, func(callCtx context.Context) (*domain.VideoJob, error) {
			return s.providers.Video.Status(callCtx, job.ID)
		})
		if err != nil {
			s.logger.WarnWithFields("Video status check failed", map[string]interface{}{
				"jobId": job.ID,
				"error": err.Error(),
			})
			continue
		}
		job = current
	}
	return job, nil
}

// VideoJobAsset maps a provider job state to the asset shown to clients.
func VideoJobAsset(job *domain.VideoJob) (*domain.GeneratedAsset, error) {
	switch job.Status {
	case domain.VideoJobSucceeded:
		var url string
		if len(job.Output) > 0 {
			url = job.Output[0]
		}
		asset := domain.NewRemoteAsset(url, VideoMimeType)
		if !asset.Deliverable() {
			return nil, fmt.Errorf("video job %s finished without output", job.ID)
		}
		return asset, nil
	case domain.VideoJobFailed, domain.VideoJobCancelled:
		if job.Failure != "" {
			return nil, errors.New(job.Failure)
		}
		return nil, fmt.Errorf("video job %s %s", job.ID, strings.ToLower(string(job.Status)))
	default:
		return domain.NewPendingAsset(PendingVideoMessage(job.ID)), nil
	}
}

func PendingVideoMessage(jobID string) string {
	return fmt.Sprintf("Video job %s is still rendering. Poll GET /api/videos/%s for the result.", jobID, jobID)
}

func (s *sceneMediaEnhancer) assetFailure(sceneID string, kind domain.AssetKind, err error) (*domain.GeneratedAsset, []string) {
	assetErr := &domain.AssetError{SceneID: sceneID, Kind: kind, Err: err}
	s.logger.ErrorWithFields(err, "Scene asset failed", map[string]interface{}{
		"sceneId": sceneID,
		"kind":    kind,
	})
	return domain.NewFailedAsset(err.Error()), []string{assetErr.Error()}
}

func (s *sceneMediaEnhancer) describeCallError(err error, call string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s", call, s.pipelineConfig.AssetCallTimeout)
	}
	return err
}

func videoPrompt(scene domain.Scene) string {
	if scene.TextOverlay == "" {
		return scene.ImagePrompt
	}
	return fmt.Sprintf("%s. On-screen text: %q", strings.TrimSuffix(scene.ImagePrompt, "."), scene.TextOverlay)
}
