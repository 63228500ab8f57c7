package services

import (
	"ad-agent-api/application/ports/inbound"
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/domain"
	"context"
	"errors"
	"fmt"
	"time"
)

type videoStatusChecker struct {
	logger      outbound.LoggerPort
	video       outbound.VideoGeneratorPort
	jobRegistry outbound.VideoJobRegistryPort
	callTimeout time.Duration
}

// NewVideoStatusChecker builds the checker. video may be nil when video generation is off,
// jobRegistry may be nil when pending jobs are not recorded.
func NewVideoStatusChecker(logger outbound.LoggerPort, video outbound.VideoGeneratorPort,
	jobRegistry outbound.VideoJobRegistryPort, callTimeout time.Duration) inbound.VideoStatusPort {
	return &videoStatusChecker{
		logger:      logger,
		video:       video,
		jobRegistry: jobRegistry,
		callTimeout: callTimeout,
	}
}

func (v *videoStatusChecker) Check(ctx context.Context, jobID string) (*inbound.VideoStatus, error) {
	if v.video == nil {
		return nil, domain.ErrVideoGenerationDisabled
	}

	status := &inbound.VideoStatus{JobID: jobID}

	if v.jobRegistry != nil {
		record, err := v.jobRegistry.Lookup(ctx, jobID)
		if err != nil {
			if !errors.Is(err, domain.ErrVideoJobNotFound) {
				v.logger.ErrorWithFields(err, "Failed to look up video job", map[string]interface{}{
					"jobId": jobID,
				})
			}
			return nil, err
		}
		status.SceneID = record.SceneID
	}

	callCtx, cancel := context.WithTimeout(ctx, v.callTimeout)
	defer cancel()

	job, err := v.video.Status(callCtx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrVideoJobNotFound) {
			return nil, err
		}
		v.logger.ErrorWithFields(err, "Failed to check video job", map[string]interface{}{
			"jobId": jobID,
		})
		return nil, fmt.Errorf("checking video job %s: %w", jobID, err)
	}

	asset, err := VideoJobAsset(job)
	if err != nil {
		asset = domain.NewFailedAsset(err.Error())
	}
	status.Asset = asset

	return status, nil
}
