package outbound

import (
	"ad-agent-api/domain"
	"context"
)

type SubmitVideoRequest struct {
	PromptText string
}

type VideoGeneratorPort interface {
	Submit(ctx context.Context, req SubmitVideoRequest) (*domain.VideoJob, error)
	Status(ctx context.Context, jobID string) (*domain.VideoJob, error)
}
