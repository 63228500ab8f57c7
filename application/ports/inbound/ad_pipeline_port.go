package inbound

import (
	"ad-agent-api/domain"
	"context"
)

type RunPipelineParams struct {
	RunID   string
	Product string
}

type AdPipelinePort interface {
	Run(ctx context.Context, params RunPipelineParams) (*domain.PipelineResult, error)
	// Stream emits each scene once its media is resolved, in completion order.
	Stream(ctx context.Context, params RunPipelineParams) (<-chan domain.SceneResult, <-chan error)
	Summarize(product string, scenes []domain.SceneResult) *domain.PipelineResult
}
