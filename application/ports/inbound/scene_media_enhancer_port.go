package inbound

import (
	"ad-agent-api/domain"
	"context"
)

type EnhanceScenesParams struct {
	RunID   string
	Product string
}

// SceneMediaEnhancerPort resolves voice and video for each scene. Asset failures are
// reported inside the SceneResult; the error channel only carries fatal failures.
type SceneMediaEnhancerPort interface {
	Enhance(ctx context.Context, sceneCh <-chan domain.Scene, params EnhanceScenesParams) (<-chan domain.SceneResult, <-chan error)
}
