package inbound

import (
	"ad-agent-api/domain"
	"context"
)

type GenerateScenesParams struct {
	RunID   string
	Product string
}

type SceneScriptGeneratorPort interface {
	Generate(ctx context.Context, params GenerateScenesParams) (<-chan domain.Scene, <-chan error)
}
