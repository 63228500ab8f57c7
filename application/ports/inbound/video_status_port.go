package inbound

import (
	"ad-agent-api/domain"
	"context"
)

type VideoStatus struct {
	JobID   string
	SceneID string
	Asset   *domain.GeneratedAsset
}

type VideoStatusPort interface {
	Check(ctx context.Context, jobID string) (*VideoStatus, error)
}
