package outbound

import (
	"ad-agent-api/domain"
	"context"
)

type VideoJobRegistryPort interface {
	Register(ctx context.Context, record domain.VideoJobRecord) error
	// Lookup returns domain.ErrVideoJobNotFound for unknown or expired jobs.
	Lookup(ctx context.Context, jobID string) (*domain.VideoJobRecord, error)
}
