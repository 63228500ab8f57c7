package outbound

import (
	"ad-agent-api/domain"
	"context"
)

type GenerateVoiceRequest struct {
	Text string
}

type VoiceGeneratorPort interface {
	Generate(ctx context.Context, req GenerateVoiceRequest) (*domain.AudioClip, error)
}
