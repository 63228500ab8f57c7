package dto

import "ad-agent-api/domain"

type PipelineResponse struct {
	Ok     bool                   `json:"ok"`
	Result *domain.PipelineResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func NewPipelineSuccess(result *domain.PipelineResult) PipelineResponse {
	return PipelineResponse{Ok: true, Result: result}
}

func NewPipelineFailure(message string) PipelineResponse {
	return PipelineResponse{Ok: false, Error: message}
}

type VideoStatusResponse struct {
	Ok      bool                   `json:"ok"`
	JobID   string                 `json:"jobId,omitempty"`
	SceneID string                 `json:"sceneId,omitempty"`
	Asset   *domain.GeneratedAsset `json:"asset,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Voice      bool   `json:"voice"`
	Video      bool   `json:"video"`
	AssetStore bool   `json:"assetStore"`
}
