package adapters

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const AudioMimeType = "audio/mpeg"

type ElevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type voiceGenerator struct {
	ContentFetcher
	logger           outbound.LoggerPort
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewVoiceGenerator(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig, logger outbound.LoggerPort) outbound.VoiceGeneratorPort {
	return &voiceGenerator{
		ContentFetcher:   contentFetcher,
		logger:           logger,
		elevenLabsConfig: elevenLabsConfig,
	}
}

func (a *voiceGenerator) Generate(ctx context.Context, req outbound.GenerateVoiceRequest) (*domain.AudioClip, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("no dialogue to synthesize")
	}

	httpReq, err := a.getRequest(ctx, req.Text, a.elevenLabsConfig.VoiceId)
	if err != nil {
		a.logger.ErrorWithFields(err, "Failed to construct the HTTP request for audio fetching", map[string]interface{}{
			"action": "Fetching Audio",
			"text":   req.Text,
		})
		return nil, err
	}

	content, err := a.FetchContent(httpReq)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, errors.New("voice service returned an empty audio clip")
	}

	return &domain.AudioClip{
		Content:  content,
		MimeType: AudioMimeType,
	}, nil
}

func (a *voiceGenerator) getRequest(ctx context.Context, text string, voiceID string) (*http.Request, error) {
	reqBody := ElevenLabsRequest{
		Text:    text,
		ModelId: a.elevenLabsConfig.ModelId,
		VoiceSettings: VoiceSettings{
			Stability:       a.elevenLabsConfig.Stability,
			SimilarityBoost: a.elevenLabsConfig.SimilarityBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(a.elevenLabsConfig.ApiUrl, "/") + "/" + voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	reqHeaders := map[string]string{
		"Accept":       AudioMimeType,
		"xi-api-key":   a.elevenLabsConfig.ApiKey,
		"Content-Type": "application/json",
	}
	for key, value := range reqHeaders {
		req.Header.Add(key, value)
	}

	return req, nil
}
