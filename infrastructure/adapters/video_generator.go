package adapters

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type runwayTextToVideoRequest struct {
	Model      string `json:"model"`
	PromptText string `json:"promptText"`
	Ratio      string `json:"ratio"`
	Duration   int    `json:"duration"`
}

type runwayTaskResponse struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Output  []string `json:"output"`
	Failure string   `json:"failure"`
}

type videoGenerator struct {
	ContentFetcher
	logger       outbound.LoggerPort
	runwayConfig *config.RunwayConfig
}

func NewVideoGenerator(contentFetcher ContentFetcher, runwayConfig *config.RunwayConfig, logger outbound.LoggerPort) outbound.VideoGeneratorPort {
	return &videoGenerator{
		ContentFetcher: contentFetcher,
		logger:         logger,
		runwayConfig:   runwayConfig,
	}
}

func (v *videoGenerator) Submit(ctx context.Context, req outbound.SubmitVideoRequest) (*domain.VideoJob, error) {
	if strings.TrimSpace(req.PromptText) == "" {
		return nil, errors.New("no prompt to render")
	}

	payload, err := json.Marshal(runwayTextToVideoRequest{
		Model:      v.runwayConfig.Model,
		PromptText: req.PromptText,
		Ratio:      v.runwayConfig.Ratio,
		Duration:   v.runwayConfig.Duration,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := v.newRequest(ctx, http.MethodPost, v.endpoint("text_to_video"), bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}

	job, err := v.fetchTask(httpReq)
	if err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, errors.New("video service did not return a task id")
	}
	if job.Status == "" {
		job.Status = domain.VideoJobPending
	}

	v.logger.DebugWithFields("Video task submitted", map[string]interface{}{
		"jobId": job.ID,
	})
	return job, nil
}

func (v *videoGenerator) Status(ctx context.Context, jobID string) (*domain.VideoJob, error) {
	if jobID == "" {
		return nil, domain.ErrVideoJobNotFound
	}

	httpReq, err := v.newRequest(ctx, http.MethodGet, v.endpoint("tasks", url.PathEscape(jobID)), nil)
	if err != nil {
		return nil, err
	}

	job, err := v.fetchTask(httpReq)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrVideoJobNotFound
		}
		return nil, err
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return job, nil
}

func (v *videoGenerator) fetchTask(req *http.Request) (*domain.VideoJob, error) {
	content, err := v.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var task runwayTaskResponse
	if err := json.Unmarshal(content, &task); err != nil {
		v.logger.ErrorWithFields(err, "Failed to decode video task", map[string]interface{}{
			"URL": req.URL.String(),
		})
		return nil, fmt.Errorf("unexpected video task payload: %w", err)
	}

	return &domain.VideoJob{
		ID:      task.ID,
		Status:  domain.VideoJobStatus(strings.ToUpper(task.Status)),
		Output:  task.Output,
		Failure: task.Failure,
	}, nil
}

func (v *videoGenerator) endpoint(parts ...string) string {
	return strings.TrimSuffix(v.runwayConfig.ApiUrl, "/") + "/" + strings.Join(parts, "/")
}

func (v *videoGenerator) newRequest(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+v.runwayConfig.ApiKey)
	req.Header.Set("X-Runway-Version", v.runwayConfig.ApiVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
