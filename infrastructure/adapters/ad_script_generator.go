package adapters

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/config"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/donovanhide/eventsource"
	"io"
	"net/http"
	"time"
)

const DoneSignal = "[DONE]"
const MaxRetries = 3

var subscribeBackoff = 500 * time.Millisecond

type chatGptRequest struct {
	Stream      bool             `json:"stream"`
	Model       string           `json:"model"`
	Temperature float64          `json:"temperature"`
	Messages    []chatGptMessage `json:"messages"`
}

type chatGptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatGptChunkBody struct {
	Choices []chatGptResponseChoice `json:"choices"`
}

type chatGptResponseChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type adScriptGenerator struct {
	logger     outbound.LoggerPort
	gptConfig  *config.GptConfig
	workerPool outbound.TaskDispatcher
}

func NewAdScriptGenerator(gptConfig *config.GptConfig, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort) outbound.AdScriptGeneratorPort {
	return &adScriptGenerator{
		logger:     logger,
		gptConfig:  gptConfig,
		workerPool: workerPool,
	}
}

func (s *adScriptGenerator) Generate(ctx context.Context, req outbound.GenerateAdScriptRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	newCtx, cancel := context.WithCancel(ctx)

	err := s.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)
		defer cancel()

		stream, err := s.subscribe(newCtx, req)
		if err != nil {
			s.logger.DebugWithFields("Failed to subscribe to script stream", map[string]interface{}{
				"error": err.Error(),
			})
			errCh <- err
			return
		}
		defer func() {
			cancel()
			s.releaseStream(stream)
		}()

		for {
			select {
			case <-newCtx.Done():
				errCh <- newCtx.Err()
				return
			case ev := <-stream.Events:
				if ev.Data() == DoneSignal {
					s.logger.Debug("Script stream finished")
					return
				}
				payload, err := s.extractPayload(ev)
				if err != nil {
					errCh <- err
					return
				}
				if payload == "" {
					continue
				}
				select {
				case out <- payload:
				case <-newCtx.Done():
					errCh <- newCtx.Err()
					return
				}
			case err := <-stream.Errors:
				if errors.Is(err, io.EOF) {
					s.logger.Info("Script stream closed")
					return
				}
				s.logger.DebugWithFields("Script stream failed", map[string]interface{}{
					"error": err.Error(),
				})
				errCh <- err
				return
			}
		}
	})
	if err != nil {
		s.logger.Error(err, "Failed to submit task to worker pool")
		cancel()
		errCh <- err
		close(errCh)
		close(out)
	}

	return out, errCh
}

// releaseStream closes the stream once its reader goroutine has handed over an error.
// Closing at any other moment can race with a pending send inside the stream. The
// drain runs as a plain goroutine since it is called from a pool worker.
func (s *adScriptGenerator) releaseStream(stream *eventsource.Stream) {
	go func() {
		for {
			select {
			case <-stream.Events:
			case <-stream.Errors:
				stream.Close()
				return
			}
		}
	}()
}

// subscribe opens the completion stream, retrying failures that happen before any token was read.
func (s *adScriptGenerator) subscribe(ctx context.Context, req outbound.GenerateAdScriptRequest) (*eventsource.Stream, error) {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			s.logger.WarnWithFields("Retrying script stream subscription", map[string]interface{}{
				"retry_count": attempt,
				"error":       lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(subscribeBackoff * time.Duration(attempt)):
			}
		}

		httpReq, err := s.createRequest(ctx, req)
		if err != nil {
			return nil, err
		}

		stream, err := eventsource.SubscribeWithRequest("", httpReq)
		if err == nil {
			return stream, nil
		}
		lastErr = err
		if !isRetryableSubscriptionError(err) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("script stream unavailable after %d attempts: %w", MaxRetries, lastErr)
}

func isRetryableSubscriptionError(err error) bool {
	var subErr eventsource.SubscriptionError
	if errors.As(err, &subErr) {
		return subErr.Code == http.StatusTooManyRequests || subErr.Code >= 500
	}
	return true
}

func (s *adScriptGenerator) extractPayload(event eventsource.Event) (string, error) {
	var chunkBody chatGptChunkBody
	err := json.Unmarshal([]byte(event.Data()), &chunkBody)
	if err != nil {
		s.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}

	return chunkBody.Choices[0].Delta.Content, nil
}

func (s *adScriptGenerator) createRequest(ctx context.Context, req outbound.GenerateAdScriptRequest) (*http.Request, error) {
	systemMessage := chatGptMessage{
		Role: "system",
		Content: "You are a creative director writing short vertical video ads for the Indian market. " +
			"You answer only with JSON lines and never add commentary.",
	}
	promptMessage := chatGptMessage{
		Role: "user",
		Content: fmt.Sprintf("Write a %d-scene ad for the product: %s.\n"+
			"Output exactly %d lines. Each line is one JSON object with the keys \"dialogue\", \"imagePrompt\" and \"textOverlay\".\n"+
			"- dialogue: one or two punchy sentences of spoken Hinglish (Hindi written in Latin script mixed with English)\n"+
			"- imagePrompt: a cinematic visual description of the shot, in English, without any on-screen text\n"+
			"- textOverlay: at most six words of on-screen text\n"+
			"Scene 1 hooks the viewer, scene 2 shows the key feature, scene 3 ends with a call to action.\n"+
			"Do not wrap the output in markdown.", req.SceneCount, req.Product, req.SceneCount),
	}

	promptReq := chatGptRequest{
		Stream:      true,
		Model:       s.gptConfig.Model,
		Temperature: s.gptConfig.Temperature,
		Messages:    []chatGptMessage{systemMessage, promptMessage},
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		s.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gptConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		s.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.gptConfig.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}
