package services

import (
	"ad-agent-api/application/ports/inbound"
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const scriptStage = "script"

type sceneScriptGenerator struct {
	logger          outbound.LoggerPort
	scriptGenerator outbound.AdScriptGeneratorPort
	scriptTimeout   time.Duration
}

func NewSceneScriptGenerator(logger outbound.LoggerPort, scriptGenerator outbound.AdScriptGeneratorPort,
	scriptTimeout time.Duration) inbound.SceneScriptGeneratorPort {
	return &sceneScriptGenerator{
		logger:          logger,
		scriptGenerator: scriptGenerator,
		scriptTimeout:   scriptTimeout,
	}
}

func (s *sceneScriptGenerator) Generate(ctx context.Context, params inbound.GenerateScenesParams) (<-chan domain.Scene, <-chan error) {
	s.logger.DebugWithFields("Starting ad script generation", map[string]interface{}{
		"runId":   params.RunID,
		"product": params.Product,
	})

	out := make(chan domain.Scene)
	errCh := make(chan error, 1)

	newCtx, cancel := context.WithTimeout(ctx, s.scriptTimeout)

	tokenCh, scriptErr := s.scriptGenerator.Generate(newCtx, outbound.GenerateAdScriptRequest{
		Product:    params.Product,
		SceneCount: domain.SceneCount,
	})

	fail := func(err error) {
		s.logger.DebugWithFields("Ad script generation failed", map[string]interface{}{
			"runId": params.RunID,
			"error": err.Error(),
		})
		errCh <- domain.NewOrchestrationError(scriptStage, err)
	}

	go func() {
		defer close(out)
		defer close(errCh)
		defer cancel()

		var builder strings.Builder
		sceneCounter := 0

		emit := func(lines []string) bool {
			for _, line := range lines {
				script, ok, err := parseSceneLine(line)
				if err != nil {
					fail(err)
					return false
				}
				if !ok {
					continue
				}
				if sceneCounter >= domain.SceneCount {
					fail(fmt.Errorf("script contained more than %d scenes", domain.SceneCount))
					return false
				}
				scene := domain.NewScene(script, sceneCounter)
				sceneCounter++

				s.logger.DebugWithFields("Generated scene", map[string]interface{}{
					"id":  scene.ID,
					"ord": scene.Ordinal,
					"txt": scene.Dialogue,
				})

				select {
				case out <- scene:
				case <-newCtx.Done():
					s.reportTimeout(ctx, newCtx, fail)
					return false
				}
			}
			return true
		}

		for {
			select {
			case err, ok := <-scriptErr:
				if ok && err != nil {
					if newCtx.Err() != nil {
						s.reportTimeout(ctx, newCtx, fail)
					} else {
						fail(err)
					}
					return
				}
				if !ok {
					scriptErr = nil
				}
			case <-newCtx.Done():
				s.reportTimeout(ctx, newCtx, fail)
				return
			case token, ok := <-tokenCh:
				if ok {
					builder.WriteString(token)
					lines, rest := splitCompleteLines(builder.String())
					builder.Reset()
					builder.WriteString(rest)
					if !emit(lines) {
						return
					}
					continue
				}

				if scriptErr != nil {
					for err := range scriptErr {
						if err != nil {
							fail(err)
							return
						}
					}
				}
				if !emit([]string{builder.String()}) {
					return
				}
				if sceneCounter != domain.SceneCount {
					fail(fmt.Errorf("script contained %d scenes, expected %d", sceneCounter, domain.SceneCount))
				}
				return
			}
		}
	}()

	return out, errCh
}

// reportTimeout only fails the stage when the script budget ran out; a cancelled
// parent means somebody else already decided the outcome.
func (s *sceneScriptGenerator) reportTimeout(parent context.Context, ctx context.Context, fail func(error)) {
	if parent.Err() != nil {
		return
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		fail(fmt.Errorf("script generation timed out after %s", s.scriptTimeout))
	}
}

func splitCompleteLines(buffer string) ([]string, string) {
	idx := strings.LastIndexByte(buffer, '\n')
	if idx < 0 {
		return nil, buffer
	}
	return strings.Split(buffer[:idx], "\n"), buffer[idx+1:]
}

// parseSceneLine returns ok=false for lines that carry no scene, like blanks and markdown fences.
func parseSceneLine(line string) (domain.ScriptScene, bool, error) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSuffix(trimmed, ",")
	if trimmed == "" || strings.HasPrefix(trimmed, "```") {
		return domain.ScriptScene{}, false, nil
	}

	var script domain.ScriptScene
	if err := json.Unmarshal([]byte(trimmed), &script); err != nil {
		return domain.ScriptScene{}, false, fmt.Errorf("malformed scene line %q: %w", truncate(trimmed, 80), err)
	}

	script.Dialogue = strings.TrimSpace(script.Dialogue)
	script.ImagePrompt = strings.TrimSpace(script.ImagePrompt)
	script.TextOverlay = strings.TrimSpace(script.TextOverlay)

	switch {
	case script.Dialogue == "":
		return domain.ScriptScene{}, false, errors.New("scene is missing dialogue")
	case script.ImagePrompt == "":
		return domain.ScriptScene{}, false, errors.New("scene is missing imagePrompt")
	case script.TextOverlay == "":
		return domain.ScriptScene{}, false, errors.New("scene is missing textOverlay")
	}

	return script, true, nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
