package mock_generator

import (
	"ad-agent-api/application/ports/outbound"
	"context"
	"encoding/json"
	"strings"
	"time"
)

// ScriptReplayer streams a canned script in the same JSON-lines shape the completion model writes.
type ScriptReplayer struct {
	logger      outbound.LoggerPort
	workerPool  outbound.TaskDispatcher
	sceneReader SceneReader
	fileName    string
}

func NewScriptReplayer(workerPool outbound.TaskDispatcher, sceneReader SceneReader, fileName string, logger outbound.LoggerPort) *ScriptReplayer {
	return &ScriptReplayer{
		logger:      logger,
		workerPool:  workerPool,
		sceneReader: sceneReader,
		fileName:    fileName,
	}
}

func (r *ScriptReplayer) Generate(ctx context.Context, req outbound.GenerateAdScriptRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	err := r.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)

		scenes, err := r.sceneReader.Read(r.fileName)
		if err != nil {
			r.logger.Error(err, "failed to read mock scenes")
			errCh <- err
			return
		}
		if req.SceneCount > 0 && len(scenes) > req.SceneCount {
			scenes = scenes[:req.SceneCount]
		}

		for _, scene := range scenes {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case <-time.After(time.Duration(scene.DelayMs) * time.Millisecond):
			}

			line, err := json.Marshal(scene.ScriptScene)
			if err != nil {
				errCh <- err
				return
			}
			for _, token := range chunk(string(line)+"\n", 12) {
				select {
				case out <- token:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
		}
		r.logger.Info("Finished replaying mock script.")
	})
	if err != nil {
		errCh <- err
		close(errCh)
		close(out)
	}

	return out, errCh
}

func chunk(text string, size int) []string {
	var builder strings.Builder
	chunks := make([]string, 0, len(text)/size+1)
	for _, r := range text {
		builder.WriteRune(r)
		if builder.Len() >= size {
			chunks = append(chunks, builder.String())
			builder.Reset()
		}
	}
	if builder.Len() > 0 {
		chunks = append(chunks, builder.String())
	}
	return chunks
}
