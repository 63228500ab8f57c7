package mock_generator

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/application/services"
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"ad-agent-api/infrastructure/adapters"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSceneReader struct {
	scenes []MockScene
}

func (s staticSceneReader) Read(string) ([]MockScene, error) {
	return s.scenes, nil
}

func newTestPool(t *testing.T) *ants.Pool {
	t.Helper()
	workerPool, err := ants.NewPool(30)
	require.NoError(t, err)
	t.Cleanup(workerPool.Release)
	return workerPool
}

func TestFileSceneReader_ReadsFixture(t *testing.T) {
	scenes, err := NewFileSceneReader(adapters.NewNopLogger()).Read("scenes.json")
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	assert.Equal(t, "Order now", scenes[2].TextOverlay)
	assert.Equal(t, 400, scenes[0].DelayMs)
}

func TestScriptReplayer_StreamsJSONLines(t *testing.T) {
	reader := staticSceneReader{scenes: []MockScene{
		{ScriptScene: fixtureScene("one")},
		{ScriptScene: fixtureScene("two")},
		{ScriptScene: fixtureScene("three")},
		{ScriptScene: fixtureScene("four")},
	}}
	replayer := NewScriptReplayer(newTestPool(t), reader, "unused", adapters.NewNopLogger())

	out, errCh := replayer.Generate(context.Background(), outbound.GenerateAdScriptRequest{SceneCount: 3})

	var builder strings.Builder
	for token := range out {
		builder.WriteString(token)
	}
	for err := range errCh {
		require.NoError(t, err)
	}

	lines := strings.Split(strings.TrimSuffix(builder.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &decoded))
	assert.Equal(t, "two", decoded["dialogue"])
}

func TestScriptReplayer_StopsOnCancel(t *testing.T) {
	reader := staticSceneReader{scenes: []MockScene{{ScriptScene: fixtureScene("slow"), DelayMs: 5000}}}
	replayer := NewScriptReplayer(newTestPool(t), reader, "unused", adapters.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	out, errCh := replayer.Generate(ctx, outbound.GenerateAdScriptRequest{SceneCount: 3})
	cancel()

	for range out {
	}
	err := <-errCh
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInit_RegistersMockRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := adapters.NewNopLogger()

	Init(router, newTestPool(t), services.MediaProviders{}, &config.PipelineConfig{
		ScriptTimeout:     5 * time.Second,
		AssetCallTimeout:  time.Second,
		VideoPollInterval: 10 * time.Millisecond,
		VideoPollTimeout:  100 * time.Millisecond,
		MockScriptFile:    "scenes.json",
	}, time.Second, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/mock/generate", strings.NewReader(`{"product":"Vivo T3 5G"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Ok     bool `json:"ok"`
		Result struct {
			Product string `json:"product"`
			Scenes  []struct {
				ID    string `json:"id"`
				Audio struct {
					Status string `json:"status"`
				} `json:"audio"`
			} `json:"scenes"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Ok)
	assert.Equal(t, "Vivo T3 5G", res.Result.Product)
	require.Len(t, res.Result.Scenes, 3)
	assert.Equal(t, "scene-1", res.Result.Scenes[0].ID)
	assert.Equal(t, "skipped", res.Result.Scenes[0].Audio.Status)
}

func TestInit_NoFileNoRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	Init(router, newTestPool(t), services.MediaProviders{}, &config.PipelineConfig{}, time.Second, adapters.NewNopLogger())

	assert.Empty(t, router.Routes())
}

func fixtureScene(dialogue string) domain.ScriptScene {
	return domain.ScriptScene{Dialogue: dialogue, ImagePrompt: "prompt " + dialogue, TextOverlay: "overlay"}
}
