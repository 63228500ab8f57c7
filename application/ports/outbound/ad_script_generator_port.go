package outbound

import "context"

type GenerateAdScriptRequest struct {
	Product    string
	SceneCount int
}

// AdScriptGeneratorPort streams the raw script text token by token.
type AdScriptGeneratorPort interface {
	Generate(ctx context.Context, req GenerateAdScriptRequest) (<-chan string, <-chan error)
}
