package outbound

import (
	"ad-agent-api/domain"
	"context"
)

type SaveAssetRequest struct {
	RunID    string
	SceneID  string
	Kind     domain.AssetKind
	Content  []byte
	MimeType string
}

// AssetStorePort persists generated media and returns a URL the client can fetch it from.
type AssetStorePort interface {
	Save(ctx context.Context, req SaveAssetRequest) (string, error)
}
