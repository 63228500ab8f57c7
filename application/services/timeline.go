package services

import (
	"ad-agent-api/domain"
	"fmt"
	"strings"
)

const emptyTimeline = "No scenes were generated."

// BuildTimelineSummary renders one line per scene in storyboard order.
func BuildTimelineSummary(scenes []domain.Scene) string {
	if len(scenes) == 0 {
		return emptyTimeline
	}

	lines := make([]string, 0, len(scenes))
	for i, scene := range scenes {
		lines = append(lines, fmt.Sprintf("Scene %d: %q | Voice: %s | Video: %s",
			i+1, scene.TextOverlay, assetLabel(scene.Audio), assetLabel(scene.Video)))
	}
	return strings.Join(lines, "\n")
}

func assetLabel(asset *domain.GeneratedAsset) string {
	if asset == nil {
		return domain.AssetStatusPending.Label()
	}
	return asset.Status.Label()
}
