package domain

import (
	"encoding/base64"
	"strconv"
	"time"
)

const SceneCount = 3

const MaxProductNameLength = 80

type AssetStatus string

const (
	AssetStatusPending  AssetStatus = "pending"
	AssetStatusComplete AssetStatus = "complete"
	AssetStatusSkipped  AssetStatus = "skipped"
	AssetStatusError    AssetStatus = "error"
)

// Label is the badge text shown next to an asset.
func (s AssetStatus) Label() string {
	switch s {
	case AssetStatusComplete:
		return "Ready"
	case AssetStatusPending:
		return "Queued"
	case AssetStatusSkipped:
		return "Skipped"
	case AssetStatusError:
		return "Error"
	default:
		return string(s)
	}
}

type AssetKind string

const (
	AudioAssetKind AssetKind = "voice"
	VideoAssetKind AssetKind = "video"
)

type GeneratedAsset struct {
	Status   AssetStatus `json:"status"`
	URL      string      `json:"url,omitempty"`
	Base64   string      `json:"base64,omitempty"`
	MimeType string      `json:"mimeType,omitempty"`
	Message  string      `json:"message,omitempty"`
}

func NewRemoteAsset(url string, mimeType string) *GeneratedAsset {
	return &GeneratedAsset{
		Status:   AssetStatusComplete,
		URL:      url,
		MimeType: mimeType,
	}
}

func NewInlineAsset(content []byte, mimeType string) *GeneratedAsset {
	return &GeneratedAsset{
		Status:   AssetStatusComplete,
		Base64:   base64.StdEncoding.EncodeToString(content),
		MimeType: mimeType,
	}
}

func NewPendingAsset(message string) *GeneratedAsset {
	return &GeneratedAsset{Status: AssetStatusPending, Message: message}
}

func NewSkippedAsset(message string) *GeneratedAsset {
	return &GeneratedAsset{Status: AssetStatusSkipped, Message: message}
}

func NewFailedAsset(message string) *GeneratedAsset {
	return &GeneratedAsset{Status: AssetStatusError, Message: message}
}

// Deliverable reports whether a complete asset actually carries content.
func (a *GeneratedAsset) Deliverable() bool {
	return a != nil && a.Status == AssetStatusComplete && (a.URL != "" || a.Base64 != "")
}

// ScriptScene is one scene as written by the script generator, before any media exists.
type ScriptScene struct {
	Dialogue    string `json:"dialogue"`
	ImagePrompt string `json:"imagePrompt"`
	TextOverlay string `json:"textOverlay"`
}

type Scene struct {
	ID          string          `json:"id"`
	Ordinal     int             `json:"-"`
	Dialogue    string          `json:"dialogue"`
	ImagePrompt string          `json:"imagePrompt"`
	TextOverlay string          `json:"textOverlay"`
	Audio       *GeneratedAsset `json:"audio,omitempty"`
	Video       *GeneratedAsset `json:"video,omitempty"`
}

func NewScene(script ScriptScene, ordinal int) Scene {
	return Scene{
		ID:          SceneID(ordinal),
		Ordinal:     ordinal,
		Dialogue:    script.Dialogue,
		ImagePrompt: script.ImagePrompt,
		TextOverlay: script.TextOverlay,
	}
}

// SceneResult is a scene with its media resolved plus the warnings raised while resolving it.
type SceneResult struct {
	Scene
	Warnings []string `json:"warnings,omitempty"`
}

type ScenesAscByOrdinal []SceneResult

func (s ScenesAscByOrdinal) Len() int           { return len(s) }
func (s ScenesAscByOrdinal) Less(i, j int) bool { return s[i].Ordinal < s[j].Ordinal }
func (s ScenesAscByOrdinal) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

type PipelineResult struct {
	Product         string   `json:"product"`
	Scenes          []Scene  `json:"scenes"`
	TimelineSummary string   `json:"timelineSummary"`
	Errors          []string `json:"errors,omitempty"`
}

type AudioClip struct {
	Content  []byte
	MimeType string
}

type VideoJobStatus string

const (
	VideoJobPending   VideoJobStatus = "PENDING"
	VideoJobThrottled VideoJobStatus = "THROTTLED"
	VideoJobRunning   VideoJobStatus = "RUNNING"
	VideoJobSucceeded VideoJobStatus = "SUCCEEDED"
	VideoJobFailed    VideoJobStatus = "FAILED"
	VideoJobCancelled VideoJobStatus = "CANCELLED"
)

func (s VideoJobStatus) Finished() bool {
	return s == VideoJobSucceeded || s == VideoJobFailed || s == VideoJobCancelled
}

type VideoJob struct {
	ID      string         `json:"id"`
	Status  VideoJobStatus `json:"status"`
	Output  []string       `json:"output,omitempty"`
	Failure string         `json:"failure,omitempty"`
}

type VideoJobRecord struct {
	JobID     string
	RunID     string
	SceneID   string
	Product   string
	CreatedAt time.Time
}

func SceneID(ordinal int) string {
	return "scene-" + strconv.Itoa(ordinal+1)
}
