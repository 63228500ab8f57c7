package adapters

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3(t *testing.T, endpoint string) *s3.S3 {
	t.Helper()
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("ap-south-1"),
		Endpoint:         aws.String(endpoint),
		Credentials:      credentials.NewStaticCredentials("AKIDTEST", "secret", ""),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(true),
		MaxRetries:       aws.Int(0),
	})
	require.NoError(t, err)
	return s3.New(sess)
}

func TestS3AssetStore_Save(t *testing.T) {
	var receivedPath, receivedType string
	var receivedBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		receivedType = r.Header.Get("Content-Type")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := NewS3AssetStore(NewNopLogger(), newTestS3(t, server.URL), &config.S3Config{
		BucketName: "ad-assets",
		Region:     "ap-south-1",
		PresignTTL: time.Hour,
	})

	presigned, err := store.Save(context.Background(), outbound.SaveAssetRequest{
		RunID:    "run-1",
		SceneID:  "scene-2",
		Kind:     domain.AudioAssetKind,
		Content:  []byte("mp3-bytes"),
		MimeType: "audio/mpeg",
	})
	require.NoError(t, err)

	assert.Equal(t, "/ad-assets/ads/run-1/audio/scene-2.mp3", receivedPath)
	assert.Equal(t, "audio/mpeg", receivedType)
	assert.Equal(t, []byte("mp3-bytes"), receivedBody)

	parsed, err := url.Parse(presigned)
	require.NoError(t, err)
	assert.Equal(t, "/ad-assets/ads/run-1/audio/scene-2.mp3", parsed.Path)
	assert.Equal(t, "3600", parsed.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, parsed.Query().Get("X-Amz-Signature"))
}

func TestS3AssetStore_UploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	store := NewS3AssetStore(NewNopLogger(), newTestS3(t, server.URL), &config.S3Config{
		BucketName: "ad-assets",
		Region:     "ap-south-1",
		PresignTTL: time.Hour,
	})

	_, err := store.Save(context.Background(), outbound.SaveAssetRequest{
		RunID:    "run-1",
		SceneID:  "scene-1",
		Kind:     domain.AudioAssetKind,
		Content:  []byte("mp3-bytes"),
		MimeType: "audio/mpeg",
	})
	require.Error(t, err)
}

func TestS3AssetStore_RejectsEmptyContent(t *testing.T) {
	store := NewS3AssetStore(NewNopLogger(), newTestS3(t, "http://127.0.0.1:1"), &config.S3Config{BucketName: "b", PresignTTL: time.Hour})

	_, err := store.Save(context.Background(), outbound.SaveAssetRequest{RunID: "r", SceneID: "scene-1", Kind: domain.AudioAssetKind})
	require.Error(t, err)
}
