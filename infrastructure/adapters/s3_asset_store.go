package adapters

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/config"
	"ad-agent-api/domain"
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type s3AssetStore struct {
	logger   outbound.LoggerPort
	s3Svc    s3iface.S3API
	s3Config *config.S3Config
}

func NewS3AssetStore(logger outbound.LoggerPort, s3Svc s3iface.S3API, s3Config *config.S3Config) outbound.AssetStorePort {
	return &s3AssetStore{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3AssetStore) Save(ctx context.Context, req outbound.SaveAssetRequest) (string, error) {
	if len(req.Content) == 0 {
		return "", errors.New("refusing to store an empty asset")
	}

	itemPath := s.getS3ItemPath(req)

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(itemPath),
		Body:          bytes.NewReader(req.Content),
		ContentLength: aws.Int64(int64(len(req.Content))),
		ContentType:   aws.String(req.MimeType),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    itemPath,
		})
		return "", err
	}

	getReq, _ := s.s3Svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(itemPath),
	})
	presignedURL, err := getReq.Presign(s.s3Config.PresignTTL)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to presign S3 object", map[string]interface{}{
			"key": itemPath,
		})
		return "", err
	}

	s.logger.DebugWithFields("Successfully uploaded object to S3", map[string]interface{}{
		"key": itemPath,
	})
	return presignedURL, nil
}

func (s *s3AssetStore) getS3ItemPath(req outbound.SaveAssetRequest) string {
	return fmt.Sprintf("ads/%s/%s/%s.%s", req.RunID, assetFolder(req.Kind), req.SceneID, fileExtension(req.MimeType))
}

func assetFolder(kind domain.AssetKind) string {
	if kind == domain.AudioAssetKind {
		return "audio"
	}
	return string(kind)
}

func fileExtension(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return "mp3"
	case "audio/wav", "audio/x-wav":
		return "wav"
	case "video/mp4":
		return "mp4"
	default:
		return "bin"
	}
}
