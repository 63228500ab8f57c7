package config

import (
	"fmt"
	"os"
	"time"
)

type S3Config struct {
	BucketName string
	Region     string
	PresignTTL time.Duration
}

func GetS3Config() (*S3Config, error) {
	bucketName := os.Getenv("BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("BUCKET_NAME must be set: %w", ErrNotConfigured)
	}

	region := os.Getenv("REGION")
	if region == "" {
		return nil, fmt.Errorf("REGION must be set")
	}

	presignTTL, err := getDurationOrDefault("S3_PRESIGN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		BucketName: bucketName,
		Region:     region,
		PresignTTL: presignTTL,
	}, nil
}
