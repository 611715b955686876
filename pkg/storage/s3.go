package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	appconfig "vidtube-backend/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader stores media assets in an S3-compatible bucket (AWS or MinIO).
type S3Uploader struct {
	cfg    *appconfig.Config
	client *s3.Client
}

func NewS3Uploader(cfg *appconfig.Config) (*S3Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{cfg: cfg, client: client}, nil
}

func storageKey(localFilePath string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%02d/%v%s", d.Year(), d.Month(), uuid.New(), filepath.Ext(localFilePath))
}

// Upload puts the spooled file into the bucket and removes the local copy.
func (u *S3Uploader) Upload(ctx context.Context, localFilePath string) (*UploadResult, error) {
	f, err := os.Open(localFilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer os.Remove(localFilePath)

	key := storageKey(localFilePath)
	contentType := mime.TypeByExtension(filepath.Ext(localFilePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.S3Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}

	return &UploadResult{URL: u.publicURL(key)}, nil
}

func (u *S3Uploader) publicURL(key string) string {
	if u.cfg.S3PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", u.cfg.S3PublicBaseURL, key)
	}
	if u.cfg.S3Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", u.cfg.S3Endpoint, u.cfg.S3Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.S3Bucket, u.cfg.S3Region, key)
}
