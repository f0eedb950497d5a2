package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = 5 * time.Minute

// S3Service hands out presigned URLs for profile avatars.
type S3Service struct {
	Presigner *s3.PresignClient
	Bucket    string
	Now       func() time.Time
}

func NewS3Service(client *s3.Client, bucket string, now func() time.Time) *S3Service {
	return &S3Service{Presigner: s3.NewPresignClient(client), Bucket: bucket, Now: now}
}

// InitializeS3Client loads the default AWS config for region.
func InitializeS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// GenerateUploadURL generates a presigned URL for uploading a user's avatar
// and returns it with the object key to store on the profile.
func (s *S3Service) GenerateUploadURL(ctx context.Context, userID, fileName, fileType string) (string, string, error) {
	key := "avatars/" + userID + "/" + s.Now().UTC().Format("20060102150405") + "-" + path.Base(fileName)
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigned, err := s.Presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presigned.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading an avatar.
func (s *S3Service) GenerateReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigned, err := s.Presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presigned.URL, nil
}
