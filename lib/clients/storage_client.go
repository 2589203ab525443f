package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StorageClientInterface defines the interface for document storage operations
type StorageClientInterface interface {
	GenerateUploadURL(key string, expiry time.Duration) (string, error)
	GenerateDownloadURL(key string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}

// StorageClient generates presigned URLs against a MinIO deployment through
// the S3 API. MinIO requires path-style addressing.
type StorageClient struct {
	presignClient *s3.PresignClient
	bucket        string
	publicBaseURL string
}

// NewStorageClient creates a storage client pointed at the configured MinIO
// endpoint. Credentials come from the standard AWS environment variables.
func NewStorageClient(endpoint, region, bucket, publicBaseURL string) StorageClientInterface {
	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		panic("failed to load storage configuration: " + err.Error())
	}

	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &StorageClient{
		presignClient: s3.NewPresignClient(svc),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// GenerateUploadURL creates a presigned URL for uploading a document
func (client *StorageClient) GenerateUploadURL(key string, expiry time.Duration) (string, error) {
	ctx := context.Background()

	presignResult, err := client.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))

	if err != nil {
		return "", err
	}

	return presignResult.URL, nil
}

// GenerateDownloadURL creates a presigned URL for downloading a document
func (client *StorageClient) GenerateDownloadURL(key string, expiry time.Duration) (string, error) {
	ctx := context.Background()

	presignResult, err := client.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))

	if err != nil {
		return "", err
	}

	return presignResult.URL, nil
}

// PublicURL resolves an object key to its permanent download URL using the
// configured base URL + bucket path convention.
func (client *StorageClient) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", client.publicBaseURL, client.bucket, key)
}
