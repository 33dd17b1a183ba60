package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSServiceProvider is the object storage used for product images and
// generated photos. Objects are written and read through presigned URLs.
type AWSServiceProvider interface {
	PresignLink(ctx context.Context, bucketName string, fileName string) (string, error)
	UploadToPresignedURL(ctx context.Context, url string, fileContent []byte, contentType string) (int, error)
	GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error)
}

// R2Credentials identifies the Cloudflare R2 account holding the bucket.
type R2Credentials struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
}

func (c R2Credentials) endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

type AWSService struct {
	S3PresignClient *s3.PresignClient
	HTTPClient      *http.Client
}

// InitPresignClient points the S3 SDK at the R2 account. R2 ignores the
// region but the SDK requires one, hence "auto".
func (awsService *AWSService) InitPresignClient(ctx context.Context, creds R2Credentials) error {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: creds.endpoint()}, nil
	})
	sdkConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.AccessKeySecret, "")),
	)
	if err != nil {
		return fmt.Errorf("loading r2 config: %w", err)
	}

	awsService.S3PresignClient = s3.NewPresignClient(s3.NewFromConfig(sdkConfig))
	if awsService.HTTPClient == nil {
		awsService.HTTPClient = &http.Client{}
	}
	return nil
}

func (awsService *AWSService) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	signed, err := awsService.S3PresignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileName),
	})
	if err != nil {
		return "", fmt.Errorf("presigning put %s: %w", fileName, err)
	}
	return signed.URL, nil
}

func (awsService *AWSService) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	signed, err := awsService.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return "", fmt.Errorf("presigning get %s: %w", fileKey, err)
	}
	return signed.URL, nil
}

// UploadToPresignedURL PUTs fileContent to a presigned URL and returns the
// storage response status. Non-2xx statuses are not errors.
func (awsService *AWSService) UploadToPresignedURL(ctx context.Context, url string, fileContent []byte, contentType string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(fileContent))
	if err != nil {
		return 0, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	client := awsService.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("uploading object: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
