// Package storage hands out presigned URLs for objects in S3-compatible
// storage (MinIO in development). The server never proxies file bytes.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignExpiry is how long upload and download URLs stay valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config holds connection settings for the object store.
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store presigns PUT and GET requests for keys in one bucket.
type S3Store struct {
	cfg S3Config
}

func NewS3Store(cfg S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func (s *S3Store) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		}
		// MinIO serves buckets under the path, not as subdomains.
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignPut returns a URL the caller can PUT the object body to.
func (s *S3Store) PresignPut(ctx context.Context, key string) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	return req.URL, nil
}

// PresignGet returns a URL the caller can download the object from.
func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}

	return req.URL, nil
}
