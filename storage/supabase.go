package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ratemypic/config"
	"ratemypic/models"
)

// S3API is the slice of the S3 client the supabase backend uses, so tests can
// swap in a fake.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Supabase uploads objects to a Supabase Storage bucket over the project's
// S3-compatible endpoint and builds the public object URLs Supabase serves.
type Supabase struct {
	client    S3API
	bucket    string
	publicURL string
}

func NewSupabase(ctx context.Context, cfg config.StorageConfig) (*Supabase, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &Supabase{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (sb *Supabase) Upload(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error) {
	_, err := sb.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(sb.bucket),
		Key:           aws.String(fileName),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to supabase storage: %w", err)
	}
	return sb.PublicURL(fileName), nil
}

func (sb *Supabase) Delete(ctx context.Context, fileName string) error {
	_, err := sb.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(sb.bucket),
		Key:    aws.String(fileName),
	})
	if err != nil {
		return fmt.Errorf("delete from supabase storage: %w", err)
	}
	return nil
}

func (sb *Supabase) Name() string {
	return models.StorageSupabase
}

// PublicURL builds the publicly fetchable URL Supabase serves objects from.
func (sb *Supabase) PublicURL(fileName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", sb.publicURL, sb.bucket, fileName)
}
