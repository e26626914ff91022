// Package s3store sube los buffers del pipeline de media a S3 y
// devuelve la URL pública del objeto como referencia durable.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	Bucket string
	Region string

	// Prefix opcional dentro del bucket, ej. "media/".
	Prefix string
}

type Store struct {
	client *s3.Client
	bucket string
	prefix string
	region string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3store: bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		region: region,
	}, nil
}

func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	full := key
	if s.prefix != "" {
		full = s.prefix + "/" + key
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(s.bucket),
		Key:         awssdk.String(full),
		Body:        bytes.NewReader(data),
		ContentType: awssdk.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", full, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, full), nil
}
