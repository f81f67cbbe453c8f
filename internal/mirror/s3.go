// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/staranto/stkit/internal/aws"
	"github.com/staranto/stkit/internal/config"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	s3v2.ListObjectsV2APIClient
}

// S3Store is an ObjectStore backed by a single S3 bucket.
type S3Store struct {
	Client S3API
	Bucket string
}

// NewS3Store builds an S3Store from the mirror.* config keys. bucket and
// endpoint override mirror.bucket and mirror.endpoint when non-empty.
func NewS3Store(ctx context.Context, bucket, endpoint string) (*S3Store, error) {
	if bucket == "" {
		bucket, _ = config.GetString("mirror.bucket", "")
	}
	if bucket == "" {
		return nil, fmt.Errorf("no bucket given and mirror.bucket is not set")
	}
	if endpoint == "" {
		endpoint, _ = config.GetString("mirror.endpoint", "")
	}

	cfg, err := aws.LoadAWSConfig(ctx, aws.OptionsFromConfig()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &S3Store{
		Client: aws.NewS3(cfg, aws.WithS3Endpoint(endpoint)),
		Bucket: bucket,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	_, err := s.Client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(s.Bucket),
		Key:           awsv2.String(key),
		Body:          body,
		ContentLength: awsv2.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.Bucket, key, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, key, err)
	}
	return out.Body, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	input := &s3v2.ListObjectsV2Input{Bucket: awsv2.String(s.Bucket)}
	if prefix != "" {
		input.Prefix = awsv2.String(strings.TrimSuffix(prefix, "/") + "/")
	}

	var keys []string
	p := s3v2.NewListObjectsV2Paginator(s.Client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", s.Bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, awsv2.ToString(obj.Key))
		}
	}
	return keys, nil
}
