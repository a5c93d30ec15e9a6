// Package objstore uploads media files to an S3-compatible object store and
// builds the public URLs under which uploaded objects are served.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/avolkov/pawshare/internal/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// UploadOptions mirror the knobs a caller can tune per object.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	// Upsert allows overwriting an existing object. When false the upload
	// fails if an object already exists under the same path.
	Upsert bool
}

type Store struct {
	config *sc.Config
}

func NewStore(config *sc.Config) *Store {
	return &Store{config: config}
}

func (s *Store) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload writes data to bucket under path. With Upsert disabled the request
// carries If-None-Match so the store rejects a second write to the same path.
func (s *Store) Upload(ctx context.Context, bucket string, path string, data []byte, opts UploadOptions) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &path,
		Body:   bytes.NewReader(data),
	}
	if opts.ContentType != "" {
		in.ContentType = &opts.ContentType
	}
	if opts.CacheControl != "" {
		in.CacheControl = &opts.CacheControl
	}
	if !opts.Upsert {
		in.IfNoneMatch = aws.String("*")
	}

	if _, err := putObject(client, ctx, in); err != nil {
		return fmt.Errorf("upload error: %w", err)
	}

	return nil
}

// PublicURL returns the public address of an object without any remote call.
func (s *Store) PublicURL(bucket string, path string) string {
	base := strings.TrimRight(s.config.PublicURLBase, "/")
	return fmt.Sprintf("%s/%s/%s", base, bucket, strings.TrimLeft(path, "/"))
}
