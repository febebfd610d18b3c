// Package blob moves estimate documents to and from an S3 compatible
// object store.
package blob

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var (
	ErrEmptyBucket = errors.New("empty bucket name")
	ErrEmptyKey    = errors.New("empty object key")
)

type Store interface {
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
}

type Config struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"     envDefault:"us-east-1"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Prefix    string `env:"PREFIX"     envDefault:"estimates/"`
}

type s3Store struct {
	bucket string
	prefix string
	up     *s3manager.Uploader
	down   *s3manager.Downloader
}

// NewS3 builds a store from cfg. Static credentials are used when both keys
// are set, otherwise the default AWS credential chain applies.
func NewS3(cfg Config) (Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrEmptyBucket
	}

	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}
	cli := s3.New(sess)

	return &s3Store{
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		up:     s3manager.NewUploaderWithClient(cli),
		down:   s3manager.NewDownloaderWithClient(cli),
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := s.up.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})

	return err
}

func (s *s3Store) Download(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	buf := aws.NewWriteAtBuffer(nil)
	if _, err := s.down.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *s3Store) objectKey(key string) string {
	return s.prefix + strings.TrimPrefix(key, "/")
}
