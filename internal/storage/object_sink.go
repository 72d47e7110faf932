package storage

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// ObjectConfig configures an S3-compatible bucket. Google Cloud Storage is
// reached through its interoperability endpoint with HMAC keys.
type ObjectConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// ObjectSink uploads documents as objects named <prefix>/<document>.
type ObjectSink struct {
	client   *minio.Client
	bucket   string
	region   string
	prefix   string
	initOnce sync.Once
	initErr  error
}

func NewObjectSink(cfg ObjectConfig) (*ObjectSink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, ferrors.ConfigError("object storage endpoint is required").Build()
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, ferrors.ConfigError("object storage access key and secret key are required").Build()
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, ferrors.ConfigError("object storage bucket is required").Build()
	}
	region := strings.TrimSpace(cfg.Region)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, ferrors.ConfigError("init object storage client").WithCause(err).
			WithContext("endpoint", endpoint).
			Build()
	}

	return &ObjectSink{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

// ensureBucket checks for the bucket once per sink and creates it when missing.
func (s *ObjectSink) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *ObjectSink) Save(ctx context.Context, name string, body []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return ferrors.StorageError("ensure bucket").WithCause(err).
			WithContext("bucket", s.bucket).
			Build()
	}

	key := joinKey(s.prefix, name)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  contentType(name),
		CacheControl: "no-cache",
	})
	if err != nil {
		return ferrors.StorageError("upload document").WithCause(err).
			WithContext("bucket", s.bucket).
			WithContext("key", key).
			Build()
	}
	return nil
}

func (s *ObjectSink) Close() error { return nil }

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".md") {
		return "text/markdown; charset=utf-8"
	}
	return "application/octet-stream"
}
