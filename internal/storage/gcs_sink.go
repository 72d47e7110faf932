package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// GCSConfig configures a Google Cloud Storage bucket reached with Google
// credentials instead of HMAC keys.
type GCSConfig struct {
	Bucket string
	Prefix string
	// CredentialsFile is a service account key. Empty uses application
	// default credentials.
	CredentialsFile string
}

// GCSSink uploads documents through the Cloud Storage JSON API.
type GCSSink struct {
	svc    *gcs.Service
	bucket string
	prefix string
}

func NewGCSSink(ctx context.Context, cfg GCSConfig) (*GCSSink, error) {
	creds, err := gcsCredentials(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, ferrors.AuthError("resolve google storage credentials").WithCause(err).
			WithContext("credentials_file", cfg.CredentialsFile).
			Build()
	}
	return newGCSSink(ctx, cfg, option.WithCredentials(creds))
}

func newGCSSink(ctx context.Context, cfg GCSConfig, opts ...option.ClientOption) (*GCSSink, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, ferrors.ConfigError("gcs bucket is required").Build()
	}
	svc, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, ferrors.AuthError("create cloud storage client").WithCause(err).Build()
	}
	return &GCSSink{
		svc:    svc,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

func gcsCredentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credentialsFile == "" {
		return google.FindDefaultCredentials(ctx, gcs.DevstorageReadWriteScope)
	}
	data, err := os.ReadFile(credentialsFile) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return google.CredentialsFromJSON(ctx, data, gcs.DevstorageReadWriteScope)
}

func (s *GCSSink) Save(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	key := joinKey(s.prefix, name)
	ct := contentType(name)
	obj := &gcs.Object{Name: key, ContentType: ct, CacheControl: "no-cache"}
	_, err = s.svc.Objects.Insert(s.bucket, obj).
		Media(bytes.NewReader(body), googleapi.ContentType(ct)).
		Context(ctx).
		Do()
	if err != nil {
		return ferrors.StorageError("upload document").WithCause(err).
			WithContext("bucket", s.bucket).
			WithContext("key", key).
			Build()
	}
	return nil
}

func (s *GCSSink) Close() error { return nil }
