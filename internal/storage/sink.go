// Package storage persists rendered documents.
package storage

import (
	"context"
	"path"
	"strings"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// Sink stores documents by name. Save may be called concurrently for
// distinct names. Close flushes pending work and releases resources.
type Sink interface {
	// Save replaces the document stored under name with body.
	Save(ctx context.Context, name string, body []byte) error

	// Close releases any resources held by the sink.
	Close() error
}

// New builds the sink selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Sink, error) {
	switch cfg.Type {
	case config.StorageTypeFS:
		return NewFSSink(cfg.Directory)
	case config.StorageTypeGCS, config.StorageTypeS3:
		if cfg.Type == config.StorageTypeGCS && !cfg.HMAC() {
			return NewGCSSink(ctx, GCSConfig{
				Bucket:          cfg.Bucket,
				Prefix:          cfg.Prefix,
				CredentialsFile: cfg.CredentialsFile,
			})
		}
		useSSL := cfg.UseSSL == nil || *cfg.UseSSL
		return NewObjectSink(ObjectConfig{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			UseSSL:    useSSL,
		})
	case config.StorageTypeGit:
		return NewGitSink(ctx, cfg.Git)
	case config.StorageTypeMemory:
		return NewMemorySink(), nil
	default:
		return nil, ferrors.ConfigError("unsupported storage type").
			WithContext("type", string(cfg.Type)).
			Build()
	}
}

// cleanName validates a document name. Names are slash-separated, relative
// and may not escape the sink root.
func cleanName(name string) (string, error) {
	cleaned := path.Clean(strings.TrimSpace(name))
	if cleaned == "." || cleaned == "" || strings.HasPrefix(cleaned, "/") ||
		cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ferrors.ValidationError("invalid document name").
			WithContext("name", name).
			Build()
	}
	return cleaned, nil
}
