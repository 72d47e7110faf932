package config

import (
	"strings"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// Validate checks that the configuration describes a runnable export.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.AccountID) == "" {
		return ferrors.ConfigError("account_id is required (config file or ACCOUNT_ID)").Build()
	}
	if strings.TrimSpace(cfg.ContainerID) == "" {
		return ferrors.ConfigError("container_id is required (config file or CONTAINER_ID)").Build()
	}

	switch cfg.Source.Type {
	case SourceTypeAPI:
	case SourceTypeFile:
		if cfg.Source.ExportFile == "" {
			return ferrors.ConfigError("source.export_file is required for file source").Build()
		}
		if cfg.WorkspaceID == "" {
			return ferrors.ConfigError("workspace_id is required for file source").Build()
		}
	default:
		return ferrors.ConfigError("unsupported source type").
			WithContext("type", string(cfg.Source.Type)).
			Build()
	}

	st := cfg.Storage
	switch st.Type {
	case StorageTypeGCS:
		if (st.AccessKey == "") != (st.SecretKey == "") {
			return ferrors.ConfigError("set both storage.access_key and storage.secret_key, or neither to use Google credentials").Build()
		}
		if st.HMAC() && st.Endpoint == "" {
			return ferrors.ConfigError("storage.endpoint is required for HMAC access").Build()
		}
	case StorageTypeS3:
		if st.Endpoint == "" {
			return ferrors.ConfigError("storage.endpoint is required for object storage").Build()
		}
		if !st.HMAC() {
			return ferrors.ConfigError("storage.access_key and storage.secret_key are required for object storage").Build()
		}
	case StorageTypeGit:
		if st.Git.URL == "" {
			return ferrors.ConfigError("storage.git.url is required for git storage").Build()
		}
	case StorageTypeFS, StorageTypeMemory:
	default:
		return ferrors.ConfigError("unsupported storage type").
			WithContext("type", string(st.Type)).
			Build()
	}

	return nil
}

// ValidateCron checks a schedule expression using the same parser the scheduler uses.
func ValidateCron(expr string) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return ferrors.InternalError("create scheduler").WithCause(err).Build()
	}
	defer func() { _ = s.Shutdown() }()

	if _, err := s.NewJob(gocron.CronJob(expr, false), gocron.NewTask(func() {})); err != nil {
		return ferrors.ConfigError("invalid schedule.cron").WithCause(err).
			WithContext("cron", expr).
			Build()
	}
	return nil
}
