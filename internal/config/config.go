package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the gtmdocs configuration.
type Config struct {
	AccountID   string `yaml:"account_id"`
	ContainerID string `yaml:"container_id"`
	// WorkspaceID overrides the first workspace returned by the source when set.
	WorkspaceID string `yaml:"workspace_id,omitempty"`

	Source   SourceConfig   `yaml:"source"`
	Storage  StorageConfig  `yaml:"storage"`
	Render   RenderConfig   `yaml:"render"`
	History  HistoryConfig  `yaml:"history"`
	Notify   NotifyConfig   `yaml:"notify"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// SourceConfig selects where the container configuration is read from.
type SourceConfig struct {
	Type            SourceType `yaml:"type"`
	CredentialsFile string     `yaml:"credentials_file,omitempty"`
	ExportFile      string     `yaml:"export_file,omitempty"`
	VersionsFile    string     `yaml:"versions_file,omitempty"`
}

// StorageConfig selects and configures the document sink.
type StorageConfig struct {
	Type StorageType `yaml:"type"`

	// Object storage (gcs, s3). GCS uses HMAC keys through the S3
	// interoperability endpoint when both keys are set; otherwise it uses
	// Google credentials from CredentialsFile or the environment.
	Bucket          string `yaml:"bucket,omitempty"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	Region          string `yaml:"region,omitempty"`
	AccessKey       string `yaml:"access_key,omitempty"`
	SecretKey       string `yaml:"secret_key,omitempty"`
	UseSSL          *bool  `yaml:"use_ssl,omitempty"`
	Prefix          string `yaml:"prefix,omitempty"`

	// Local filesystem (fs).
	Directory string `yaml:"directory,omitempty"`

	Git GitConfig `yaml:"git,omitempty"`
}

// GitConfig configures the git document sink.
type GitConfig struct {
	URL         string `yaml:"url,omitempty"`
	// Branch to check out and push. Empty follows the remote HEAD.
	Branch      string `yaml:"branch,omitempty"`
	Path        string `yaml:"path,omitempty"`
	Token       string `yaml:"token,omitempty"`
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
	Push        bool   `yaml:"push"`
	// WorkDir keeps the clone between runs when set. Without it each run
	// clones into a temporary directory that is removed afterwards.
	WorkDir string `yaml:"work_dir,omitempty"`
}

// RenderConfig tunes projection and rendering.
type RenderConfig struct {
	StrictReferences bool `yaml:"strict_references"`
	SanitizeNotes    bool `yaml:"sanitize_notes"`
}

// HistoryConfig enables the SQLite run history when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig enables NATS completion events when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	// JetStream publishes with acknowledgement to a stream bound to Subject.
	JetStream bool `yaml:"jetstream,omitempty"`
}

// MetricsConfig enables pushing run metrics to a Prometheus Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty"`
	Job            string `yaml:"job,omitempty"`
}

// ScheduleConfig is used by the schedule command.
type ScheduleConfig struct {
	Cron string `yaml:"cron,omitempty"`
}

// HMAC reports whether static access keys are configured.
func (s StorageConfig) HMAC() bool {
	return s.AccessKey != "" && s.SecretKey != ""
}

// ContainerPath returns the API parent path for the configured container.
func (c *Config) ContainerPath() string {
	return fmt.Sprintf("accounts/%s/containers/%s", c.AccountID, c.ContainerID)
}

// Load reads configuration from configPath, applies .env files, environment
// overrides and defaults. A missing file is not an error: the environment
// alone can describe a complete export. Callers run Validate once any CLI
// overrides have been applied.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	var cfg Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			slog.Debug("Configuration file not found, using environment only", "path", configPath)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			// Expand environment variables in the YAML content
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}
