package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Example returns a starter configuration for the given container. Both the
// Tag Manager API and the GCS bucket are reached with Google application
// default credentials.
func Example(accountID, containerID, bucket string) Config {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return Config{
		AccountID:   accountID,
		ContainerID: containerID,
		Source:      SourceConfig{Type: SourceTypeAPI},
		Storage: StorageConfig{
			Type:   StorageTypeGCS,
			Bucket: bucket,
		},
		Schedule: ScheduleConfig{Cron: DefaultCron},
	}
}

// Init writes cfg to configPath. It refuses to overwrite an existing file unless force is set.
func Init(configPath string, cfg Config, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
