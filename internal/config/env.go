package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised in addition to ${VAR} expansion in the YAML file.
const (
	EnvStorageBucket = "STORAGE_BUCKET"
	EnvAccountID     = "ACCOUNT_ID"
	EnvContainerID   = "CONTAINER_ID"
	EnvWorkspaceID   = "WORKSPACE_ID"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env/.env.local when present. Existing process
// environment variables are never overwritten.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", path, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", path)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := envValue(EnvAccountID); v != "" {
		cfg.AccountID = v
	}
	if v := envValue(EnvContainerID); v != "" {
		cfg.ContainerID = v
	}
	if v := envValue(EnvWorkspaceID); v != "" {
		cfg.WorkspaceID = v
	}
	if v := envValue(EnvStorageBucket); v != "" {
		cfg.Storage.Bucket = v
	}
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
