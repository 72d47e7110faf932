package config

import "strings"

// SourceType identifies a configuration source implementation.
type SourceType string

const (
	SourceTypeAPI  SourceType = "api"
	SourceTypeFile SourceType = "file"
)

// StorageType identifies a document sink implementation.
type StorageType string

const (
	StorageTypeGCS    StorageType = "gcs"
	StorageTypeS3     StorageType = "s3"
	StorageTypeFS     StorageType = "fs"
	StorageTypeGit    StorageType = "git"
	StorageTypeMemory StorageType = "memory"
)

// NormalizeSourceType lower-cases and trims a raw source type.
func NormalizeSourceType(raw string) SourceType {
	return SourceType(strings.ToLower(strings.TrimSpace(raw)))
}

// NormalizeStorageType lower-cases and trims a raw storage type.
func NormalizeStorageType(raw string) StorageType {
	return StorageType(strings.ToLower(strings.TrimSpace(raw)))
}
