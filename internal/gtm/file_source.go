package gtm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// FileSource reads a container export produced by the GTM UI ("Export
// Container") instead of calling the API. Exports carry no workspace list,
// so the workspace used for editor links is supplied by the caller.
type FileSource struct {
	ExportPath   string
	VersionsPath string
	WorkspaceID  string
}

type exportFile struct {
	ExportFormatVersion int               `json:"exportFormatVersion"`
	ContainerVersion    *ContainerVersion `json:"containerVersion"`
}

type versionHeadersFile struct {
	ContainerVersionHeader []VersionHeader `json:"containerVersionHeader"`
}

// LiveVersion decodes the export file. Both the wrapped export format and a
// bare containerVersion object are accepted.
func (s *FileSource) LiveVersion(context.Context) (*ContainerVersion, error) {
	data, err := os.ReadFile(s.ExportPath)
	if err != nil {
		return nil, ferrors.NetworkError("read container export").WithCause(err).
			WithContext("path", s.ExportPath).
			Build()
	}
	return DecodeExport(data)
}

// DecodeExport parses a GTM container export document.
func DecodeExport(data []byte) (*ContainerVersion, error) {
	var wrapped exportFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, ferrors.ValidationError("decode container export").WithCause(err).Build()
	}
	if wrapped.ContainerVersion != nil {
		return wrapped.ContainerVersion, nil
	}

	var bare ContainerVersion
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, ferrors.ValidationError("decode container version").WithCause(err).Build()
	}
	return &bare, nil
}

// Workspaces returns a single-entry list holding the configured workspace.
func (s *FileSource) Workspaces(context.Context) (*WorkspaceList, error) {
	if s.WorkspaceID == "" {
		return nil, ferrors.ConfigError("file source requires a workspace id").Build()
	}
	return &WorkspaceList{Workspace: []Workspace{{WorkspaceID: s.WorkspaceID}}}, nil
}

// VersionHeaders reads the optional version header file. It accepts the
// version_headers.list response body or a bare JSON array. Without a file
// the version table is rendered with no rows.
func (s *FileSource) VersionHeaders(context.Context) ([]VersionHeader, error) {
	if s.VersionsPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.VersionsPath)
	if err != nil {
		return nil, ferrors.NetworkError("read version headers").WithCause(err).
			WithContext("path", s.VersionsPath).
			Build()
	}
	return decodeVersionHeaders(data)
}

func decodeVersionHeaders(data []byte) ([]VersionHeader, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var headers []VersionHeader
		if err := json.Unmarshal(trimmed, &headers); err != nil {
			return nil, fmt.Errorf("decode version header array: %w", err)
		}
		return headers, nil
	}
	var wrapped versionHeadersFile
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode version header list: %w", err)
	}
	return wrapped.ContainerVersionHeader, nil
}
