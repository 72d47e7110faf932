package gtm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tagmanager "google.golang.org/api/tagmanager/v2"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
)

// APISource reads a container through the Tag Manager API v2.
type APISource struct {
	svc    *tagmanager.Service
	parent string
}

// NewAPISource authenticates with read-only Tag Manager scope. When
// credentialsFile is empty, application default credentials are used; the
// service account must be granted read access to the container.
func NewAPISource(ctx context.Context, parent, credentialsFile string) (*APISource, error) {
	creds, err := findCredentials(ctx, credentialsFile)
	if err != nil {
		return nil, ferrors.AuthError("resolve google credentials").WithCause(err).
			WithContext("credentials_file", credentialsFile).
			Build()
	}

	svc, err := tagmanager.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, ferrors.AuthError("create tag manager client").WithCause(err).Build()
	}

	slog.Debug("Tag Manager API client ready", logfields.Container(parent))
	return &APISource{svc: svc, parent: parent}, nil
}

func findCredentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credentialsFile == "" {
		return google.FindDefaultCredentials(ctx, tagmanager.TagmanagerReadonlyScope)
	}
	data, err := os.ReadFile(credentialsFile) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return google.CredentialsFromJSON(ctx, data, tagmanager.TagmanagerReadonlyScope)
}

// LiveVersion fetches the published container version.
func (s *APISource) LiveVersion(ctx context.Context) (*ContainerVersion, error) {
	cv, err := s.svc.Accounts.Containers.Versions.Live(s.parent).Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError(err, "fetch live container version", s.parent)
	}
	return convertContainerVersion(cv), nil
}

// Workspaces lists every workspace of the container.
func (s *APISource) Workspaces(ctx context.Context) (*WorkspaceList, error) {
	list := &WorkspaceList{}
	err := s.svc.Accounts.Containers.Workspaces.List(s.parent).Pages(ctx, func(page *tagmanager.ListWorkspacesResponse) error {
		for _, w := range page.Workspace {
			if w == nil {
				continue
			}
			list.Workspace = append(list.Workspace, Workspace{WorkspaceID: w.WorkspaceId, Name: w.Name})
		}
		return nil
	})
	if err != nil {
		return nil, classifyAPIError(err, "list workspaces", s.parent)
	}
	return list, nil
}

// VersionHeaders lists all version headers in the order the API returns them.
func (s *APISource) VersionHeaders(ctx context.Context) ([]VersionHeader, error) {
	var headers []VersionHeader
	err := s.svc.Accounts.Containers.VersionHeaders.List(s.parent).Pages(ctx, func(page *tagmanager.ListContainerVersionsResponse) error {
		for _, h := range page.ContainerVersionHeader {
			if h == nil {
				continue
			}
			headers = append(headers, VersionHeader{
				ContainerVersionID: h.ContainerVersionId,
				Name:               h.Name,
				NumTags:            h.NumTags,
				NumTriggers:        h.NumTriggers,
				NumVariables:       h.NumVariables,
				NumCustomTemplates: h.NumCustomTemplates,
				NumZones:           h.NumZones,
			})
		}
		return nil
	})
	if err != nil {
		return nil, classifyAPIError(err, "list version headers", s.parent)
	}
	return headers, nil
}

func classifyAPIError(err error, op, parent string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
		return ferrors.AuthError(op).WithCause(err).
			WithContext("container", parent).
			WithContext("status", apiErr.Code).
			Build()
	}
	return ferrors.NetworkError(op).WithCause(err).
		WithContext("container", parent).
		Build()
}
