package gtm

import (
	"context"
	"sync"
)

// Source supplies the three collections an export is built from. Each call
// returns the complete collection or an error; partial results are never returned.
type Source interface {
	LiveVersion(ctx context.Context) (*ContainerVersion, error)
	Workspaces(ctx context.Context) (*WorkspaceList, error)
	VersionHeaders(ctx context.Context) ([]VersionHeader, error)
}

// StaticSource serves fixed collections. It backs dry runs over fixtures and tests.
type StaticSource struct {
	Version  *ContainerVersion
	List     *WorkspaceList
	Headers  []VersionHeader
	FetchErr error
}

func (s *StaticSource) LiveVersion(context.Context) (*ContainerVersion, error) {
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return s.Version, nil
}

func (s *StaticSource) Workspaces(context.Context) (*WorkspaceList, error) {
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return s.List, nil
}

func (s *StaticSource) VersionHeaders(context.Context) ([]VersionHeader, error) {
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return s.Headers, nil
}

// LazySource opens the underlying source on first use, so credential
// problems surface as a failed fetch of the run that hit them. A failed
// open is retried by the next call.
type LazySource struct {
	Open func(ctx context.Context) (Source, error)

	mu  sync.Mutex
	src Source
}

func (l *LazySource) source(ctx context.Context) (Source, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.src != nil {
		return l.src, nil
	}
	src, err := l.Open(ctx)
	if err != nil {
		return nil, err
	}
	l.src = src
	return src, nil
}

func (l *LazySource) LiveVersion(ctx context.Context) (*ContainerVersion, error) {
	src, err := l.source(ctx)
	if err != nil {
		return nil, err
	}
	return src.LiveVersion(ctx)
}

func (l *LazySource) Workspaces(ctx context.Context) (*WorkspaceList, error) {
	src, err := l.source(ctx)
	if err != nil {
		return nil, err
	}
	return src.Workspaces(ctx)
}

func (l *LazySource) VersionHeaders(ctx context.Context) ([]VersionHeader, error) {
	src, err := l.source(ctx)
	if err != nil {
		return nil, err
	}
	return src.VersionHeaders(ctx)
}
