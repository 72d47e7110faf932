package gtm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazySource_OpensOnce(t *testing.T) {
	opened := 0
	static := &StaticSource{
		Version: &ContainerVersion{Trigger: []Trigger{{TriggerID: "1"}}},
		List:    &WorkspaceList{Workspace: []Workspace{{WorkspaceID: "4"}}},
		Headers: []VersionHeader{{ContainerVersionID: "12"}},
	}
	src := &LazySource{Open: func(context.Context) (Source, error) {
		opened++
		return static, nil
	}}
	ctx := context.Background()

	cv, err := src.LiveVersion(ctx)
	require.NoError(t, err)
	assert.Len(t, cv.Trigger, 1)
	list, err := src.Workspaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4", list.Primary())
	headers, err := src.VersionHeaders(ctx)
	require.NoError(t, err)
	assert.Len(t, headers, 1)

	assert.Equal(t, 1, opened)
}

func TestLazySource_RetriesFailedOpen(t *testing.T) {
	openErr := errors.New("no credentials")
	attempts := 0
	src := &LazySource{Open: func(context.Context) (Source, error) {
		attempts++
		if attempts == 1 {
			return nil, openErr
		}
		return &StaticSource{List: &WorkspaceList{}}, nil
	}}

	_, err := src.Workspaces(context.Background())
	require.ErrorIs(t, err, openErr)

	_, err = src.Workspaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
