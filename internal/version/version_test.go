package version

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type marker struct{}

// The ldflags documented on Version only take effect if they name this
// package's import path.
func TestLdflagsPackagePath(t *testing.T) {
	assert.Equal(t, "git.home.luguber.info/inful/gtmdocs/internal/version", reflect.TypeOf(marker{}).PkgPath())
}

func TestString(t *testing.T) {
	v, c, b := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = v, c, b })

	assert.Equal(t, "gtmdocs unknown (commit unknown, built unknown)", String())

	Version, GitCommit, BuildTime = "v0.3.0", "4f2a9c1", "2026-10-01T12:00:00Z"
	assert.Equal(t, "gtmdocs v0.3.0 (commit 4f2a9c1, built 2026-10-01T12:00:00Z)", String())
}
