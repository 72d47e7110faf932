package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "auth", err: AuthError("no credentials").Build(), expected: 5},
		{name: "config", err: ConfigError("missing account id").Build(), expected: 7},
		{name: "network", err: NetworkError("fetch failed").Build(), expected: 8},
		{name: "data integrity", err: DataIntegrityError("bad variable").Build(), expected: 11},
		{name: "storage", err: StorageError("bucket unreachable").Build(), expected: 13},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)
	err := ConfigError("account_id is required").Build()

	if got := quiet.FormatError(err); got != "Error: account_id is required" {
		t.Errorf("unexpected quiet format %q", got)
	}
	if got := verbose.FormatError(err); !strings.Contains(got, "[config:fatal]") {
		t.Errorf("verbose format should include classification, got %q", got)
	}
	if got := quiet.FormatError(InternalError("nil sink").Build()); !strings.Contains(got, "use -v") {
		t.Errorf("internal errors should be hidden without -v, got %q", got)
	}
}

func TestCLIErrorAdapter_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	adapter.Log(NetworkError("fetch failed").WithContext("container", "accounts/1/containers/2").Build())

	out := buf.String()
	for _, want := range []string{"level=ERROR", "category=network", "retryable=true", "container=accounts/1/containers/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}
