package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "config.yaml" {
			t.Errorf("expected context file=config.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := DataIntegrityError("missing javascript parameter").Build()

		if !HasCategory(err, CategoryDataIntegrity) {
			t.Error("expected error to have data_integrity category")
		}
		if err.CanRetry() {
			t.Error("expected data integrity error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected data integrity error to be fatal")
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := NetworkError("live version fetch failed").Build()
		wrapped := fmt.Errorf("export: %w", inner)

		if GetCategory(wrapped) != CategoryNetwork {
			t.Errorf("expected network category through wrap, got %s", GetCategory(wrapped))
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to report internal category")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("original error")
	err := WrapError(originalErr, CategoryStorage, "save failed").
		Warning().
		WithContext("document", "versions.md").
		Build()

	if err.Severity() != SeverityWarning {
		t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	if got := err.Error(); got != "[storage:warning] save failed: original error" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"a": 1, "shared": "a"}
	b := ErrorContext{"b": 2, "shared": "b"}

	merged := a.Merge(b)
	if merged["shared"] != "b" || merged["a"] != 1 || merged["b"] != 2 {
		t.Errorf("unexpected merge result: %v", merged)
	}
	if ErrorContext(nil).Merge(b)["b"] != 2 {
		t.Error("nil receiver should return other")
	}
}

func TestWithCause(t *testing.T) {
	cause := errors.New("bucket not found")
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
	}{
		{"auth", AuthError("resolve google credentials"), CategoryAuth},
		{"network", NetworkError("fetch live version"), CategoryNetwork},
		{"storage", StorageError("upload document"), CategoryStorage},
		{"internal", InternalError("create scheduler"), CategoryInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("export: %w", tt.builder.WithCause(cause).Build())

			if !errors.Is(err, cause) {
				t.Error("expected cause to be reachable through the chain")
			}
			if !HasCategory(err, tt.category) {
				t.Errorf("expected category %s", tt.category)
			}
			if GetCategory(err) != tt.category {
				t.Errorf("expected %s, got %s", tt.category, GetCategory(err))
			}
		})
	}

	if got := StorageError("upload document").WithCause(cause).Build().Error(); got != "[storage:error] upload document: bucket not found" {
		t.Errorf("unexpected message %q", got)
	}
}
