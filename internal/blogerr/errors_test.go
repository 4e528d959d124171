package blogerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestBlogkitError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BlogkitError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestBlogkitError_WithContext(t *testing.T) {
	err := ValidationFailed("ART-E1", "not an absolute path")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["key"] != "ART-E1" {
		t.Errorf("Context[key] = %v, want ART-E1", err.Context["key"])
	}
}

func TestBlogkitError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, CategoryContent, SeverityError, "page read failed")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	linkErr := LinkTimeout("https://example.com", errors.New("deadline exceeded"))
	standardErr := fmt.Errorf("standard error")

	if !IsCategory(configErr, CategoryConfig) {
		t.Error("expected config category match")
	}
	if IsCategory(configErr, CategoryLink) {
		t.Error("unexpected link category match")
	}
	if !IsCategory(linkErr, CategoryLink) {
		t.Error("expected link category match")
	}
	if IsCategory(standardErr, CategoryInternal) {
		t.Error("standard errors have no category")
	}

	// Wrapped BlogkitErrors are still classifiable.
	wrapped := fmt.Errorf("outer: %w", configErr)
	if !IsCategory(wrapped, CategoryConfig) {
		t.Error("expected category match through wrapping")
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := LinkTimeout("https://example.com", errors.New("timeout"))
	terminal := LinkUnreachable("https://example.com", errors.New("404"))

	if !IsRetryable(retryable) {
		t.Error("timeout should be retryable")
	}
	if IsRetryable(terminal) {
		t.Error("unreachable should not be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(DaemonStart("watcher", errors.New("boom"))); got != CategoryDaemon {
		t.Errorf("GetCategory = %v, want daemon", got)
	}
	if got := GetCategory(errors.New("plain")); got != CategoryInternal {
		t.Errorf("GetCategory = %v, want internal", got)
	}
}
