package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to save progress: %w", errors.New("disk full")),
			expected: "Error: failed to save progress: disk full",
		},
		{
			name:     "hinted error",
			err:      WithHint(errors.New("storage not initialized"), "run 'lectio init'"),
			expected: "Error: storage not initialized\nHint: run 'lectio init'",
		},
		{
			name:     "hint survives wrapping",
			err:      fmt.Errorf("load: %w", WithHint(errors.New("locked"), "close the dashboard")),
			expected: "Error: load: locked\nHint: close the dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestWithHint(t *testing.T) {
	if WithHint(nil, "ignored") != nil {
		t.Error("WithHint(nil) should be nil")
	}

	base := errors.New("plan not found")
	err := WithHint(base, "run 'lectio plans'")
	if !errors.Is(err, base) {
		t.Error("hinted error should unwrap to its cause")
	}
	if HintOf(err) != "run 'lectio plans'" {
		t.Errorf("HintOf() = %q", HintOf(err))
	}
	if HintOf(base) != "" {
		t.Error("plain error should have no hint")
	}
}

func TestWarning(t *testing.T) {
	if got := Warning(nil); got != "" {
		t.Errorf("Warning(nil) = %q, want empty", got)
	}
	if got := Warning(errors.New("progress was not saved")); got != "Warning: progress was not saved" {
		t.Errorf("Warning() = %q", got)
	}
}
