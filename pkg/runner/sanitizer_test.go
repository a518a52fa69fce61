package runner

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckInputSize(t *testing.T) {
	limit := 16

	tests := []struct {
		name      string
		inputSize int
		limit     int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, limit, false},
		{"Exact Limit", limit, limit, false},
		{"Over Limit", limit + 1, limit, true},
		{"Disabled", limit * 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInputSize(strings.Repeat("a", tt.inputSize), tt.limit)
			if tt.wantErr {
				if !errors.Is(err, ErrInputTooLarge) {
					t.Errorf("CheckInputSize() expected ErrInputTooLarge for size %d, got %v", tt.inputSize, err)
				}
			} else if err != nil {
				t.Errorf("CheckInputSize() unexpected error: %v", err)
			}
		})
	}
}

func TestSanitizeRules(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Rules", "/t/l", "/t/l"},
		{"Tab Kept", "/r\t'a'\t'b'", "/r\t'a'\t'b'"},
		{"ANSI Code", "\x1b[31m/u", "[31m/u"},
		{"Newline", "/t\n/u", "/t/u"},
		{"Null Byte", "/t\x00/u", "/t/u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeRules(tt.input)
			if err != nil {
				t.Fatalf("SanitizeRules() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("SanitizeRules() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSanitizeRules_InvalidUTF8(t *testing.T) {
	_, err := SanitizeRules("/r '\xff' 'x'")
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestMaxInputSize_Env(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "123")
	if got := MaxInputSize(); got != 123 {
		t.Errorf("MaxInputSize() = %d, want 123", got)
	}

	t.Setenv(EnvMaxInputSize, "garbage")
	if got := MaxInputSize(); got != DefaultMaxInputSize {
		t.Errorf("MaxInputSize() = %d, want default", got)
	}
}
