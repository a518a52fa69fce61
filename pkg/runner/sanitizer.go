package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 10MB.
	DefaultMaxInputSize = 10_000_000
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TEXTKIT_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("rule string contains invalid UTF-8 sequences")
)

// CheckInputSize rejects text longer than limit bytes. A limit of zero or
// less disables the check. Text is not otherwise inspected: encoding rules
// need the raw bytes.
func CheckInputSize(text string, limit int) error {
	if limit > 0 && len(text) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(text), limit)
	}
	return nil
}

// SanitizeRules cleans an untrusted rule string: it must be valid UTF-8,
// and control characters other than tab are stripped.
func SanitizeRules(rules string) (string, error) {
	if !utf8.ValidString(rules) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range rules {
		if unicode.IsControl(r) && r != '\t' {
			clean = false
			break
		}
	}
	if clean {
		return rules, nil
	}

	var b strings.Builder
	b.Grow(len(rules))
	for _, r := range rules {
		if !unicode.IsControl(r) || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// MaxInputSize returns the limit from TEXTKIT_MAX_INPUT_SIZE, or the default.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
